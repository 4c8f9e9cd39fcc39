package main

import (
	"context"
	"os/signal"
	"syscall"

	dbadapter "chirp/internal/adapters/database"
	"chirp/internal/adapters/filestore"
	"chirp/internal/adapters/httpapi"
	"chirp/internal/adapters/live"
	"chirp/internal/adapters/metrics"
	mongoadapter "chirp/internal/adapters/mongo"
	redisadapter "chirp/internal/adapters/redis"
	"chirp/internal/config"
	"chirp/internal/core/auth"
	postapp "chirp/internal/core/post/service"
	userapp "chirp/internal/core/user/service"
	postPort "chirp/internal/ports/post"
	userPort "chirp/internal/ports/user"
	"chirp/internal/workers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	settings := config.Load() // loads .env and builds config.Logger
	logger := config.Logger
	defer func() { _ = logger.Sync() }()

	if settings.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var closers []func()
	defer func() { closeResources(closers) }()

	userRepo, postRepo, closeStore := openStore(ctx, settings, logger)
	closers = append(closers, closeStore)

	// the feed index is optional; without redis the store orders the feed
	var feedIndex postPort.FeedIndex
	if settings.RedisAddr != "" {
		client, err := config.NewRedis(ctx, settings.RedisAddr, settings.RedisPassword, settings.RedisDB)
		if err != nil {
			logger.Fatal("Error connecting to Redis:", zap.Error(err))
		}
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				logger.Error("Error closing Redis connection:", zap.Error(err))
			}
		})
		logger.Info("✅ Connected to Redis", zap.String("addr", settings.RedisAddr))

		index := redisadapter.NewFeedIndexRedis(client, logger)
		worker := workers.NewFeedIndexWorker(postRepo, index, settings.BatchSize, settings.SyncInterval, logger)
		// backfill before serving so the feed never reads a partial index
		if n, err := worker.Sync(ctx); err != nil {
			logger.Warn("⚠️ Initial feed index sync failed, serving the feed from the store", zap.Error(err))
		} else {
			logger.Info("✅ Feed index backfilled", zap.Int("count", n))
			feedIndex = index
		}
		go worker.Run(ctx)
	}

	avatars, err := filestore.NewLocalAvatarStore(settings.UploadDir)
	if err != nil {
		logger.Fatal("Error preparing upload directory:", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	hub := live.NewHub(logger, m)
	tokens := auth.NewTokenIssuer([]byte(settings.JWTSecret), settings.TokenTTL)

	userSvc := userapp.NewUserService(userRepo, avatars, tokens, logger)
	postSvc := postapp.NewPostService(postRepo, userRepo, feedIndex, hub, logger)
	r := httpapi.SetupRoutes(userSvc, postSvc, hub, tokens, httpapi.Options{
		Logger:         logger,
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
		UploadDir:      settings.UploadDir,
		MaxUploadBytes: settings.MaxUploadBytes,
	})

	logger.Info("App is running...", zap.String("port", settings.Port), zap.String("store", settings.StoreDriver))
	go func() {
		if err := r.Run(":" + settings.Port); err != nil {
			logger.Error("Server failed to start:", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Shutting down")
}

// openStore connects the configured backend and prepares its schema.
func openStore(ctx context.Context, s *config.Settings, logger *zap.Logger) (userPort.UserRepository, postPort.PostRepository, func()) {
	if s.StoreDriver == config.DriverMongo {
		client, err := config.ConnectMongo(ctx, s.MongoURI)
		if err != nil {
			logger.Fatal("Error connecting to MongoDB:", zap.Error(err))
		}
		db := client.Database(s.MongoDB)
		users := mongoadapter.NewUserRepositoryMongo(db)
		posts := mongoadapter.NewPostRepositoryMongo(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			logger.Fatal("Error creating user indexes:", zap.Error(err))
		}
		if err := posts.EnsureIndexes(ctx); err != nil {
			logger.Fatal("Error creating post indexes:", zap.Error(err))
		}
		logger.Info("✅ Connected to MongoDB", zap.String("database", s.MongoDB))

		return users, posts, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("Error closing MongoDB connection:", zap.Error(err))
			}
		}
	}

	db, err := config.OpenDatabase(s.StoreDriver, s.DBDSN)
	if err != nil {
		logger.Fatal("Error connecting to database:", zap.Error(err))
	}
	if err := dbadapter.Migrate(db); err != nil {
		logger.Fatal("Error during migrations:", zap.Error(err))
	}
	logger.Info("✅ Database migrations completed", zap.String("driver", s.StoreDriver))

	return dbadapter.NewUserRepositoryDatabase(db), dbadapter.NewPostRepositoryDatabase(db), func() {
		if err := config.CloseDatabase(db); err != nil {
			logger.Error("Error closing database connection:", zap.Error(err))
		}
	}
}

// closeResources releases connections in reverse order of opening.
func closeResources(closers []func()) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
