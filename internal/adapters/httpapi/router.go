package httpapi

import (
	"context"
	"net/http"

	"chirp/internal/adapters/filestore"
	"chirp/internal/adapters/httpapi/middleware"
	"chirp/internal/adapters/metrics"
	postPort "chirp/internal/ports/post"
	userPort "chirp/internal/ports/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// UserUseCase is the inbound port the user routes depend on.
type UserUseCase interface {
	RegisterUser(ctx context.Context, username, password, displayName string) (*userPort.AuthResponse, error)
	LoginUser(ctx context.Context, username, password string) (*userPort.AuthResponse, error)
	GetUser(ctx context.Context, userID string) (*userPort.UserDTO, error)
	SetProfilePicture(ctx context.Context, userID string, data []byte) (*userPort.UserDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, content, userID string) (*postPort.PostDTO, error)
	Repost(ctx context.Context, postID, userID string) (*postPort.PostDTO, error)
	LikePost(ctx context.Context, postID string) (*postPort.LikeDTO, error)
	ListPosts(ctx context.Context) ([]*postPort.PostDTO, error)
	GetProfile(ctx context.Context, username string) (*postPort.ProfileDTO, error)
}

// LiveHandler serves the live channel over websocket and server-sent events.
type LiveHandler interface {
	ServeWebsocket(c *gin.Context)
	ServeStream(c *gin.Context)
}

type Options struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer // /metrics is not mounted when nil
	UploadDir      string
	MaxUploadBytes int64
}

// SetupRoutes only wires routes; the use cases are injected from outside.
func SetupRoutes(
	userUC UserUseCase,
	postUC PostUseCase,
	live LiveHandler,
	tokens middleware.TokenVerifier,
	opts Options,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(opts.Logger), middleware.RequestLogger(opts.Logger, opts.Metrics))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	uc := NewUserController(userUC, opts.Logger, opts.MaxUploadBytes)
	pc := NewPostController(postUC, opts.Logger, opts.Metrics)
	auth := middleware.JWTAuthMiddleware(tokens)

	api := r.Group("/api")

	// registration and login need no token
	api.POST("/auth/register", uc.RegisterUser)
	api.POST("/auth/login", uc.LoginUser)

	api.GET("/posts", pc.ListPosts)
	api.POST("/posts", auth, pc.CreatePost)
	api.POST("/posts/:id/like", pc.LikePost)
	api.POST("/posts/:id/repost", auth, pc.Repost)

	api.GET("/users/me", auth, uc.GetMe)
	api.POST("/users/picture", auth, uc.UploadProfilePicture)
	api.GET("/users/:username", pc.GetProfile)

	api.GET("/live", live.ServeWebsocket)
	api.GET("/live/stream", live.ServeStream)

	if opts.UploadDir != "" {
		r.Static(filestore.PublicPrefix, opts.UploadDir)
	}
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return r
}
