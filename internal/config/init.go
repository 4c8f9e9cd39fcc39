package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Settings struct {
	Env            string
	Port           string
	JWTSecret      string
	TokenTTL       time.Duration
	StoreDriver    string
	DBDSN          string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	UploadDir      string
	MaxUploadBytes int64
	BatchSize      int
	SyncInterval   time.Duration
}

func (s *Settings) Production() bool { return s.Env == "production" }

// Load reads .env when present and then the process environment.
func Load() *Settings {
	envFileErr := godotenv.Load()

	s := &Settings{
		Env:            os.Getenv("APP_ENV"),
		Port:           getenv("APP_PORT", "3000"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		StoreDriver:    getenv("STORE_DRIVER", DriverMySQL),
		DBDSN:          os.Getenv("DB_DSN"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDB:        getenv("MONGO_DB", "chirp"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getInt("REDIS_DB", 0),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getInt("MAX_UPLOAD_BYTES", 5<<20)),
		BatchSize:      getInt("BATCH_SIZE", 100),
		SyncInterval:   getDuration("INDEX_SYNC_INTERVAL", 30*time.Second),
	}

	InitLogger(s.Production())
	if envFileErr != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	if s.JWTSecret == "" {
		Logger.Fatal("JWT_SECRET is not set")
	}
	switch s.StoreDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
		if s.DBDSN == "" {
			Logger.Fatal("DB_DSN is not set")
		}
	case DriverMongo:
		if s.MongoURI == "" {
			Logger.Fatal("MONGO_URI is not set")
		}
	default:
		Logger.Fatal("STORE_DRIVER must be one of mysql, postgres, sqlite, mongo")
	}
	return s
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
