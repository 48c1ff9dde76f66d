package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port string

	DBDriver      string // sqlite | mongo
	DBDSN         string
	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MediaDir     string
	MediaBaseURL string
	LogFile      string

	JWTSecret string
	TokenTTL  time.Duration

	BodyLimitMB int
	Seed        bool
}

const devJWTSecret = "bazaar-dev-secret-change-me"

func Load() Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "bazaar.db") // sqlite file in project root
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "bazaar")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MEDIA_DIR", "./web/media")
	v.SetDefault("MEDIA_BASE_URL", "/media")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("BODY_LIMIT_MB", 12)
	v.SetDefault("SEED", false)

	cfg := Config{
		Port:          v.GetString("PORT"),
		DBDriver:      v.GetString("DB_DRIVER"),
		DBDSN:         v.GetString("DB_DSN"),
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		MediaDir:      v.GetString("MEDIA_DIR"),
		MediaBaseURL:  v.GetString("MEDIA_BASE_URL"),
		LogFile:       v.GetString("LOG_FILE"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		TokenTTL:      v.GetDuration("TOKEN_TTL"),
		BodyLimitMB:   v.GetInt("BODY_LIMIT_MB"),
		Seed:          v.GetBool("SEED"),
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.BodyLimitMB <= 0 {
		cfg.BodyLimitMB = 12
	}
	if len(cfg.JWTSecret) < 32 {
		log.Printf("[config] WARNING: JWT_SECRET should be at least 32 characters")
	}

	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s REDIS_ADDR=%s MEDIA_DIR=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDriver, cfg.DBDSN, cfg.RedisAddr, cfg.MediaDir, cfg.LogFile)
	return cfg
}
