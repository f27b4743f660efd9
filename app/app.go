package app

import (
	"Gin_postgres_redis_mr_tool/db"
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Log    *zap.Logger
	Config Config
}

// Config 从环境变量读取
type Config struct {
	RedisAddr string
	RedisPwd  string
	WebOrigin string
	CacheTTL  time.Duration
	GinMode   string
}

func MustNew() *App {
	cfg := loadConfig()

	// --- Logger ---
	logger, err := newLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	// --- DB: Postgres ---
	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}

	// --- Gin ---
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(logger))
	useCORS(r, cfg.WebOrigin)

	return &App{Router: r, DB: dbConn, RDB: rdb, Log: logger, Config: cfg}
}

func (a *App) Close() {
	_ = a.RDB.Close()
	_ = a.Log.Sync()
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("GIN_MODE") == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	ttl := 30 * time.Second
	if d, err := time.ParseDuration(get("DASH_CACHE_TTL", "30s")); err == nil {
		ttl = d
	}
	return Config{
		RedisAddr: get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),
		WebOrigin: get("WEB_ORIGIN", "http://localhost:5173"),
		CacheTTL:  ttl,
		GinMode:   os.Getenv("GIN_MODE"),
	}
}
