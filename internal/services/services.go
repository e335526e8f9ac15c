package services

import (
	"context"
	"log/slog"

	"github.com/curaious/companion/internal/cache"
	"github.com/curaious/companion/internal/config"
	"github.com/curaious/companion/internal/db"
	"github.com/curaious/companion/internal/services/category"
	"github.com/curaious/companion/internal/services/companion"
	"github.com/jmoiron/sqlx"
)

type Services struct {
	Category  *category.CategoryService
	Companion *companion.CompanionService

	DB *sqlx.DB
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	redisClient, err := cache.NewClient(context.Background(), conf.REDIS_ADDR, conf.REDIS_PASSWORD, conf.REDIS_DB)
	if err != nil {
		slog.Warn("Redis unavailable, caching disabled", slog.Any("error", err))
	}

	var c *cache.Cache
	if redisClient != nil {
		c = cache.New(redisClient, "companion:", conf.CacheTTL())
		slog.Info("Connected to redis for caching", slog.String("addr", conf.REDIS_ADDR))
	}

	return New(dbconn, c)
}

// New wires the services over an open database connection. c may be nil.
func New(dbconn *sqlx.DB, c *cache.Cache) *Services {
	categories := category.NewCategoryService(category.NewCategoryRepo(dbconn), c)

	return &Services{
		Category:  categories,
		Companion: companion.NewCompanionService(companion.NewCompanionRepo(dbconn), categories, c),
		DB:        dbconn,
	}
}
