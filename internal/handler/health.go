package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthTimeout = 3 * time.Second

// Health probes the two backends the engine reads and caches through.
// A degraded backend answers 503 so orchestrators recycle the instance.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		banco := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			banco = "indisponivel"
		}

		cache := "ok"
		if rdb.Ping(ctx).Err() != nil {
			cache = "indisponivel"
		}

		status, geral := http.StatusOK, "ok"
		if banco != "ok" || cache != "ok" {
			status, geral = http.StatusServiceUnavailable, "degradado"
		}

		c.JSON(status, gin.H{
			"status": geral,
			"banco":  banco,
			"redis":  cache,
		})
	}
}
