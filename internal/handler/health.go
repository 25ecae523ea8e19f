package handler

import (
	"context"
	"net/http"
	"time"

	"filialpos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// The database is required; Redis is optional and reported as "disabled"
// when not configured. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		if db == nil {
			dbStatus = "error"
		} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		body := gin.H{"db": dbStatus}
		ok := dbStatus == "connected"

		switch {
		case rdb == nil:
			body["redis"] = "disabled"
		case rdb.Ping(ctx).Err() != nil:
			body["redis"] = "error"
			ok = false
		default:
			body["redis"] = "connected"
			if n, err := worker.TamanhoDLQ(ctx, rdb, worker.QueueEmail); err == nil {
				body["dlq_email"] = n
			}
		}

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = ok
		c.JSON(status, body)
	}
}
