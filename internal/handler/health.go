package handler

import (
	"context"
	"net/http"
	"time"

	"paddyledger/internal/infra"
	"paddyledger/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the weighbridge circuit
// breaker state plus the receipt DLQ depth; never exposes credentials.
func Health(db *gorm.DB, rdb *redis.Client, wb *infra.WeighbridgeClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		dlqDepth := int64(0)
		if rdb == nil {
			redisStatus = "disabled"
		} else if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			dlqDepth, _ = worker.DLQLength(ctx, rdb, worker.QueueReceipt)
		}

		weighbridge := "stub"
		if wb != nil && wb.Configured() {
			weighbridge = wb.BreakerState().String()
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":          status == http.StatusOK,
			"db":          dbStatus,
			"redis":       redisStatus,
			"weighbridge": weighbridge,
			"receipt_dlq": dlqDepth,
		})
	}
}
