package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports API liveness plus the state of the two backing services and
// the depth of the notification queue. Never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "conectada"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "conectado"
		var pendientes int64
		if n, err := rdb.LLen(ctx, worker.QueueNotificacion).Result(); err != nil {
			redisStatus = "error"
		} else {
			pendientes = n
		}

		status := http.StatusOK
		if dbStatus == "error" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":                        status == http.StatusOK,
			"servicio":                  "negocios-api",
			"db":                        dbStatus,
			"redis":                     redisStatus,
			"notificaciones_pendientes": pendientes,
		})
	}
}
