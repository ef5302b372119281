package controller

import (
	"context"
	"time"

	"quizbank_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewHealthController(db *gorm.DB, cache *redis.Client) *HealthController {
	return &HealthController{db: db, cache: cache}
}

// Check godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (ctl *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{
		"status":   "ok",
		"database": "ok",
		"redis":    "ok",
	}

	sqlDB, err := ctl.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "unavailable"
		status["status"] = "degraded"
	}

	if ctl.cache != nil {
		if err := ctl.cache.Ping(ctx).Err(); err != nil {
			status["redis"] = "unavailable"
			status["status"] = "degraded"
		}
	}

	util.Success(c, status)
}
