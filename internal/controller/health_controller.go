package controller

import (
	"net/http"
	"sdo_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary Health check
// @Description Reports database and cache availability
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	cache := "disabled"
	if c.Redis != nil {
		cache = "up"
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			cache = "down"
		}
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
			"cache":    cache,
		},
	})
}
