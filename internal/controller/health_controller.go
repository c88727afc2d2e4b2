package controller

import (
	"context"
	"runpal_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, RDB: rdb}
}

// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	result := gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(checkCtx) != nil {
		dbStatus = "down"
		result["status"] = "degraded"
	}
	result["database"] = dbStatus

	redisStatus := "ok"
	if c.RDB == nil || c.RDB.Ping(checkCtx).Err() != nil {
		redisStatus = "down"
		result["status"] = "degraded"
	}
	result["redis"] = redisStatus

	util.Success(ctx, result)
}
