package controller

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ecostep_backend/internal/util"
)

// HealthController 健康检查
type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// Check godoc
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	status := "ok"
	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
	}

	util.Success(ctx, gin.H{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
