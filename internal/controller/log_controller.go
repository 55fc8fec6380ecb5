package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/util"
)

// LogController 管理员操作日志
type LogController struct {
	AdminLogRepo *repository.AdminLogRepository
}

func NewLogController(adminLogRepo *repository.AdminLogRepository) *LogController {
	return &LogController{AdminLogRepo: adminLogRepo}
}

// List godoc
// @Summary 操作日志
// @Description 按时间倒序返回管理员操作记录
// @Tags 日志
// @Produce json
// @Security BearerAuth
// @Param limit query int false "最多返回条数，默认 100"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/logs [get]
func (c *LogController) List(ctx *gin.Context) {
	limit := 100
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	logs, err := c.AdminLogRepo.List(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}
