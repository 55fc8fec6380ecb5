package controller

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"ecostep_backend/internal/middleware"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/service"
	"ecostep_backend/internal/util"
)

// BroadcastController 管理员群发
type BroadcastController struct {
	Notifications *service.NotificationService
	AdminLogRepo  *repository.AdminLogRepository
}

func NewBroadcastController(notifications *service.NotificationService, adminLogRepo *repository.AdminLogRepository) *BroadcastController {
	return &BroadcastController{Notifications: notifications, AdminLogRepo: adminLogRepo}
}

// BroadcastRequest 群发请求模型
// swagger:model BroadcastRequest
type BroadcastRequest struct {
	Message string `json:"message" binding:"required,min=1,max=4096"`
}

// Send godoc
// @Summary 给所有用户群发消息
// @Description 逐个发送，被拉黑的用户计入 failed
// @Tags 群发
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BroadcastRequest true "消息"
// @Success 200 {object} util.Response{data=service.BroadcastResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/broadcast [post]
func (c *BroadcastController) Send(ctx *gin.Context) {
	var request BroadcastRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Notifications.Broadcast(request.Message)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	adminID := middleware.AdminIDFromContext(ctx)
	details := fmt.Sprintf("sent=%d failed=%d total=%d", result.Sent, result.Failed, result.Total)
	if err := c.AdminLogRepo.Append(adminID, "broadcast", details); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
