package controller

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"ecostep_backend/internal/middleware"
	"ecostep_backend/internal/model"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/service"
	"ecostep_backend/internal/util"
)

// ReportController 报告审核
type ReportController struct {
	ChallengeRepo    *repository.ChallengeRepository
	ChallengeService *service.ChallengeService
	Catalog          *service.CatalogService
	Notifications    *service.NotificationService
	AdminLogRepo     *repository.AdminLogRepository
}

func NewReportController(
	challengeRepo *repository.ChallengeRepository,
	challengeService *service.ChallengeService,
	catalog *service.CatalogService,
	notifications *service.NotificationService,
	adminLogRepo *repository.AdminLogRepository,
) *ReportController {
	return &ReportController{
		ChallengeRepo:    challengeRepo,
		ChallengeService: challengeService,
		Catalog:          catalog,
		Notifications:    notifications,
		AdminLogRepo:     adminLogRepo,
	}
}

// PendingReportView 待审报告视图，附件链接 best-effort
type PendingReportView struct {
	repository.PendingReport
	ChallengeTitle string `json:"challengeTitle"`
	FileURL        string `json:"fileUrl,omitempty"`
}

// ResolveReportRequest 审核请求模型
// swagger:model ResolveReportRequest
type ResolveReportRequest struct {
	UserID      int64    `json:"userId" binding:"required"`
	ChallengeID string   `json:"challengeId" binding:"required"`
	Decision    string   `json:"decision" binding:"required,oneof=approved rejected"`
	Comment     *string  `json:"comment"`
	CO2Saved    *float64 `json:"co2Saved"`
}

// Pending godoc
// @Summary 待审报告列表
// @Description 所有已提交且未审核的报告，按提交时间升序
// @Tags 审核
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/reports/pending [get]
func (c *ReportController) Pending(ctx *gin.Context) {
	reports, err := c.ChallengeRepo.PendingReports()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ChallengeID)
	}
	titles := c.Catalog.Titles(ids)

	views := make([]PendingReportView, 0, len(reports))
	for _, r := range reports {
		view := PendingReportView{
			PendingReport:  r,
			ChallengeTitle: titles[r.ChallengeID],
		}
		if r.FileID != nil {
			view.FileURL = c.Notifications.FileURL(*r.FileID)
		}
		views = append(views, view)
	}

	util.Success(ctx, gin.H{
		"reports": views,
		"count":   len(views),
	})
}

// Resolve godoc
// @Summary 审核报告
// @Description 批准或驳回已提交的报告，批准时通知用户及其好友
// @Tags 审核
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ResolveReportRequest true "审核"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "报告不存在或已审核"
// @Router /api/reports/resolve [post]
func (c *ReportController) Resolve(ctx *gin.Context) {
	var request ResolveReportRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ChallengeService.Resolve(request.UserID, request.ChallengeID, request.Decision, request.Comment, request.CO2Saved)
	if err != nil {
		if errors.Is(err, util.ErrReportNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	c.notifyUser(request.UserID, result)
	if result.Decision == model.ReviewStatusApproved && result.Points != nil {
		c.Notifications.NotifyFriendsApproved(request.UserID, result.ChallengeTitle, *result.Points)
	}

	adminID := middleware.AdminIDFromContext(ctx)
	details := fmt.Sprintf("user=%d %s → %s", request.UserID, request.ChallengeID, request.Decision)
	if err := c.AdminLogRepo.Append(adminID, "resolve_report", details); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"userId":      request.UserID,
		"challengeId": request.ChallengeID,
		"decision":    result.Decision,
		"points":      result.Points,
	})
}

func (c *ReportController) notifyUser(userID int64, result *service.ResolveResult) {
	var text string
	if result.Decision == model.ReviewStatusApproved {
		points := 0
		if result.Points != nil {
			points = *result.Points
		}
		text = fmt.Sprintf("✅ Ваш отчёт по заданию «%s» принят! Начислено %d баллов.", result.ChallengeTitle, points)
	} else {
		text = fmt.Sprintf("❌ Ваш отчёт по заданию «%s» отклонён.", result.ChallengeTitle)
		if result.Comment != nil && *result.Comment != "" {
			text += fmt.Sprintf("\nКомментарий: %s", *result.Comment)
		}
		text += "\nЗадание можно взять заново и отправить новый отчёт."
	}
	c.Notifications.NotifyUser(userID, text)
}
