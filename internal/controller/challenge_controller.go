package controller

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"ecostep_backend/internal/middleware"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/service"
	"ecostep_backend/internal/util"
)

// ChallengeController 任务目录管理：内置任务只读，自定义任务可增删改
type ChallengeController struct {
	Catalog      *service.CatalogService
	CustomRepo   *repository.CustomChallengeRepository
	AdminLogRepo *repository.AdminLogRepository
}

func NewChallengeController(catalog *service.CatalogService, customRepo *repository.CustomChallengeRepository, adminLogRepo *repository.AdminLogRepository) *ChallengeController {
	return &ChallengeController{
		Catalog:      catalog,
		CustomRepo:   customRepo,
		AdminLogRepo: adminLogRepo,
	}
}

// CreateChallengeRequest 自定义任务创建请求模型
// swagger:model CreateChallengeRequest
type CreateChallengeRequest struct {
	Title         string `json:"title" binding:"required,min=3,max=120"`
	Description   string `json:"description" binding:"required,min=10,max=1024"`
	Points        int    `json:"points" binding:"required,min=1,max=500"`
	CO2           string `json:"co2" binding:"required,min=1,max=64"`
	QuantityBased bool   `json:"quantityBased"`
}

// PatchChallengeRequest 任务启停请求模型
// swagger:model PatchChallengeRequest
type PatchChallengeRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// List godoc
// @Summary 任务目录
// @Description 返回内置任务与全部自定义任务（含停用）
// @Tags 任务管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/challenges [get]
func (c *ChallengeController) List(ctx *gin.Context) {
	challenges, err := c.Catalog.All()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	custom, err := c.CustomRepo.Fetch(false)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"challenges": challenges,
		"custom":     custom,
	})
}

// Create godoc
// @Summary 创建自定义任务
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateChallengeRequest true "任务"
// @Success 201 {object} util.Response{data=map[string]interface{}} "已创建"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/challenges [post]
func (c *ChallengeController) Create(ctx *gin.Context) {
	var request CreateChallengeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	challengeID, err := c.CustomRepo.Create(request.Title, request.Description, request.Points, request.CO2, request.QuantityBased)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	adminID := middleware.AdminIDFromContext(ctx)
	if err := c.AdminLogRepo.Append(adminID, "create_challenge", fmt.Sprintf("%s «%s»", challengeID, request.Title)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"challengeId": challengeID})
}

// Patch godoc
// @Summary 启用或停用自定义任务
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "任务 ID（custom_N）"
// @Param request body PatchChallengeRequest true "启停"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/challenges/{id} [patch]
func (c *ChallengeController) Patch(ctx *gin.Context) {
	challengeID := ctx.Param("id")

	var request PatchChallengeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.CustomRepo.SetActive(challengeID, *request.Active)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !updated {
		util.NotFound(ctx, "задание не найдено")
		return
	}

	action := "deactivate_challenge"
	if *request.Active {
		action = "activate_challenge"
	}
	adminID := middleware.AdminIDFromContext(ctx)
	if err := c.AdminLogRepo.Append(adminID, action, challengeID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"challengeId": challengeID, "active": *request.Active})
}

// Delete godoc
// @Summary 删除自定义任务
// @Tags 任务管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "任务 ID（custom_N）"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/challenges/{id} [delete]
func (c *ChallengeController) Delete(ctx *gin.Context) {
	challengeID := ctx.Param("id")

	deleted, err := c.CustomRepo.Delete(challengeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !deleted {
		util.NotFound(ctx, "задание не найдено")
		return
	}

	adminID := middleware.AdminIDFromContext(ctx)
	if err := c.AdminLogRepo.Append(adminID, "delete_challenge", challengeID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"challengeId": challengeID, "deleted": true})
}
