package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecostep_backend/internal/middleware"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/service"
	"ecostep_backend/internal/util"
)

// AuthController 管理面板登录与登出
type AuthController struct {
	AuthService  *service.AuthService
	AdminLogRepo *repository.AdminLogRepository
}

func NewAuthController(authService *service.AuthService, adminLogRepo *repository.AdminLogRepository) *AuthController {
	return &AuthController{AuthService: authService, AdminLogRepo: adminLogRepo}
}

// LoginRequest 登录请求模型
// swagger:model LoginRequest
type LoginRequest struct {
	AdminID  int64  `json:"adminId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 管理员登录
// @Description 校验管理员口令并签发访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "口令错误"
// @Failure 403 {object} util.Response "不是管理员"
// @Failure 503 {object} util.Response "未配置管理员凭据"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var request LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(request.AdminID, request.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoCredentials):
			util.Error(ctx, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, util.ErrNotAdmin):
			util.Forbidden(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidPassword):
			util.Unauthorized(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if err := c.AdminLogRepo.Append(request.AdminID, "login", "вход в панель"); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token":   token,
		"adminId": request.AdminID,
	})
}

// Logout godoc
// @Summary 退出登录
// @Description 使当前令牌失效
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if token := middleware.ExtractToken(ctx); token != "" {
		c.AuthService.Logout(token)
	}
	util.Success(ctx, gin.H{"loggedOut": true})
}
