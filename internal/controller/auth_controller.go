package controller

import (
	"errors"
	"net/http"
	"quizdeck_backend/internal/service"
	"quizdeck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// @Summary GitHub 登录
// @Description 重定向到 GitHub 授权页
// @Tags 认证
// @Produce json
// @Success 307
// @Failure 500 {object} util.Response
// @Router /api/auth/github/login [get]
func (c *AuthController) Login(ctx *gin.Context) {
	loginURL, err := c.AuthService.LoginURL(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusTemporaryRedirect, loginURL)
}

// @Summary GitHub 回调
// @Description 校验 state、换取 token 并签发 JWT
// @Tags 认证
// @Produce json
// @Param code query string true "授权码"
// @Param state query string true "防 CSRF 随机串"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/auth/github/callback [get]
func (c *AuthController) Callback(ctx *gin.Context) {
	result, err := c.AuthService.HandleCallback(ctx.Request.Context(), ctx.Query("state"), ctx.Query("code"))
	if err != nil {
		util.Error(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	// 配置了前端地址就带 token 跳回去，否则直接返回 JSON
	successURL := c.AuthService.Config.GitHub.SuccessURL
	if successURL != "" {
		ctx.Redirect(http.StatusTemporaryRedirect, successURL+"?token="+result.Token)
		return
	}
	util.Success(ctx, result)
}

// @Summary 当前用户
// @Description 返回当前登录用户的资料
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.GetCurrentUser(claims.Login)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
