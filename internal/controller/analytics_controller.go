package controller

import (
	"quizdeck_backend/internal/service"
	"quizdeck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary 学习分析
// @Description 分类统计、7 天正确率趋势和连续作答天数，每次请求即时计算
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Param sort query string false "排序方式" Enums(alpha, worst, best, urgency, mastery, frustration) default(alpha)
// @Param q query string false "分类名子串过滤（仅影响展示）"
// @Success 200 {object} util.Response
// @Router /api/analytics [get]
func (c *AnalyticsController) Summary(ctx *gin.Context) {
	summary, err := c.AnalyticsService.Summary(
		ctx.Request.Context(),
		util.UserEmailOrAnonymous(ctx),
		ctx.DefaultQuery("sort", "alpha"),
		ctx.Query("q"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
