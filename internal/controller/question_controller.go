package controller

import (
	"errors"
	"net/http"
	"quizdeck_backend/internal/service"
	"quizdeck_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	SourceService   *service.QuestionSourceService
	CategoryService *service.CategoryService
}

func NewQuestionController(sourceService *service.QuestionSourceService, categoryService *service.CategoryService) *QuestionController {
	return &QuestionController{SourceService: sourceService, CategoryService: categoryService}
}

// @Summary 题库透传
// @Description 原样转发配置的外部题库内容
// @Tags 题库
// @Produce json
// @Security BearerAuth
// @Success 200
// @Failure 502 {object} util.Response
// @Router /api/questions [get]
func (c *QuestionController) Proxy(ctx *gin.Context) {
	body, contentType, err := c.SourceService.FetchRaw(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, util.ErrSourceUnavailable) {
			util.Error(ctx, http.StatusBadGateway, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, contentType, body)
}

// @Summary 分类列表
// @Description 全部分类及每类题目总数
// @Tags 题库
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/categories [get]
func (c *QuestionController) Categories(ctx *gin.Context) {
	counts, err := c.CategoryService.Counts(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, counts)
}

// @Summary 导入题库
// @Description 请求体带题目列表则直接导入，否则从配置的题库地址拉取
// @Tags 题库
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []service.ImportQuestion false "题目列表"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/admin/questions/import [post]
func (c *QuestionController) Import(ctx *gin.Context) {
	var report *service.ImportReport
	var err error

	if ctx.Request.ContentLength > 0 {
		var questions []service.ImportQuestion
		if bindErr := ctx.ShouldBindJSON(&questions); bindErr != nil {
			util.BadRequest(ctx, bindErr.Error())
			return
		}
		report, err = c.SourceService.Import(ctx.Request.Context(), questions)
	} else {
		report, err = c.SourceService.ImportFromSource(ctx.Request.Context())
	}

	if err != nil {
		if errors.Is(err, util.ErrSourceUnavailable) {
			util.Error(ctx, http.StatusBadGateway, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
