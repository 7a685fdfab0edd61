package controller

import (
	"errors"
	"quizdeck_backend/internal/repository"
	"quizdeck_backend/internal/service"
	"quizdeck_backend/internal/util"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	HistoryService *service.HistoryService
}

func NewHistoryController(historyService *service.HistoryService) *HistoryController {
	return &HistoryController{HistoryService: historyService}
}

// @Summary 作答历史
// @Description 固定页长的分页列表，可按对错、满意度、分类过滤
// @Tags 历史
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码（从 0 开始）" default(0)
// @Param status query string false "对错过滤" Enums(all, correct, incorrect) default(all)
// @Param satisfaction query int false "满意度过滤（1-4）"
// @Param categories query string false "逗号分隔的分类名"
// @Param sort query string false "排序" Enums(newest, oldest, confidence, satisfaction) default(newest)
// @Success 200 {object} util.Response
// @Router /api/history [get]
func (c *HistoryController) List(ctx *gin.Context) {
	q := repository.HistoryQuery{
		Status: ctx.DefaultQuery("status", "all"),
		Sort:   ctx.DefaultQuery("sort", "newest"),
	}

	if pageStr := ctx.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			q.Page = page
		}
	}
	if satStr := ctx.Query("satisfaction"); satStr != "" {
		if sat, err := strconv.Atoi(satStr); err == nil {
			q.Satisfaction = &sat
		}
	}
	if cats := ctx.Query("categories"); cats != "" {
		for _, c := range strings.Split(cats, ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Categories = append(q.Categories, c)
			}
		}
	}

	entries, hasMore, err := c.HistoryService.List(util.UserEmailOrAnonymous(ctx), q)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:    entries,
		Page:    q.Page,
		Limit:   service.HistoryPageSize,
		HasMore: hasMore,
	})
}

type historySatisfactionRequest struct {
	Satisfaction *int `json:"satisfaction"`
}

// @Summary 修改满意度
// @Description 改单条记录的满意度，点同分或传空会删除整条记录
// @Tags 历史
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Param request body historySatisfactionRequest true "满意度"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/history/{id}/satisfaction [patch]
func (c *HistoryController) SetSatisfaction(ctx *gin.Context) {
	var req historySatisfactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.HistoryService.SetSatisfaction(util.UserEmailOrAnonymous(ctx), ctx.Param("id"), req.Satisfaction)
	if err != nil {
		c.writeError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id"), "satisfaction": req.Satisfaction})
}

// @Summary 删除记录
// @Description 删除本人的一条作答记录
// @Tags 历史
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/history/{id} [delete]
func (c *HistoryController) Delete(ctx *gin.Context) {
	if err := c.HistoryService.Delete(util.UserEmailOrAnonymous(ctx), ctx.Param("id")); err != nil {
		c.writeError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}

func (c *HistoryController) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidRating):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrActivityNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
