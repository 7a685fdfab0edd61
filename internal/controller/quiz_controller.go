package controller

import (
	"errors"
	"quizdeck_backend/internal/service"
	"quizdeck_backend/internal/util"
	"quizdeck_backend/pkg/monitoring"
	"strings"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	SelectorService *service.SelectorService
	QuizService     *service.QuizService
}

func NewQuizController(selectorService *service.SelectorService, quizService *service.QuizService) *QuizController {
	return &QuizController{SelectorService: selectorService, QuizService: quizService}
}

// @Summary 生成测验
// @Description 按分类、短语和历史表现过滤后随机抽题
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.GenerateRequest true "过滤条件"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/quiz/generate [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	var req service.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SelectorService.Generate(ctx.Request.Context(), util.UserEmailOrAnonymous(ctx), req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	outcome := "ok"
	if result.NoResults {
		outcome = "no_results"
	}
	monitoring.QuizGenerated.WithLabelValues(outcome).Inc()

	util.Success(ctx, result)
}

// @Summary 加载题面
// @Description 按给定 ID 顺序返回题目，不包含答案
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param ids query string true "逗号分隔的题目 ID，顺序即出题顺序"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/questions [get]
func (c *QuizController) Questions(ctx *gin.Context) {
	ids := splitIDs(ctx.Query("ids"))
	questions, err := c.QuizService.LoadQuestions(ids)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizEmpty):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, questions)
}

// @Summary 整卷提交
// @Description 全部判分，每道评过信心分的题写一条作答记录
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SubmitRequest true "各题作答与答题用时"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitAll(util.UserEmailOrAnonymous(ctx), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizEmpty), errors.Is(err, util.ErrInvalidRating):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

type satisfactionRequest struct {
	QuestionID      string   `json:"questionId" binding:"required"`
	Satisfaction    *int     `json:"satisfaction"`
	SelectedAnswers []string `json:"selectedAnswers"`
}

// @Summary 提交后满意度
// @Description 为某题补加、修改或清除满意度评分，点同分或传空视为清除
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body satisfactionRequest true "满意度"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/quiz/satisfaction [post]
func (c *QuizController) Satisfaction(ctx *gin.Context) {
	var req satisfactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.QuizService.SetSatisfaction(util.UserEmailOrAnonymous(ctx), req.QuestionID, req.Satisfaction, req.SelectedAnswers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidRating):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"questionId": req.QuestionID, "satisfaction": req.Satisfaction})
}

func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
