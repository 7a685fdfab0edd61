package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"quizdeck_backend/internal/config"
	"quizdeck_backend/internal/model"
	"quizdeck_backend/internal/repository"
	"quizdeck_backend/internal/util"
	"quizdeck_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxSourcePayload = 32 << 20 // 32MB

// ImportQuestion 外部题库的单题格式
type ImportQuestion struct {
	Category       string   `json:"category"`
	QuestionText   string   `json:"question" binding:"required"`
	Options        []string `json:"options" binding:"required"`
	CorrectAnswers []string `json:"correctAnswers" binding:"required"`
	Explanation    string   `json:"explanation"`
}

// ImportReport 导入结果统计
type ImportReport struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// QuestionSourceService 外部题库的透传代理与入库导入
type QuestionSourceService struct {
	QuestionRepo    *repository.QuestionRepository
	CategoryService *CategoryService
	Config          *config.Config
	client          *http.Client
}

func NewQuestionSourceService(questionRepo *repository.QuestionRepository, categoryService *CategoryService, cfg *config.Config) *QuestionSourceService {
	return &QuestionSourceService{
		QuestionRepo:    questionRepo,
		CategoryService: categoryService,
		Config:          cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.QuestionSource.TimeoutSeconds) * time.Second,
		},
	}
}

// FetchRaw 原样取回配置的题库地址内容，不做结构校验
func (s *QuestionSourceService) FetchRaw(ctx context.Context) ([]byte, string, error) {
	if s.Config.QuestionSource.URL == "" {
		return nil, "", util.ErrSourceUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Config.QuestionSource.URL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Warn("question source unreachable", zap.String("url", s.Config.QuestionSource.URL), zap.Error(err))
		return nil, "", util.ErrSourceUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Warn("question source returned non-200", zap.Int("status", resp.StatusCode))
		return nil, "", util.ErrSourceUnavailable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourcePayload))
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	return body, contentType, nil
}

// ImportFromSource 拉取配置的题库并入库
func (s *QuestionSourceService) ImportFromSource(ctx context.Context) (*ImportReport, error) {
	body, _, err := s.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}

	var questions []ImportQuestion
	if err := json.Unmarshal(body, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question source payload: %w", err)
	}
	return s.Import(ctx, questions)
}

// Import 按题面文本去重：已存在则更新，否则新建。分类名入库前统一规范化。
func (s *QuestionSourceService) Import(ctx context.Context, questions []ImportQuestion) (*ImportReport, error) {
	report := &ImportReport{}

	for _, in := range questions {
		text := strings.TrimSpace(in.QuestionText)
		if text == "" || len(in.Options) == 0 {
			report.Skipped++
			continue
		}
		if !subsetOf(in.CorrectAnswers, in.Options) {
			logger.Log.Warn("skipping question with answers outside option list", zap.String("question", text))
			report.Skipped++
			continue
		}

		question := model.Question{
			Category:       util.NormalizeCategory(in.Category),
			QuestionText:   text,
			Options:        in.Options,
			CorrectAnswers: in.CorrectAnswers,
			Explanation:    in.Explanation,
		}

		existing, err := s.QuestionRepo.FindByQuestionText(text)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if existing != nil {
			question.ID = existing.ID
			question.CreatedAt = existing.CreatedAt
			if err := s.QuestionRepo.Update(&question); err != nil {
				return nil, err
			}
			report.Updated++
			continue
		}

		if err := s.QuestionRepo.Create(&question); err != nil {
			return nil, err
		}
		report.Created++
	}

	if report.Created > 0 || report.Updated > 0 {
		s.CategoryService.Invalidate(ctx)
	}

	logger.Log.Info("question import finished",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

// subsetOf 正确答案必须都在选项列表里
func subsetOf(subset, superset []string) bool {
	set := util.ToSet(superset)
	for _, s := range subset {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
