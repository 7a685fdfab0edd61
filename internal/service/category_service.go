package service

import (
	"context"
	"encoding/json"
	"quizdeck_backend/internal/model"
	"quizdeck_backend/internal/repository"
	"quizdeck_backend/internal/util"
	"quizdeck_backend/pkg/logger"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const categoryCountsCacheKey = "quizdeck:category_counts"
const categoryCountsCacheTTL = 10 * time.Minute

// CategoryService 分类列表与每类题目总数，选题、历史和分析页共用
type CategoryService struct {
	QuestionRepo *repository.QuestionRepository
	Redis        *redis.Client
}

func NewCategoryService(questionRepo *repository.QuestionRepository, rdb *redis.Client) *CategoryService {
	return &CategoryService{QuestionRepo: questionRepo, Redis: rdb}
}

// Counts 返回按规范化名称合并后的分类计数，按名称排序
func (s *CategoryService) Counts(ctx context.Context) ([]model.CategoryCount, error) {
	if cached, err := s.Redis.Get(ctx, categoryCountsCacheKey).Result(); err == nil {
		var counts []model.CategoryCount
		if json.Unmarshal([]byte(cached), &counts) == nil {
			return counts, nil
		}
	}

	raw, err := s.QuestionRepo.CategoryCounts()
	if err != nil {
		return nil, err
	}

	counts := normalizeCategoryCounts(raw)

	if payload, err := json.Marshal(counts); err == nil {
		if err := s.Redis.Set(ctx, categoryCountsCacheKey, payload, categoryCountsCacheTTL).Err(); err != nil {
			logger.Log.Warn("failed to cache category counts", zap.Error(err))
		}
	}

	return counts, nil
}

// CountsMap 分类名 -> 题目总数
func (s *CategoryService) CountsMap(ctx context.Context) (map[string]int, error) {
	counts, err := s.Counts(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]int, len(counts))
	for _, c := range counts {
		m[c.CatName] = c.QCount
	}
	return m, nil
}

// Names 全部可用分类名（规范化后）
func (s *CategoryService) Names(ctx context.Context) ([]string, error) {
	counts, err := s.Counts(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(counts))
	for i, c := range counts {
		names[i] = c.CatName
	}
	return names, nil
}

// Invalidate 导入题目后让缓存失效
func (s *CategoryService) Invalidate(ctx context.Context) {
	if err := s.Redis.Del(ctx, categoryCountsCacheKey).Err(); err != nil {
		logger.Log.Warn("failed to invalidate category counts cache", zap.Error(err))
	}
}

// normalizeCategoryCounts 折叠空白、合并归一化后同名的分类
func normalizeCategoryCounts(raw []model.CategoryCount) []model.CategoryCount {
	merged := make(map[string]int, len(raw))
	for _, c := range raw {
		name := util.NormalizeCategory(c.CatName)
		merged[name] += c.QCount
	}

	counts := make([]model.CategoryCount, 0, len(merged))
	for name, n := range merged {
		counts = append(counts, model.CategoryCount{CatName: name, QCount: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].CatName < counts[j].CatName })
	return counts
}
