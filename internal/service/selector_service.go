package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"quizdeck_backend/internal/model"
	"quizdeck_backend/internal/repository"
	"quizdeck_backend/internal/util"
	"quizdeck_backend/pkg/logger"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// MinConfidence 和 MaxConfidence 为自评信心的取值边界
	MinConfidence = 1
	MaxConfidence = 4

	// midpointConfidence 没有信心分的记录按量表中点计
	midpointConfidence = (MinConfidence + MaxConfidence) / 2.0

	defaultQuizLimit = 5

	phraseCachePrefix = "quizdeck:phrase:"
	phraseCacheTTL    = 15 * time.Minute
)

// GenerateRequest 选题过滤条件，零值字段按默认处理
type GenerateRequest struct {
	IncludeCategories []string `json:"includeCategories"`
	ExcludeCategories []string `json:"excludeCategories"`
	Phrases           []string `json:"phrases"`
	PhraseMode        string   `json:"phraseMode"` // and / or，默认 or
	UnseenOnly        bool     `json:"unseenOnly"`
	MinRating         int      `json:"minRating"`
	MaxRating         int      `json:"maxRating"`
	NotMastered       bool     `json:"notMastered"`
	Limit             int      `json:"limit"`
}

// GenerateResult 选题结果，NoResults 表示条件合法但没有匹配
type GenerateResult struct {
	QuestionIDs []string `json:"questionIds"`
	PoolSize    int      `json:"poolSize"`
	NoResults   bool     `json:"noResults"`
}

// questionStats 单题在某用户下的作答汇总
type questionStats struct {
	ratingSum float64
	attempts  int
	mastered  bool
}

func (s questionStats) avgRating() float64 {
	if s.attempts == 0 {
		return 0
	}
	return s.ratingSum / float64(s.attempts)
}

// SelectorService 按分类、短语和历史表现筛选并随机抽取题目
type SelectorService struct {
	QuestionRepo    *repository.QuestionRepository
	ActivityRepo    *repository.UserActivityRepository
	CategoryService *CategoryService
	Redis           *redis.Client
}

func NewSelectorService(questionRepo *repository.QuestionRepository, activityRepo *repository.UserActivityRepository, categoryService *CategoryService, rdb *redis.Client) *SelectorService {
	return &SelectorService{
		QuestionRepo:    questionRepo,
		ActivityRepo:    activityRepo,
		CategoryService: categoryService,
		Redis:           rdb,
	}
}

// Generate 依次执行：过滤条件归一 -> 候选池 -> 表现过滤 -> 洗牌截断
func (s *SelectorService) Generate(ctx context.Context, userEmail string, req GenerateRequest) (*GenerateResult, error) {
	normalizeGenerateRequest(&req)

	pool, err := s.buildPool(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return &GenerateResult{QuestionIDs: []string{}, NoResults: true}, nil
	}

	activities, err := s.ActivityRepo.FindAllByUser(userEmail)
	if err != nil {
		return nil, err
	}
	stats := aggregateActivity(activities)

	if req.UnseenOnly {
		pool = subtractSeen(pool, stats)
	} else if performanceFiltersActive(req) {
		targets := filterByStats(stats, req.MinRating, req.MaxRating, req.NotMastered)
		pool = intersect(pool, targets)
	}

	if len(pool) == 0 {
		return &GenerateResult{QuestionIDs: []string{}, NoResults: true}, nil
	}

	poolSize := len(pool)
	picked := shuffleLimit(pool, req.Limit)
	return &GenerateResult{QuestionIDs: picked, PoolSize: poolSize}, nil
}

// buildPool 先短语后分类：短语命中集按 and/or 组合，否则走分类过滤
func (s *SelectorService) buildPool(ctx context.Context, req GenerateRequest) ([]string, error) {
	if len(req.Phrases) > 0 {
		sets := make([][]string, 0, len(req.Phrases))
		for _, phrase := range req.Phrases {
			ids, err := s.phraseIDs(ctx, phrase)
			if err != nil {
				return nil, err
			}
			sets = append(sets, ids)
		}
		pool := combinePhraseSets(sets, req.PhraseMode)

		// 缓存里的 ID 可能已过期，整池做一次存在性过滤（单条等值列表，不分片）
		if len(pool) > 0 {
			filtered, err := s.QuestionRepo.FilterIDs(pool)
			if err != nil {
				return nil, err
			}
			pool = intersect(pool, util.ToSet(filtered))
		}
		return pool, nil
	}

	if len(req.IncludeCategories) == 0 && len(req.ExcludeCategories) == 0 {
		return s.QuestionRepo.FindAllIDs()
	}

	cats, err := s.resolveCategories(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return []string{}, nil
	}
	return s.QuestionRepo.FindIDsByCategories(cats)
}

// resolveCategories 只有在没给包含列表时才需要拉取全量分类名
func (s *SelectorService) resolveCategories(ctx context.Context, req GenerateRequest) ([]string, error) {
	var available []string
	if len(req.IncludeCategories) == 0 {
		names, err := s.CategoryService.Names(ctx)
		if err != nil {
			return nil, err
		}
		available = names
	}
	return resolveCategoryPool(req.IncludeCategories, req.ExcludeCategories, available), nil
}

// resolveCategoryPool 包含列表非空时原样取它（归一化后），排除项不参与；
// 否则从全量分类里去掉排除项
func resolveCategoryPool(include, exclude, available []string) []string {
	if len(include) > 0 {
		cats := make([]string, 0, len(include))
		for _, c := range include {
			cats = append(cats, util.NormalizeCategory(c))
		}
		return cats
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		excluded[util.NormalizeCategory(c)] = struct{}{}
	}

	cats := make([]string, 0, len(available))
	for _, c := range available {
		if _, skip := excluded[c]; !skip {
			cats = append(cats, c)
		}
	}
	return cats
}

// phraseIDs 短语命中的题目 ID，Redis 缓存 15 分钟
func (s *SelectorService) phraseIDs(ctx context.Context, phrase string) ([]string, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return []string{}, nil
	}
	key := phraseCachePrefix + strings.ToLower(phrase)

	if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
		var ids []string
		if json.Unmarshal([]byte(cached), &ids) == nil {
			return ids, nil
		}
	}

	ids, err := s.QuestionRepo.SearchIDsByPhrase(phrase)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(ids); err == nil {
		if err := s.Redis.Set(ctx, key, payload, phraseCacheTTL).Err(); err != nil {
			logger.Log.Warn("failed to cache phrase search", zap.String("phrase", phrase), zap.Error(err))
		}
	}
	return ids, nil
}

// normalizeGenerateRequest 填默认值并消解互斥条件：表现过滤生效时关闭仅未见
func normalizeGenerateRequest(req *GenerateRequest) {
	if req.MinRating == 0 {
		req.MinRating = MinConfidence
	}
	if req.MaxRating == 0 {
		req.MaxRating = MaxConfidence
	}
	req.MinRating = clampConfidence(req.MinRating)
	req.MaxRating = clampConfidence(req.MaxRating)
	if req.MinRating > req.MaxRating {
		req.MinRating, req.MaxRating = req.MaxRating, req.MinRating
	}

	if req.Limit <= 0 {
		req.Limit = defaultQuizLimit
	}

	mode := strings.ToLower(strings.TrimSpace(req.PhraseMode))
	if mode != "and" {
		mode = "or"
	}
	req.PhraseMode = mode

	phrases := make([]string, 0, len(req.Phrases))
	for _, p := range req.Phrases {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	req.Phrases = phrases

	// 短语过滤优先于分类：短语存在时分类条件被忽略
	if len(req.Phrases) > 0 {
		req.IncludeCategories = nil
		req.ExcludeCategories = nil
	}

	if performanceFiltersActive(*req) {
		req.UnseenOnly = false
	}
}

func clampConfidence(v int) int {
	if v < MinConfidence {
		return MinConfidence
	}
	if v > MaxConfidence {
		return MaxConfidence
	}
	return v
}

// performanceFiltersActive 评分区间收窄或勾选未掌握即视为启用表现过滤
func performanceFiltersActive(req GenerateRequest) bool {
	return req.NotMastered || req.MinRating > MinConfidence || req.MaxRating < MaxConfidence
}

// aggregateActivity 把作答流水折叠成每题统计，缺失评分按中间值计
func aggregateActivity(activities []model.UserActivity) map[string]questionStats {
	stats := make(map[string]questionStats, len(activities))
	for _, a := range activities {
		s := stats[a.QuestionID]
		rating := float64(a.UserRating)
		if a.UserRating < MinConfidence || a.UserRating > MaxConfidence {
			rating = midpointConfidence
		}
		s.ratingSum += rating
		s.attempts++
		if a.IsCorrect {
			s.mastered = true
		}
		stats[a.QuestionID] = s
	}
	return stats
}

// filterByStats 选出平均信心落在区间内的已见题目，可再排除已掌握的
func filterByStats(stats map[string]questionStats, minRating, maxRating int, notMastered bool) map[string]struct{} {
	targets := make(map[string]struct{}, len(stats))
	for id, s := range stats {
		avg := s.avgRating()
		if avg < float64(minRating) || avg > float64(maxRating) {
			continue
		}
		if notMastered && s.mastered {
			continue
		}
		targets[id] = struct{}{}
	}
	return targets
}

func subtractSeen(pool []string, stats map[string]questionStats) []string {
	out := make([]string, 0, len(pool))
	for _, id := range pool {
		if _, seen := stats[id]; !seen {
			out = append(out, id)
		}
	}
	return out
}

func intersect(pool []string, allowed map[string]struct{}) []string {
	out := make([]string, 0, len(pool))
	for _, id := range pool {
		if _, ok := allowed[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// combinePhraseSets or 取并集（保序去重），and 取交集
func combinePhraseSets(sets [][]string, mode string) []string {
	if len(sets) == 0 {
		return []string{}
	}
	if mode == "and" {
		result := sets[0]
		for _, set := range sets[1:] {
			result = intersect(result, util.ToSet(set))
		}
		return result
	}

	seen := make(map[string]struct{})
	union := make([]string, 0)
	for _, set := range sets {
		for _, id := range set {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	return union
}

// shuffleLimit Fisher-Yates 洗牌后截断，不修改入参
func shuffleLimit(pool []string, limit int) []string {
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if limit > 0 && limit < len(shuffled) {
		shuffled = shuffled[:limit]
	}
	return shuffled
}
