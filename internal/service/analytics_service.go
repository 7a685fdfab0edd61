package service

import (
	"context"
	"quizdeck_backend/internal/model"
	"quizdeck_backend/internal/repository"
	"quizdeck_backend/internal/util"
	"sort"
	"strings"
	"time"
)

const trendDays = 7

// AnalyticsService 把作答流水聚合成分类统计、7 天趋势和连续天数，
// 每次请求即时计算，不落库
type AnalyticsService struct {
	ActivityRepo    *repository.UserActivityRepository
	CategoryService *CategoryService
}

func NewAnalyticsService(activityRepo *repository.UserActivityRepository, categoryService *CategoryService) *AnalyticsService {
	return &AnalyticsService{ActivityRepo: activityRepo, CategoryService: categoryService}
}

// Summary 计算当前用户的全量分析视图。sortMode 见 sortCategoryStats，
// nameFilter 只做展示层过滤，不影响总数和趋势。
func (s *AnalyticsService) Summary(ctx context.Context, userEmail, sortMode, nameFilter string) (*model.AnalyticsSummary, error) {
	activities, err := s.ActivityRepo.FindAllByUserWithQuestion(userEmail)
	if err != nil {
		return nil, err
	}

	totals, err := s.CategoryService.CountsMap(ctx)
	if err != nil {
		return nil, err
	}

	categories := buildCategoryStats(activities, totals)
	sortCategoryStats(categories, sortMode)
	categories = filterCategoryStats(categories, nameFilter)

	return &model.AnalyticsSummary{
		Total:       len(activities),
		Streak:      currentStreak(activities, time.Now()),
		Categories:  categories,
		ChartPoints: trendPoints(activities, trendDays),
	}, nil
}

// categoryAccumulator 聚合中间态，最终折算成 CategoryStat
type categoryAccumulator struct {
	volume          int
	correct         int
	ratingSum       float64
	satisfactionSum int
	satisfiedCount  int
	seen            map[string]struct{}
	mastered        map[string]struct{}
}

// buildCategoryStats 按规范化分类名聚合。准确率用百分比，
// 没有信心分的记录按量表中点计入平均信心。
// 错觉分 = 平均信心×刻度 − 准确率，紧迫度 = 平均信心 − 准确率/刻度。
func buildCategoryStats(activities []model.UserActivity, totals map[string]int) []model.CategoryStat {
	accs := make(map[string]*categoryAccumulator)

	for _, a := range activities {
		name := util.DefaultCategory
		if a.Question != nil {
			name = util.NormalizeCategory(a.Question.Category)
		}

		acc, ok := accs[name]
		if !ok {
			acc = &categoryAccumulator{
				seen:     make(map[string]struct{}),
				mastered: make(map[string]struct{}),
			}
			accs[name] = acc
		}

		acc.volume++
		if a.IsCorrect {
			acc.correct++
			acc.mastered[a.QuestionID] = struct{}{}
		}
		if a.UserRating >= MinConfidence && a.UserRating <= MaxConfidence {
			acc.ratingSum += float64(a.UserRating)
		} else {
			acc.ratingSum += midpointConfidence
		}
		if a.SatisfactionRating != nil {
			acc.satisfactionSum += *a.SatisfactionRating
			acc.satisfiedCount++
		}
		acc.seen[a.QuestionID] = struct{}{}
	}

	stats := make([]model.CategoryStat, 0, len(accs))
	for name, acc := range accs {
		stat := model.CategoryStat{
			Name:          name,
			Volume:        acc.volume,
			Accuracy:      percent(acc.correct, acc.volume),
			SeenCount:     len(acc.seen),
			MasteredCount: len(acc.mastered),
			TotalInDB:     totals[name],
		}
		if acc.volume > 0 {
			stat.AvgConfidence = acc.ratingSum / float64(acc.volume)
		}
		if acc.satisfiedCount > 0 {
			stat.AvgSatisfaction = float64(acc.satisfactionSum) / float64(acc.satisfiedCount)
		}
		stat.DelusionScore = stat.AvgConfidence*model.ConfidenceScale - stat.Accuracy
		stat.Urgency = stat.AvgConfidence - stat.Accuracy/model.ConfidenceScale
		stats = append(stats, stat)
	}
	return stats
}

// sortCategoryStats 支持 alpha / worst / best / urgency / mastery / frustration，
// 默认按名称排序。frustration 指平均满意度升序，没有满意度数据的排最后。
func sortCategoryStats(stats []model.CategoryStat, mode string) {
	switch mode {
	case "worst":
		sort.Slice(stats, func(i, j int) bool { return stats[i].Accuracy < stats[j].Accuracy })
	case "best":
		sort.Slice(stats, func(i, j int) bool { return stats[i].Accuracy > stats[j].Accuracy })
	case "urgency":
		sort.Slice(stats, func(i, j int) bool { return stats[i].Urgency > stats[j].Urgency })
	case "mastery":
		sort.Slice(stats, func(i, j int) bool { return masteryRatio(stats[i]) > masteryRatio(stats[j]) })
	case "frustration":
		sort.Slice(stats, func(i, j int) bool {
			si, sj := stats[i].AvgSatisfaction, stats[j].AvgSatisfaction
			if (si == 0) != (sj == 0) {
				return sj == 0
			}
			return si < sj
		})
	default:
		sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	}
}

func masteryRatio(s model.CategoryStat) float64 {
	if s.TotalInDB == 0 {
		return 0
	}
	return float64(s.MasteredCount) / float64(s.TotalInDB)
}

// filterCategoryStats 名称子串过滤（大小写无关），空串原样返回
func filterCategoryStats(stats []model.CategoryStat, nameFilter string) []model.CategoryStat {
	nameFilter = strings.TrimSpace(strings.ToLower(nameFilter))
	if nameFilter == "" {
		return stats
	}
	filtered := make([]model.CategoryStat, 0, len(stats))
	for _, s := range stats {
		if strings.Contains(strings.ToLower(s.Name), nameFilter) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// trendPoints 最近 n 个有作答的自然日的正确率，按时间升序返回。
// 入参按 attempted_at 倒序，取前 n 个首次出现的日期再反转。
func trendPoints(activities []model.UserActivity, n int) []model.ChartPoint {
	type dayAgg struct {
		correct int
		total   int
	}
	order := make([]string, 0, n)
	days := make(map[string]*dayAgg)

	for _, a := range activities {
		key := a.AttemptedAt.Format("2006-01-02")
		agg, ok := days[key]
		if !ok {
			if len(order) >= n {
				continue
			}
			agg = &dayAgg{}
			days[key] = agg
			order = append(order, key)
		}
		agg.total++
		if a.IsCorrect {
			agg.correct++
		}
	}

	points := make([]model.ChartPoint, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		key := order[i]
		points = append(points, model.ChartPoint{
			Date:     key,
			Accuracy: percent(days[key].correct, days[key].total),
		})
	}
	return points
}

// currentStreak 从今天往回数有作答的连续自然日，今天没答即为 0
func currentStreak(activities []model.UserActivity, now time.Time) int {
	days := make(map[string]struct{}, len(activities))
	for _, a := range activities {
		days[a.AttemptedAt.Format("2006-01-02")] = struct{}{}
	}
	return streakFrom(days, now)
}

func streakFrom(days map[string]struct{}, now time.Time) int {
	cur := now
	streak := 0
	for {
		if _, ok := days[cur.Format("2006-01-02")]; !ok {
			break
		}
		streak++
		cur = cur.AddDate(0, 0, -1)
	}
	return streak
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
