package service

import (
	"quizdeck_backend/internal/model"
	"testing"
	"time"
)

func activityAt(questionID, category string, correct bool, rating int, day string) model.UserActivity {
	attempted, _ := time.Parse("2006-01-02", day)
	return model.UserActivity{
		QuestionID:  questionID,
		IsCorrect:   correct,
		UserRating:  rating,
		AttemptedAt: attempted,
		Question:    &model.Question{Category: category},
	}
}

func TestBuildCategoryStats(t *testing.T) {
	sat := 3
	activities := []model.UserActivity{
		activityAt("q1", "Allergy", true, 4, "2026-08-01"),
		activityAt("q1", "Allergy", false, 2, "2026-08-02"),
		activityAt("q2", "Allergy", false, 0, "2026-08-02"),
		activityAt("q3", "Cardio", true, 1, "2026-08-03"),
	}
	activities[0].SatisfactionRating = &sat

	stats := buildCategoryStats(activities, map[string]int{"Allergy": 10, "Cardio": 4})
	byName := make(map[string]model.CategoryStat, len(stats))
	for _, s := range stats {
		byName[s.Name] = s
	}

	allergy := byName["Allergy"]
	if allergy.Volume != 3 {
		t.Errorf("Allergy volume = %d, want 3", allergy.Volume)
	}
	wantAccuracy := percent(1, 3)
	if allergy.Accuracy != wantAccuracy {
		t.Errorf("Allergy accuracy = %v, want %v", allergy.Accuracy, wantAccuracy)
	}
	// 未评分的作答按量表中点 2.5 计入平均信心
	wantConfidence := (4 + 2 + midpointConfidence) / 3
	if allergy.AvgConfidence != wantConfidence {
		t.Errorf("Allergy avg confidence = %v, want %v", allergy.AvgConfidence, wantConfidence)
	}
	if allergy.AvgSatisfaction != 3 {
		t.Errorf("Allergy avg satisfaction = %v, want 3", allergy.AvgSatisfaction)
	}
	if allergy.SeenCount != 2 || allergy.MasteredCount != 1 {
		t.Errorf("Allergy seen=%d mastered=%d, want 2 and 1", allergy.SeenCount, allergy.MasteredCount)
	}
	if allergy.TotalInDB != 10 {
		t.Errorf("Allergy total = %d, want 10", allergy.TotalInDB)
	}

	wantDelusion := wantConfidence*model.ConfidenceScale - wantAccuracy
	if allergy.DelusionScore != wantDelusion {
		t.Errorf("Allergy delusion = %v, want %v", allergy.DelusionScore, wantDelusion)
	}
	wantUrgency := wantConfidence - wantAccuracy/model.ConfidenceScale
	if allergy.Urgency != wantUrgency {
		t.Errorf("Allergy urgency = %v, want %v", allergy.Urgency, wantUrgency)
	}

	cardio := byName["Cardio"]
	if cardio.Accuracy != 100 || cardio.Volume != 1 {
		t.Errorf("Cardio accuracy=%v volume=%d, want 100 and 1", cardio.Accuracy, cardio.Volume)
	}
}

func TestSortCategoryStats(t *testing.T) {
	base := func() []model.CategoryStat {
		return []model.CategoryStat{
			{Name: "B", Accuracy: 50, Urgency: 2, MasteredCount: 1, TotalInDB: 2, AvgSatisfaction: 0},
			{Name: "A", Accuracy: 90, Urgency: 1, MasteredCount: 1, TotalInDB: 10, AvgSatisfaction: 3},
			{Name: "C", Accuracy: 10, Urgency: 3, MasteredCount: 0, TotalInDB: 5, AvgSatisfaction: 1},
		}
	}

	check := func(mode string, want []string) {
		t.Helper()
		stats := base()
		sortCategoryStats(stats, mode)
		for i, name := range want {
			if stats[i].Name != name {
				t.Errorf("mode %q: position %d = %s, want %s", mode, i, stats[i].Name, name)
			}
		}
	}

	check("alpha", []string{"A", "B", "C"})
	check("worst", []string{"C", "B", "A"})
	check("best", []string{"A", "B", "C"})
	check("urgency", []string{"C", "B", "A"})
	check("mastery", []string{"B", "A", "C"})
	// frustration：满意度升序，没有数据的排最后
	check("frustration", []string{"C", "A", "B"})
}

func TestFilterCategoryStats(t *testing.T) {
	stats := []model.CategoryStat{
		{Name: "Internal Medicine"},
		{Name: "Surgery"},
	}

	got := filterCategoryStats(stats, "medic")
	if len(got) != 1 || got[0].Name != "Internal Medicine" {
		t.Errorf("substring filter = %v, want only Internal Medicine", got)
	}

	if got := filterCategoryStats(stats, "  "); len(got) != 2 {
		t.Errorf("blank filter should keep everything, got %v", got)
	}
}

func TestTrendPoints(t *testing.T) {
	// 按 attempted_at 倒序传入，与仓储层的排序一致
	activities := []model.UserActivity{
		activityAt("q1", "X", true, 1, "2026-08-10"),
		activityAt("q2", "X", false, 1, "2026-08-10"),
		activityAt("q3", "X", true, 1, "2026-08-08"),
		activityAt("q4", "X", true, 1, "2026-08-05"),
	}

	points := trendPoints(activities, 2)
	if len(points) != 2 {
		t.Fatalf("len = %d, want 2 (only the two most recent days)", len(points))
	}
	// 升序返回
	if points[0].Date != "2026-08-08" || points[1].Date != "2026-08-10" {
		t.Errorf("dates = %s, %s, want 2026-08-08 then 2026-08-10", points[0].Date, points[1].Date)
	}
	if points[0].Accuracy != 100 {
		t.Errorf("2026-08-08 accuracy = %v, want 100", points[0].Accuracy)
	}
	if points[1].Accuracy != 50 {
		t.Errorf("2026-08-10 accuracy = %v, want 50", points[1].Accuracy)
	}
}

func TestStreakFrom(t *testing.T) {
	now, _ := time.Parse("2006-01-02", "2026-08-31")

	cases := []struct {
		name string
		days []string
		want int
	}{
		{"empty", nil, 0},
		{"today only", []string{"2026-08-31"}, 1},
		{"three through today", []string{"2026-08-29", "2026-08-30", "2026-08-31"}, 3},
		{"no activity today breaks the streak", []string{"2026-08-29", "2026-08-30"}, 0},
		{"gap breaks the run", []string{"2026-08-28", "2026-08-31"}, 1},
		{"two days ago only", []string{"2026-08-29"}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			days := make(map[string]struct{}, len(c.days))
			for _, d := range c.days {
				days[d] = struct{}{}
			}
			if got := streakFrom(days, now); got != c.want {
				t.Errorf("streak = %d, want %d", got, c.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := percent(1, 4); got != 25 {
		t.Errorf("percent(1, 4) = %v, want 25", got)
	}
	if got := percent(3, 0); got != 0 {
		t.Errorf("percent with zero denominator = %v, want 0", got)
	}
}
