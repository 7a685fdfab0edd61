package service

import (
	"quizdeck_backend/internal/model"
	"quizdeck_backend/internal/util"
	"reflect"
	"sort"
	"testing"
)

func TestNormalizeGenerateRequestDefaults(t *testing.T) {
	req := GenerateRequest{}
	normalizeGenerateRequest(&req)

	if req.MinRating != MinConfidence || req.MaxRating != MaxConfidence {
		t.Errorf("rating bounds = [%d, %d], want [%d, %d]", req.MinRating, req.MaxRating, MinConfidence, MaxConfidence)
	}
	if req.Limit != defaultQuizLimit {
		t.Errorf("Limit = %d, want %d", req.Limit, defaultQuizLimit)
	}
	if req.PhraseMode != "or" {
		t.Errorf("PhraseMode = %q, want or", req.PhraseMode)
	}
}

func TestNormalizeGenerateRequestClampAndSwap(t *testing.T) {
	req := GenerateRequest{MinRating: 9, MaxRating: -3, Limit: 10}
	normalizeGenerateRequest(&req)

	if req.MinRating != MinConfidence || req.MaxRating != MaxConfidence {
		t.Errorf("rating bounds = [%d, %d], want clamped and swapped to [%d, %d]",
			req.MinRating, req.MaxRating, MinConfidence, MaxConfidence)
	}
}

func TestNormalizeGenerateRequestConflict(t *testing.T) {
	// 表现过滤与仅未见互斥，前者生效时后者被清掉
	req := GenerateRequest{UnseenOnly: true, NotMastered: true}
	normalizeGenerateRequest(&req)
	if req.UnseenOnly {
		t.Error("UnseenOnly should be cleared when mastery filter is active")
	}

	req = GenerateRequest{UnseenOnly: true, MinRating: 2, MaxRating: 4}
	normalizeGenerateRequest(&req)
	if req.UnseenOnly {
		t.Error("UnseenOnly should be cleared when the rating range is narrowed")
	}

	req = GenerateRequest{UnseenOnly: true}
	normalizeGenerateRequest(&req)
	if !req.UnseenOnly {
		t.Error("UnseenOnly should survive with default rating bounds")
	}
}

func TestNormalizeGenerateRequestPhrasePriority(t *testing.T) {
	req := GenerateRequest{
		Phrases:           []string{" allergy ", "", "  "},
		IncludeCategories: []string{"Cardiology"},
		ExcludeCategories: []string{"Allergy"},
	}
	normalizeGenerateRequest(&req)

	if !reflect.DeepEqual(req.Phrases, []string{"allergy"}) {
		t.Errorf("Phrases = %v, want blanks trimmed away", req.Phrases)
	}
	// 短语存在时分类条件整体失效
	if len(req.IncludeCategories) != 0 || len(req.ExcludeCategories) != 0 {
		t.Errorf("categories = include %v exclude %v, want both cleared when phrases are set",
			req.IncludeCategories, req.ExcludeCategories)
	}

	// 全是空白短语等于没给短语，分类条件保留
	req = GenerateRequest{
		Phrases:           []string{"   "},
		IncludeCategories: []string{"Cardiology"},
	}
	normalizeGenerateRequest(&req)
	if len(req.Phrases) != 0 {
		t.Errorf("Phrases = %v, want empty", req.Phrases)
	}
	if !reflect.DeepEqual(req.IncludeCategories, []string{"Cardiology"}) {
		t.Errorf("IncludeCategories = %v, want kept", req.IncludeCategories)
	}
}

func TestResolveCategoryPool(t *testing.T) {
	available := []string{"Allergy", "Cardiology", "Neurology"}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{"includes taken as given", []string{" Cardiology "}, nil, []string{"Cardiology"}},
		{"excludes ignored when includes present", []string{"Allergy"}, []string{"Allergy"}, []string{"Allergy"}},
		{"excludes subtract from available", nil, []string{" Cardiology "}, []string{"Allergy", "Neurology"}},
		{"no filters returns available", nil, nil, available},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveCategoryPool(tt.include, tt.exclude, available)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolveCategoryPool(%v, %v) = %v, want %v", tt.include, tt.exclude, got, tt.want)
			}
		})
	}
}

func TestAggregateActivity(t *testing.T) {
	activities := []model.UserActivity{
		{QuestionID: "q1", UserRating: 4, IsCorrect: true},
		{QuestionID: "q1", UserRating: 2, IsCorrect: false},
		{QuestionID: "q2", UserRating: 0, IsCorrect: false}, // 缺失评分按中间值计
	}

	stats := aggregateActivity(activities)

	q1 := stats["q1"]
	if q1.attempts != 2 || q1.avgRating() != 3 {
		t.Errorf("q1 attempts=%d avg=%v, want 2 attempts with avg 3", q1.attempts, q1.avgRating())
	}
	if !q1.mastered {
		t.Error("q1 should be mastered after one correct attempt")
	}

	q2 := stats["q2"]
	if q2.avgRating() != midpointConfidence {
		t.Errorf("q2 avg=%v, want midpoint %v", q2.avgRating(), midpointConfidence)
	}
	if q2.mastered {
		t.Error("q2 should not be mastered")
	}
}

func TestFilterByStats(t *testing.T) {
	stats := map[string]questionStats{
		"low":      {ratingSum: 1, attempts: 1},                 // avg 1
		"mid":      {ratingSum: 5, attempts: 2},                 // avg 2.5
		"high":     {ratingSum: 4, attempts: 1},                 // avg 4
		"mastered": {ratingSum: 2, attempts: 1, mastered: true}, // avg 2
	}

	targets := filterByStats(stats, 2, 3, false)
	if _, ok := targets["low"]; ok {
		t.Error("avg below the range should be excluded")
	}
	if _, ok := targets["high"]; ok {
		t.Error("avg above the range should be excluded")
	}
	if _, ok := targets["mid"]; !ok {
		t.Error("avg inside the range should be included")
	}
	if _, ok := targets["mastered"]; !ok {
		t.Error("mastered question should stay when notMastered is off")
	}

	targets = filterByStats(stats, 1, 4, true)
	if _, ok := targets["mastered"]; ok {
		t.Error("mastered question should drop when notMastered is on")
	}
}

func TestSubtractSeenAndIntersect(t *testing.T) {
	stats := map[string]questionStats{"a": {}, "c": {}}
	pool := []string{"a", "b", "c", "d"}

	unseen := subtractSeen(pool, stats)
	if !reflect.DeepEqual(unseen, []string{"b", "d"}) {
		t.Errorf("subtractSeen = %v, want [b d]", unseen)
	}

	got := intersect(pool, util.ToSet([]string{"c", "d", "e"}))
	if !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Errorf("intersect = %v, want [c d]", got)
	}
}

func TestCombinePhraseSets(t *testing.T) {
	sets := [][]string{
		{"a", "b", "c"},
		{"b", "c", "d"},
	}

	union := combinePhraseSets(sets, "or")
	if !reflect.DeepEqual(union, []string{"a", "b", "c", "d"}) {
		t.Errorf("or union = %v, want [a b c d]", union)
	}

	inter := combinePhraseSets(sets, "and")
	if !reflect.DeepEqual(inter, []string{"b", "c"}) {
		t.Errorf("and intersection = %v, want [b c]", inter)
	}

	if got := combinePhraseSets(nil, "or"); len(got) != 0 {
		t.Errorf("empty input should give empty result, got %v", got)
	}
}

func TestShuffleLimit(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e", "f"}
	original := make([]string, len(pool))
	copy(original, pool)

	picked := shuffleLimit(pool, 3)
	if len(picked) != 3 {
		t.Fatalf("len = %d, want 3", len(picked))
	}

	// 不修改入参
	if !reflect.DeepEqual(pool, original) {
		t.Error("shuffleLimit must not mutate its input")
	}

	// 抽出的都是池内元素且不重复
	poolSet := util.ToSet(pool)
	seen := map[string]struct{}{}
	for _, id := range picked {
		if _, ok := poolSet[id]; !ok {
			t.Errorf("picked id %q not in pool", id)
		}
		if _, dup := seen[id]; dup {
			t.Errorf("picked id %q twice", id)
		}
		seen[id] = struct{}{}
	}

	// limit 大于池时全量返回
	all := shuffleLimit(pool, 100)
	sort.Strings(all)
	if !reflect.DeepEqual(all, original) {
		t.Errorf("oversized limit should return the whole pool, got %v", all)
	}
}

func TestNormalizeCategoryCounts(t *testing.T) {
	raw := []model.CategoryCount{
		{CatName: "Allergy", QCount: 3},
		{CatName: " allergy ", QCount: 0},
		{CatName: "Allergy ", QCount: 2},
		{CatName: "", QCount: 1},
	}

	counts := normalizeCategoryCounts(raw)
	byName := make(map[string]int, len(counts))
	for _, c := range counts {
		byName[c.CatName] = c.QCount
	}

	if byName["Allergy"] != 5 {
		t.Errorf("Allergy = %d, want 5 (whitespace variants merged)", byName["Allergy"])
	}
	if byName[util.DefaultCategory] != 1 {
		t.Errorf("%s = %d, want 1", util.DefaultCategory, byName[util.DefaultCategory])
	}
	// 大小写不同按不同分类对待
	if got, ok := byName["allergy"]; !ok || got != 0 {
		t.Errorf("allergy = %d (present=%v), want separate entry with 0", got, ok)
	}
	if !sort.SliceIsSorted(counts, func(i, j int) bool { return counts[i].CatName < counts[j].CatName }) {
		t.Error("counts should be sorted by name")
	}
}
