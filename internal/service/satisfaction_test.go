package service

import (
	"quizdeck_backend/internal/model"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestSatisfactionOnlyRecord(t *testing.T) {
	q := &model.Question{
		UUIDBase:       model.UUIDBase{ID: "q1"},
		CorrectAnswers: model.StringList{"a", "c"},
	}

	record := satisfactionOnlyRecord("user@example.com", q, 3, []string{"c", "a"})

	if record.QuestionID != "q1" || record.UserEmail != "user@example.com" {
		t.Errorf("record identity = %q/%q, want q1/user@example.com", record.QuestionID, record.UserEmail)
	}
	// 信心分取满意度的值，不能留 0
	if record.UserRating != 3 {
		t.Errorf("UserRating = %d, want 3", record.UserRating)
	}
	if record.SatisfactionRating == nil || *record.SatisfactionRating != 3 {
		t.Errorf("SatisfactionRating = %v, want 3", record.SatisfactionRating)
	}
	// 判分忽略选项顺序
	if !record.IsCorrect {
		t.Error("matching answers in a different order should grade correct")
	}

	wrong := satisfactionOnlyRecord("user@example.com", q, 1, []string{"a"})
	if wrong.IsCorrect {
		t.Error("partial answers should grade incorrect")
	}
}

func TestResolveSatisfactionOp(t *testing.T) {
	cases := []struct {
		name      string
		hasRecord bool
		current   *int
		requested *int
		want      satisfactionOp
	}{
		{"no record, no value", false, nil, nil, satisfactionNoop},
		{"no record, value given", false, nil, intPtr(3), satisfactionInsert},
		{"record, clear", true, intPtr(2), nil, satisfactionDelete},
		{"record without score, clear", true, nil, nil, satisfactionDelete},
		{"record, same value toggles off", true, intPtr(2), intPtr(2), satisfactionDelete},
		{"record, different value updates", true, intPtr(2), intPtr(4), satisfactionUpdate},
		{"record without score, value given", true, nil, intPtr(1), satisfactionUpdate},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := resolveSatisfactionOp(c.hasRecord, c.current, c.requested); got != c.want {
				t.Errorf("resolveSatisfactionOp(%v, %v, %v) = %d, want %d",
					c.hasRecord, c.current, c.requested, got, c.want)
			}
		})
	}
}
