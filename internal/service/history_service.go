package service

import (
	"errors"
	"quizdeck_backend/internal/model"
	"quizdeck_backend/internal/repository"
	"quizdeck_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// HistoryPageSize 历史页的固定页长
const HistoryPageSize = 100

// HistoryEntry 历史页单条记录，作答信息加题目详情
type HistoryEntry struct {
	ID              string    `json:"id"`
	QuestionID      string    `json:"questionId"`
	Category        string    `json:"category"`
	QuestionText    string    `json:"questionText"`
	Options         []string  `json:"options"`
	CorrectAnswers  []string  `json:"correctAnswers"`
	SubmittedAnswer []string  `json:"submittedAnswer"`
	IsCorrect       bool      `json:"isCorrect"`
	Confidence      int       `json:"confidence"`
	Satisfaction    *int      `json:"satisfaction"`
	AttemptedAt     time.Time `json:"attemptedAt"`
}

// HistoryService 历史记录的分页读取、满意度维护和删除
type HistoryService struct {
	ActivityRepo *repository.UserActivityRepository
}

func NewHistoryService(activityRepo *repository.UserActivityRepository) *HistoryService {
	return &HistoryService{ActivityRepo: activityRepo}
}

// List 页长固定 100，仓储层多取一条用来判断是否还有下一页
func (s *HistoryService) List(userEmail string, q repository.HistoryQuery) ([]HistoryEntry, bool, error) {
	if q.Page < 0 {
		q.Page = 0
	}
	q.PageSize = HistoryPageSize

	normalized := make([]string, 0, len(q.Categories))
	for _, c := range q.Categories {
		normalized = append(normalized, util.NormalizeCategory(c))
	}
	q.Categories = normalized

	activities, err := s.ActivityRepo.FindPageByUser(userEmail, q)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(activities) > HistoryPageSize
	if hasMore {
		activities = activities[:HistoryPageSize]
	}

	entries := make([]HistoryEntry, 0, len(activities))
	for _, a := range activities {
		entry := HistoryEntry{
			ID:              a.ID,
			QuestionID:      a.QuestionID,
			SubmittedAnswer: a.SubmittedAnswer,
			IsCorrect:       a.IsCorrect,
			Confidence:      a.UserRating,
			Satisfaction:    a.SatisfactionRating,
			AttemptedAt:     a.AttemptedAt,
		}
		if a.Question != nil {
			entry.Category = util.NormalizeCategory(a.Question.Category)
			entry.QuestionText = a.Question.QuestionText
			entry.Options = a.Question.Options
			entry.CorrectAnswers = a.Question.CorrectAnswers
		}
		entries = append(entries, entry)
	}

	return entries, hasMore, nil
}

// SetSatisfaction 改单条记录的满意度。传空或与当前分相同按取消处理，
// 直接删掉整条记录，与测验页的约定一致。
func (s *HistoryService) SetSatisfaction(userEmail, activityID string, satisfaction *int) error {
	if satisfaction != nil && (*satisfaction < MinConfidence || *satisfaction > MaxConfidence) {
		return util.ErrInvalidRating
	}

	activity, err := s.ownedActivity(userEmail, activityID)
	if err != nil {
		return err
	}

	switch resolveSatisfactionOp(true, activity.SatisfactionRating, satisfaction) {
	case satisfactionDelete:
		return s.ActivityRepo.Delete(activity.ID)
	case satisfactionUpdate:
		return s.ActivityRepo.UpdateSatisfaction(activity.ID, satisfaction)
	default:
		return nil
	}
}

// Delete 删除本人的一条作答记录
func (s *HistoryService) Delete(userEmail, activityID string) error {
	activity, err := s.ownedActivity(userEmail, activityID)
	if err != nil {
		return err
	}
	return s.ActivityRepo.Delete(activity.ID)
}

func (s *HistoryService) ownedActivity(userEmail, activityID string) (*model.UserActivity, error) {
	activity, err := s.ActivityRepo.FindByID(activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrActivityNotFound
		}
		return nil, err
	}
	if activity.UserEmail != userEmail {
		return nil, util.ErrPermissionDenied
	}
	return activity, nil
}
