package service

import (
	"errors"
	"quizdeck_backend/internal/model"
	"quizdeck_backend/internal/repository"
	"quizdeck_backend/internal/util"

	"gorm.io/gorm"
)

// QuizQuestion 发给前端的题面，提交前不带答案
type QuizQuestion struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
}

// Submission 单题作答：选中的选项子集和可选的信心分（0 表示未评分）
type Submission struct {
	QuestionID      string   `json:"questionId" binding:"required"`
	SelectedAnswers []string `json:"selectedAnswers"`
	Confidence      int      `json:"confidence"`
}

// SubmissionResult 单题判分结果，提交后才返回答案与解析
type SubmissionResult struct {
	QuestionID     string   `json:"questionId"`
	IsCorrect      bool     `json:"isCorrect"`
	CorrectAnswers []string `json:"correctAnswers"`
	Explanation    string   `json:"explanation"`
	ActivityID     string   `json:"activityId,omitempty"`
}

// SubmitRequest 整卷提交：按出题顺序的各题作答和前端计的答题秒数
type SubmitRequest struct {
	Questions      []Submission `json:"questions" binding:"required"`
	ElapsedSeconds int          `json:"elapsedSeconds"`
}

// QuizResult 整卷结果，Total 计全部题目而不只是评过分的
type QuizResult struct {
	Results        []SubmissionResult `json:"results"`
	Correct        int                `json:"correct"`
	Total          int                `json:"total"`
	Percentage     float64            `json:"percentage"`
	ElapsedSeconds int                `json:"elapsedSeconds"`
}

// QuizService 按给定顺序出题、整卷判分、维护提交后的满意度
type QuizService struct {
	QuestionRepo *repository.QuestionRepository
	ActivityRepo *repository.UserActivityRepository
}

func NewQuizService(questionRepo *repository.QuestionRepository, activityRepo *repository.UserActivityRepository) *QuizService {
	return &QuizService{QuestionRepo: questionRepo, ActivityRepo: activityRepo}
}

// LoadQuestions 按传入 ID 的顺序返回题面，任一 ID 不存在即整体报错
func (s *QuizService) LoadQuestions(ids []string) ([]QuizQuestion, error) {
	if len(ids) == 0 {
		return nil, util.ErrQuizEmpty
	}

	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	ordered := make([]QuizQuestion, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, util.ErrQuestionNotFound
		}
		ordered = append(ordered, QuizQuestion{
			ID:           q.ID,
			Category:     q.Category,
			QuestionText: q.QuestionText,
			Options:      q.Options,
		})
	}
	return ordered, nil
}

// SubmitAll 整卷判分。每道评过信心分的题写一条作答记录，
// 未评分的题只参与计分不落库。
func (s *QuizService) SubmitAll(userEmail string, req SubmitRequest) (*QuizResult, error) {
	submissions := req.Questions
	if len(submissions) == 0 {
		return nil, util.ErrQuizEmpty
	}

	ids := make([]string, 0, len(submissions))
	for _, sub := range submissions {
		if sub.Confidence != 0 && (sub.Confidence < MinConfidence || sub.Confidence > MaxConfidence) {
			return nil, util.ErrInvalidRating
		}
		ids = append(ids, sub.QuestionID)
	}

	questions, err := s.QuestionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	result := &QuizResult{
		Results:        make([]SubmissionResult, 0, len(submissions)),
		Total:          len(submissions),
		ElapsedSeconds: req.ElapsedSeconds,
	}
	records := make([]model.UserActivity, 0, len(submissions))

	for _, sub := range submissions {
		q, ok := byID[sub.QuestionID]
		if !ok {
			return nil, util.ErrQuestionNotFound
		}

		isCorrect := util.SetEqual(sub.SelectedAnswers, q.CorrectAnswers)
		if isCorrect {
			result.Correct++
		}

		sr := SubmissionResult{
			QuestionID:     q.ID,
			IsCorrect:      isCorrect,
			CorrectAnswers: q.CorrectAnswers,
			Explanation:    q.Explanation,
		}

		if sub.Confidence != 0 {
			record := model.UserActivity{
				ID:              model.GenerateUUID(),
				QuestionID:      q.ID,
				UserEmail:       userEmail,
				IsCorrect:       isCorrect,
				UserRating:      sub.Confidence,
				SubmittedAnswer: sub.SelectedAnswers,
			}
			records = append(records, record)
			sr.ActivityID = record.ID
		}

		result.Results = append(result.Results, sr)
	}

	result.Percentage = float64(result.Correct) / float64(result.Total) * 100

	if err := s.ActivityRepo.CreateBatch(records); err != nil {
		return nil, err
	}
	return result, nil
}

// SetSatisfaction 提交后的满意度维护，约定：
//   - 没有记录且给了分 -> 插入一条只带满意度的记录（判分按提交的选项）
//   - 有记录且传空或传同分 -> 删除整条记录
//   - 其余情况只更新满意度字段
func (s *QuizService) SetSatisfaction(userEmail, questionID string, satisfaction *int, selectedAnswers []string) error {
	if satisfaction != nil && (*satisfaction < MinConfidence || *satisfaction > MaxConfidence) {
		return util.ErrInvalidRating
	}

	existing, err := s.ActivityRepo.FindLatestByUserAndQuestion(userEmail, questionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var current *int
	if existing != nil {
		current = existing.SatisfactionRating
	}

	switch resolveSatisfactionOp(existing != nil, current, satisfaction) {
	case satisfactionInsert:
		q, err := s.QuestionRepo.FindByID(questionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrQuestionNotFound
			}
			return err
		}
		record := satisfactionOnlyRecord(userEmail, q, *satisfaction, selectedAnswers)
		return s.ActivityRepo.Create(&record)
	case satisfactionDelete:
		return s.ActivityRepo.Delete(existing.ID)
	case satisfactionUpdate:
		return s.ActivityRepo.UpdateSatisfaction(existing.ID, satisfaction)
	default:
		return nil
	}
}

// satisfactionOnlyRecord 没有作答记录时补建的一条，
// 信心分直接用满意度的值，避免留下 0 分脏数据
func satisfactionOnlyRecord(userEmail string, q *model.Question, satisfaction int, selectedAnswers []string) model.UserActivity {
	return model.UserActivity{
		QuestionID:         q.ID,
		UserEmail:          userEmail,
		IsCorrect:          util.SetEqual(selectedAnswers, q.CorrectAnswers),
		SubmittedAnswer:    selectedAnswers,
		UserRating:         satisfaction,
		SatisfactionRating: &satisfaction,
	}
}
