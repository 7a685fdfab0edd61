package repository

import (
	"quizdeck_backend/internal/model"

	"gorm.io/gorm"
)

type UserActivityRepository struct {
	DB *gorm.DB
}

func NewUserActivityRepository(db *gorm.DB) *UserActivityRepository {
	return &UserActivityRepository{DB: db}
}

func (r *UserActivityRepository) Create(activity *model.UserActivity) error {
	return r.DB.Create(activity).Error
}

func (r *UserActivityRepository) CreateBatch(activities []model.UserActivity) error {
	if len(activities) == 0 {
		return nil
	}
	return r.DB.Create(&activities).Error
}

func (r *UserActivityRepository) FindByID(id string) (*model.UserActivity, error) {
	var activity model.UserActivity
	err := r.DB.First(&activity, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// FindAllByUser 选题与分析都要全量历史，不分页
func (r *UserActivityRepository) FindAllByUser(email string) ([]model.UserActivity, error) {
	var activities []model.UserActivity
	err := r.DB.Where("user_email = ?", email).Find(&activities).Error
	return activities, err
}

// FindAllByUserWithQuestion 带题目信息的全量历史，按作答时间倒序（分析页用）
func (r *UserActivityRepository) FindAllByUserWithQuestion(email string) ([]model.UserActivity, error) {
	var activities []model.UserActivity
	err := r.DB.Preload("Question").
		Where("user_email = ?", email).
		Order("attempted_at DESC").
		Find(&activities).Error
	return activities, err
}

// FindLatestByUserAndQuestion 该用户在某题上最近一条作答，没有则返回 gorm.ErrRecordNotFound
func (r *UserActivityRepository) FindLatestByUserAndQuestion(email, questionID string) (*model.UserActivity, error) {
	var activity model.UserActivity
	err := r.DB.Where("user_email = ? AND question_id = ?", email, questionID).
		Order("attempted_at DESC").
		First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// HistoryQuery 历史页的过滤与排序参数
type HistoryQuery struct {
	Status       string // all / correct / incorrect
	Satisfaction *int
	Categories   []string
	Sort         string // newest / oldest / confidence / satisfaction
	Page         int    // 从 0 开始
	PageSize     int
}

// FindPageByUser 纯 offset 分页（page × pageSize），与原行为一致，
// 翻页期间的并发写入可能造成跳过或重复。
func (r *UserActivityRepository) FindPageByUser(email string, q HistoryQuery) ([]model.UserActivity, error) {
	query := r.DB.Preload("Question").
		Joins("JOIN questions ON questions.id = user_activity.question_id").
		Where("user_activity.user_email = ?", email)

	switch q.Status {
	case "correct":
		query = query.Where("user_activity.is_correct = ?", true)
	case "incorrect":
		query = query.Where("user_activity.is_correct = ?", false)
	}

	if q.Satisfaction != nil {
		query = query.Where("user_activity.satisfaction_rating = ?", *q.Satisfaction)
	}

	if len(q.Categories) > 0 {
		query = query.Where("questions.category IN ?", q.Categories)
	}

	switch q.Sort {
	case "oldest":
		query = query.Order("user_activity.attempted_at ASC")
	case "confidence":
		query = query.Order("user_activity.user_rating DESC")
	case "satisfaction":
		// NULL 排在最后
		query = query.Order("user_activity.satisfaction_rating IS NULL, user_activity.satisfaction_rating DESC")
	default:
		query = query.Order("user_activity.attempted_at DESC")
	}

	// 多取一条，调用方据此判断还有没有下一页
	var activities []model.UserActivity
	err := query.Offset(q.Page * q.PageSize).Limit(q.PageSize + 1).Find(&activities).Error
	return activities, err
}

// UpdateSatisfaction 只改满意度字段
func (r *UserActivityRepository) UpdateSatisfaction(id string, score *int) error {
	return r.DB.Model(&model.UserActivity{}).Where("id = ?", id).
		Update("satisfaction_rating", score).Error
}

func (r *UserActivityRepository) Delete(id string) error {
	return r.DB.Delete(&model.UserActivity{}, "id = ?", id).Error
}
