package repository

import (
	"quizdeck_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Model(q).Updates(q).Error
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByQuestionText 导入时用题干做幂等匹配
func (r *QuestionRepository) FindByQuestionText(text string) (*model.Question, error) {
	var q model.Question
	err := r.DB.Where("question_text = ?", text).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByIDs 按 ID 列表取完整题目，顺序由调用方自行恢复
func (r *QuestionRepository) FindByIDs(ids []string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

// FindAllIDs 全量候选池
func (r *QuestionRepository) FindAllIDs() ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Question{}).Pluck("id", &ids).Error
	return ids, err
}

// FindIDsByCategories 分类候选池。几百个分类的等值列表直接下发，不分片。
func (r *QuestionRepository) FindIDsByCategories(categories []string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.Question{}).Where("category IN ?", categories).Pluck("id", &ids).Error
	return ids, err
}

// FilterIDs 把候选 ID 池回落到数据库做一次存在性过滤，
// 等值列表一次性下发（与原行为一致，不做分片）。
func (r *QuestionRepository) FilterIDs(ids []string) ([]string, error) {
	var out []string
	err := r.DB.Model(&model.Question{}).Where("id IN ?", ids).Pluck("id", &out).Error
	return out, err
}

// CategoryCounts 调用数据库侧的 get_category_counts 存储过程
func (r *QuestionRepository) CategoryCounts() ([]model.CategoryCount, error) {
	var counts []model.CategoryCount
	err := r.DB.Raw("CALL get_category_counts()").Scan(&counts).Error
	return counts, err
}

// SearchIDsByPhrase 调用数据库侧的 search_questions_by_phrase 存储过程，
// 返回题干或解析中包含该短语的题目 ID 集合。
func (r *QuestionRepository) SearchIDsByPhrase(phrase string) ([]string, error) {
	var rows []struct {
		ID string `gorm:"column:id"`
	}
	err := r.DB.Raw("CALL search_questions_by_phrase(?)", phrase).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	return ids, nil
}
