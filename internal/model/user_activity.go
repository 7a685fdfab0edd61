package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserActivity 一次打分过的作答记录：每道题每次测验在用户给出
// 信心评分时写入一条；满意度评分可以事后补加、修改或清除。
// swagger:model UserActivity
type UserActivity struct {
	ID                 string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	QuestionID         string     `gorm:"type:varchar(36);index;not null" json:"question_id"`
	UserEmail          string     `gorm:"size:120;index;not null" json:"user_email"`
	IsCorrect          bool       `gorm:"not null" json:"is_correct"`
	UserRating         int        `gorm:"not null" json:"user_rating"`
	SatisfactionRating *int       `json:"satisfaction_rating"`
	SubmittedAnswer    StringList `gorm:"type:json" json:"submitted_answer"`
	AttemptedAt        time.Time  `gorm:"autoCreateTime;index" json:"attempted_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"questions,omitempty"`
}

func (a *UserActivity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

func (UserActivity) TableName() string {
	return "user_activity"
}
