package model

import (
	"time"
)

// User 经 GitHub OAuth 登录后落库的用户档案
// swagger:model User
type User struct {
	BaseModel
	Login     string    `gorm:"size:100;unique;not null" json:"login"` // GitHub 用户名
	Name      string    `gorm:"size:100" json:"name"`
	Email     string    `gorm:"size:100;index" json:"email"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
