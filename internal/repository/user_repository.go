package repository

import (
	"quizdeck_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByLogin(login string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("login = ?", login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertByLogin OAuth 回调时按 GitHub 用户名建档或刷新资料
func (r *UserRepository) UpsertByLogin(user *model.User) error {
	existing, err := r.FindByLogin(user.Login)
	if err == gorm.ErrRecordNotFound {
		user.LastLogin = time.Now()
		return r.DB.Create(user).Error
	}
	if err != nil {
		return err
	}

	existing.Name = user.Name
	existing.Email = user.Email
	existing.Avatar = user.Avatar
	existing.LastLogin = time.Now()
	if err := r.DB.Save(existing).Error; err != nil {
		return err
	}
	*user = *existing
	return nil
}
