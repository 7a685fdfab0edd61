package util

import "errors"

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrActivityNotFound  = errors.New("activity record not found")
	ErrQuizEmpty         = errors.New("quiz requires at least one question id")
	ErrInvalidRating     = errors.New("rating must be between 1 and 4")
	ErrSourceUnavailable = errors.New("question source unavailable")
)
