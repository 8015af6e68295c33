package util

import "errors"

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrInvalidPassword   = errors.New("邮箱或密码错误")
	ErrInvalidToken      = errors.New("invalid token")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrCourseNotFound    = errors.New("course not found")
	ErrStepNotFound      = errors.New("step not found")
	ErrContentNotFound   = errors.New("content not found")
	ErrChapterIncomplete = errors.New("chapter has incomplete steps")
	ErrNotInteractive    = errors.New("step is not a quiz")
	ErrInvalidFavorite   = errors.New("invalid favorite item")
	ErrEmptyQuery        = errors.New("search query is empty")
)
