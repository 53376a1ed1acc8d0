package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid      = errors.New("参数错误")
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUserExist         = errors.New("用户已存在")
	ErrUserUsernameExist = errors.New("用户名已存在")
	ErrUserEmailExist    = errors.New("邮箱已注册")
	ErrPostNotFound      = errors.New("帖子不存在")
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrGenreNotFound     = errors.New("题材不存在")
	ErrUserGenreLimit    = errors.New("偏好题材最多选择3个")
	ErrPostGenreCount    = errors.New("帖子题材数量须在1到3个之间")
	ErrReactionConflict  = errors.New("操作冲突，请重试")
	ErrFileNotSupported  = errors.New("不支持的文件类型")
	ErrPostImageLimit    = errors.New("帖子图片数量超过限制")
	UnauthorizedError    = errors.New("权限不足")
	UnExpectedError      = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:      BadRequest,
	ErrUserNotFound:      NotFound,
	ErrUserExist:         BadRequest,
	ErrUserUsernameExist: BadRequest,
	ErrUserEmailExist:    BadRequest,
	ErrPostNotFound:      NotFound,
	ErrCommentNotFound:   NotFound,
	ErrGenreNotFound:     NotFound,
	ErrUserGenreLimit:    BadRequest,
	ErrPostGenreCount:    BadRequest,
	ErrReactionConflict:  Conflict,
	ErrFileNotSupported:  BadRequest,
	ErrPostImageLimit:    BadRequest,
	UnauthorizedError:    Unauthorized,
	UnExpectedError:      InternalServerError,
}
