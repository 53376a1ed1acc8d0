package dto

// RegisterDTO 注册请求，用户标识来自外部认证体系
type RegisterDTO struct {
	UserID   string `json:"user_id" binding:"required,max=50"`
	Username string `json:"username" binding:"required,min=1,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
}

// UserProfileDTO 用户资料
type UserProfileDTO struct {
	UserID          string  `json:"user_id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	Experience      int     `json:"experience"`
	Level           int     `json:"level"`
	ExpForNext      int     `json:"exp_for_next"`
	CreatedAt       string  `json:"created_at"`
}

// RegisterResultDTO 注册结果，附带后续请求使用的令牌
type RegisterResultDTO struct {
	User  *UserProfileDTO `json:"user"`
	Token string          `json:"token"`
}
