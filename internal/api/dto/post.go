package dto

// CreatePostDTO 发帖请求
type CreatePostDTO struct {
	Title    string   `json:"title" binding:"required,min=1,max=120"`
	Content  string   `json:"content" binding:"required,min=1,max=10000"`
	Images   []string `json:"images" binding:"max=9"`
	GenreIDs []int    `json:"genre_ids" binding:"required,min=1,max=3"`
}

// UpdatePostDTO 编辑帖子请求
type UpdatePostDTO struct {
	Title    string   `json:"title" binding:"required,min=1,max=120"`
	Content  string   `json:"content" binding:"required,min=1,max=10000"`
	Images   []string `json:"images" binding:"max=9"`
	GenreIDs []int    `json:"genre_ids" binding:"required,min=1,max=3"`
}

// PostDTO 帖子返回详情
type PostDTO struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	Username   string   `json:"username"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Images     []string `json:"images"`
	GenreIDs   []int    `json:"genre_ids"`
	LikesCount int      `json:"likes_count"`
	StarsCount int      `json:"stars_count"`
	Liked      bool     `json:"liked"`
	Starred    bool     `json:"starred"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

// PostPageDTO 帖子分页结果
type PostPageDTO struct {
	Items []*PostDTO `json:"items"`
	Total int64      `json:"total"`
}

// ToggleResultDTO 点赞/收藏切换后的最新状态
type ToggleResultDTO struct {
	State bool  `json:"state"`
	Count int64 `json:"count"`
}
