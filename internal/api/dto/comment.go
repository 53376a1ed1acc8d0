package dto

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	PostID   string  `json:"post_id" binding:"required,uuid"`
	Content  string  `json:"content" binding:"required,max=1000"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"` // 为空表示一级评论
}

// CommentDTO 评论返回详情，Replies 为其下的回复
type CommentDTO struct {
	ID         string        `json:"id"`
	PostID     string        `json:"post_id"`
	UserID     string        `json:"user_id"`
	Username   string        `json:"username"`
	Content    string        `json:"content"`
	ParentID   *string       `json:"parent_id"`
	LikesCount int           `json:"likes_count"`
	Liked      bool          `json:"liked"`
	CreatedAt  string        `json:"created_at"`
	Replies    []*CommentDTO `json:"replies"`
}

// CommentPageDTO 顶级评论分页结果
type CommentPageDTO struct {
	Items []*CommentDTO `json:"items"`
	Total int64         `json:"total"`
}
