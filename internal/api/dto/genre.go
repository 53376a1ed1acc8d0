package dto

// GenreDTO 题材
type GenreDTO struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// UserGenresDTO 用户偏好题材设置请求
type UserGenresDTO struct {
	GenreIDs []int `json:"genre_ids" binding:"max=3"`
}

// PostGenresDTO 帖子题材设置请求
type PostGenresDTO struct {
	GenreIDs []int `json:"genre_ids" binding:"required,min=1,max=3"`
}
