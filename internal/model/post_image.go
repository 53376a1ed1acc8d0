package model

import (
	"github.com/google/uuid"
)

type PostImage struct {
	ID       uint64    `gorm:"primaryKey" json:"id"`
	PostID   uuid.UUID `gorm:"type:char(36);not null;index:idx_post_id" json:"postId"`
	Position int       `gorm:"not null;default:0" json:"position"` // 保持上传顺序
	URL      string    `gorm:"type:varchar(512);not null" json:"url"`
}

func (PostImage) TableName() string {
	return "post_images"
}
