package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	PostID     uuid.UUID  `gorm:"type:char(36);not null;index:idx_post_id" json:"postId"`
	UserID     string     `gorm:"type:varchar(50);not null" json:"userId"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	ParentID   *uuid.UUID `gorm:"type:char(36);index:idx_parent_id" json:"parentId"` // 为空表示顶级评论
	LikesCount int        `gorm:"not null;default:0" json:"likesCount"`
	CreatedAt  time.Time  `json:"createdAt"`

	// Replies 不落库，读取时按 parent_id 邻接关系组装
	Replies []*Comment `gorm:"-" json:"replies"`
}

func (Comment) TableName() string {
	return "comments"
}

func (s *Comment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
