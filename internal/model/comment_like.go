package model

import (
	"time"

	"github.com/google/uuid"
)

type CommentLike struct {
	CommentID uuid.UUID `gorm:"type:char(36);primaryKey" json:"commentId"`
	UserID    string    `gorm:"type:varchar(50);primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
