package model

import (
	"time"

	"github.com/google/uuid"
)

type PostLike struct {
	PostID    uuid.UUID `gorm:"type:char(36);primaryKey" json:"postId"`
	UserID    string    `gorm:"type:varchar(50);primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostLike) TableName() string {
	return "post_likes"
}
