package model

import (
	"time"

	"github.com/google/uuid"
)

type PostStar struct {
	PostID    uuid.UUID `gorm:"type:char(36);primaryKey" json:"postId"`
	UserID    string    `gorm:"type:varchar(50);primaryKey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (PostStar) TableName() string {
	return "post_stars"
}
