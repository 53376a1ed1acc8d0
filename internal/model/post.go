package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(50);not null;index:idx_user_id" json:"userId"`
	Title      string    `gorm:"type:varchar(120);not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	LikesCount int       `gorm:"not null;default:0" json:"likesCount"`
	StarsCount int       `gorm:"not null;default:0" json:"starsCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// 关联关系
	Images []PostImage `gorm:"foreignKey:PostID;references:ID" json:"images"`
}

func (Post) TableName() string {
	return "posts"
}

func (s *Post) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
