package model

import (
	"github.com/google/uuid"
)

type Genre struct {
	ID          int     `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(50);not null;uniqueIndex:idx_genre_name" json:"name"`
	Description *string `gorm:"type:varchar(255)" json:"description"`
}

func (Genre) TableName() string {
	return "genres"
}

type UserGenre struct {
	UserID  string `gorm:"type:varchar(50);primaryKey" json:"userId"`
	GenreID int    `gorm:"primaryKey" json:"genreId"`
}

func (UserGenre) TableName() string {
	return "user_genres"
}

type PostGenre struct {
	PostID  uuid.UUID `gorm:"type:char(36);primaryKey" json:"postId"`
	GenreID int       `gorm:"primaryKey" json:"genreId"`
}

func (PostGenre) TableName() string {
	return "post_genres"
}
