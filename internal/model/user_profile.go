package model

import (
	"time"
)

type UserProfile struct {
	UserID          string     `gorm:"type:varchar(50);primaryKey" json:"userId"`
	Username        string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_username" json:"username"`
	Email           string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_email" json:"email"`
	ProfileImageURL *string    `gorm:"type:varchar(255)" json:"profileImageUrl"`
	Experience      int        `gorm:"not null;default:0" json:"experience"`
	Level           int        `gorm:"not null;default:1" json:"level"`
	LastDailyExp    *time.Time `gorm:"type:date" json:"lastDailyExp"` // 为空表示从未领取每日经验
	CreatedAt       time.Time  `json:"createdAt"`
}

func (UserProfile) TableName() string {
	return "users"
}
