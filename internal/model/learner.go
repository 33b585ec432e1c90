package model

import (
	"time"

	"gorm.io/gorm"
)

type Learner struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	ChatID      int64          `json:"chat_id" gorm:"not null;uniqueIndex"`
	Handle      string         `json:"handle"`
	DisplayName string         `json:"display_name" gorm:"not null"`
	JoinedAt    time.Time      `json:"joined_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
