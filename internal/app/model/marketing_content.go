package model

import (
	"time"

	"gorm.io/gorm"
)

// MarketingContent is stored AI-generated marketing copy for a platform
type MarketingContent struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Platform  string         `gorm:"type:varchar(30);not null" json:"platform"` // instagram, facebook, email, ...
	Tone      string         `gorm:"type:varchar(30)" json:"tone"`
	Prompt    string         `gorm:"type:text;not null" json:"prompt"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (MarketingContent) TableName() string {
	return "marketing_content"
}
