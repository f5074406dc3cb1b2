package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// BusinessPlan is the stored result of idea-to-business-plan generation
type BusinessPlan struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Idea      string         `gorm:"type:text;not null" json:"idea"`
	Summary   string         `gorm:"type:text" json:"summary"`
	Sections  pq.StringArray `gorm:"type:text[]" json:"sections"` // rendered section bodies, ordered
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (BusinessPlan) TableName() string {
	return "business_plans"
}
