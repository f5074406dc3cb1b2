package model

import (
	"time"

	"gorm.io/gorm"
)

type DesignAssetKind string

const (
	AssetKindLogo   DesignAssetKind = "logo"
	AssetKindMockup DesignAssetKind = "mockup"
	AssetKindScene  DesignAssetKind = "scene"
)

// DesignAsset is the stored record of an AI-generated image
type DesignAsset struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Kind      DesignAssetKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Prompt    string          `gorm:"type:text;not null" json:"prompt"`
	URL       string          `gorm:"not null" json:"url"`
	CreatedAt time.Time       `json:"created_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (DesignAsset) TableName() string {
	return "design_assets"
}
