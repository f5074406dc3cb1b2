package model

import (
	"time"

	"gorm.io/gorm"
)

type SellerProfile struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	ShopName  string         `gorm:"not null" json:"shop_name"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Bio       string         `gorm:"type:text" json:"bio"`
	Region    string         `json:"region"`
	Address   string         `json:"address"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	Verified  bool           `gorm:"default:false;index" json:"verified"`
	Rating    float64        `gorm:"default:0" json:"rating"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	Products []Product `gorm:"foreignKey:SellerID" json:"-"`
}

func (SellerProfile) TableName() string {
	return "seller_profiles"
}
