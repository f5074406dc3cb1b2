package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	AvatarURL    string         `json:"avatar_url"`
	Role         UserRole       `gorm:"type:varchar(20);default:'buyer'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	SellerProfile *SellerProfile `gorm:"foreignKey:UserID" json:"seller_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}
