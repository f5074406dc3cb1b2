package model

import (
	"time"

	"gorm.io/gorm"
)

type CustomRequestStatus string

const (
	CustomRequestPending  CustomRequestStatus = "pending"
	CustomRequestAccepted CustomRequestStatus = "accepted"
	CustomRequestDeclined CustomRequestStatus = "declined"
	CustomRequestDone     CustomRequestStatus = "done"
)

// CustomRequest is a buyer's customization request against a seller's product
type CustomRequest struct {
	ID          uint                `gorm:"primarykey" json:"id"`
	UserID      uint                `gorm:"not null;index" json:"user_id"`
	SellerID    uint                `gorm:"not null;index" json:"seller_id"`
	ProductID   *uint               `gorm:"index" json:"product_id,omitempty"`
	Description string              `gorm:"type:text;not null" json:"description"`
	Budget      *float64            `json:"budget,omitempty"`
	Status      CustomRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`

	User    User          `gorm:"foreignKey:UserID" json:"-"`
	Seller  SellerProfile `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Product *Product      `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CustomRequest) TableName() string {
	return "custom_requests"
}
