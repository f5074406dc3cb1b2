package model

import (
	"time"
)

// CartItem is one line of a user's cart. A user has at most one row per
// product (idx_cart_user_product); re-adding an in-cart product updates the
// existing row instead of inserting a duplicate. Rows are hard-deleted so
// the unique key stays free for later re-adds.
type CartItem struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID         uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity          int       `gorm:"not null;default:1" json:"quantity"`
	CustomizationNote string    `gorm:"type:text" json:"customization_note,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
