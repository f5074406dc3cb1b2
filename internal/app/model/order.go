package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Status      OrderStatus    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	TotalAmount float64        `gorm:"not null" json:"total_amount"`
	Currency    string         `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots price and customization at purchase time; later product
// edits do not rewrite order history
type OrderItem struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	OrderID           uint      `gorm:"not null;index" json:"order_id"`
	ProductID         uint      `gorm:"not null;index" json:"product_id"`
	Quantity          int       `gorm:"not null" json:"quantity"`
	UnitPrice         float64   `gorm:"not null" json:"unit_price"`
	CustomizationNote string    `gorm:"type:text" json:"customization_note,omitempty"`
	CreatedAt         time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
