package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryJewelry  ProductCategory = "jewelry"
	CategoryCeramics ProductCategory = "ceramics"
	CategoryTextiles ProductCategory = "textiles"
	CategoryWoodwork ProductCategory = "woodwork"
	CategoryArt      ProductCategory = "art"
	CategoryDecor    ProductCategory = "decor"
	CategoryOther    ProductCategory = "other"
)

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	SellerID      uint            `gorm:"not null;index" json:"seller_id"`
	Title         string          `gorm:"not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	Category      ProductCategory `gorm:"type:varchar(50);index" json:"category"`
	Price         float64         `gorm:"not null" json:"price"`
	Currency      string          `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	Customizable  bool            `gorm:"default:false;index" json:"customizable"`
	Materials     pq.StringArray  `gorm:"type:text[]" json:"materials"`
	Rating        float64         `gorm:"default:0" json:"rating"`
	ViewCount     int             `gorm:"default:0" json:"view_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Seller        SellerProfile  `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Images        []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	CartItems     []CartItem     `gorm:"foreignKey:ProductID" json:"-"`
	WishlistItems []WishlistItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ProductImage is one image of a product; Position orders the gallery and
// exactly one image per product should carry IsPrimary
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null" json:"url"`
	Position  int       `gorm:"default:0" json:"position"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
