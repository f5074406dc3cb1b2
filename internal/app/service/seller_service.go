package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/pkg/logger"
	"github.com/amirtishiva/craftbiz-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrSellerNotFound      = errors.New("seller profile not found")
	ErrSellerAlreadyExists = errors.New("seller profile already exists")
	ErrNotSeller           = errors.New("user does not have a seller profile")
)

// DashboardStats summarizes a seller's shop for the dashboard view
type DashboardStats struct {
	ProductCount   int64   `json:"product_count"`
	OrderItemCount int64   `json:"order_item_count"`
	TotalViews     int     `json:"total_views"`
	AverageRating  float64 `json:"average_rating"`
}

type SellerService interface {
	CreateProfile(userID uint, shopName, bio, region, address string) (*model.SellerProfile, error)
	GetProfileByUserID(userID uint) (*model.SellerProfile, error)
	GetProfileBySlug(slug string) (*model.SellerProfile, error)
	UpdateProfile(userID uint, shopName, bio, region, address string) (*model.SellerProfile, error)
	GetDashboard(userID uint) (*DashboardStats, []model.Product, error)
	ExportCatalogXLSX(userID uint) ([]byte, error)
}

type sellerService struct {
	sellerRepo  repository.SellerRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	mapsAPIKey  string
}

func NewSellerService(
	sellerRepo repository.SellerRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	mapsAPIKey string,
) SellerService {
	return &sellerService{
		sellerRepo:  sellerRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		mapsAPIKey:  mapsAPIKey,
	}
}

func (s *sellerService) CreateProfile(userID uint, shopName, bio, region, address string) (*model.SellerProfile, error) {
	logger.Info("Creating seller profile", map[string]interface{}{
		"user_id":   userID,
		"shop_name": shopName,
	})

	existing, err := s.sellerRepo.FindByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSellerAlreadyExists
	}

	profile := &model.SellerProfile{
		UserID:   userID,
		ShopName: shopName,
		Slug:     buildShopSlug(shopName),
		Bio:      bio,
		Region:   region,
		Address:  address,
	}

	s.geocodeProfile(profile)

	if err := s.sellerRepo.Create(profile); err != nil {
		logger.Error("Failed to create seller profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Seller profile created", map[string]interface{}{
		"user_id":   userID,
		"seller_id": profile.ID,
		"slug":      profile.Slug,
	})
	return profile, nil
}

func (s *sellerService) GetProfileByUserID(userID uint) (*model.SellerProfile, error) {
	profile, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *sellerService) GetProfileBySlug(slug string) (*model.SellerProfile, error) {
	profile, err := s.sellerRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *sellerService) UpdateProfile(userID uint, shopName, bio, region, address string) (*model.SellerProfile, error) {
	profile, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	if shopName != "" {
		profile.ShopName = shopName
	}
	if bio != "" {
		profile.Bio = bio
	}
	if region != "" {
		profile.Region = region
	}
	if address != "" && address != profile.Address {
		profile.Address = address
		s.geocodeProfile(profile)
	}

	if err := s.sellerRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *sellerService) GetDashboard(userID uint) (*DashboardStats, []model.Product, error) {
	profile, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotSeller
		}
		return nil, nil, err
	}

	products, err := s.productRepo.FindBySellerID(profile.ID)
	if err != nil {
		return nil, nil, err
	}

	orderItemCount, err := s.orderRepo.CountBySellerID(profile.ID)
	if err != nil {
		return nil, nil, err
	}

	stats := &DashboardStats{
		ProductCount:   int64(len(products)),
		OrderItemCount: orderItemCount,
		AverageRating:  profile.Rating,
	}
	for _, p := range products {
		stats.TotalViews += p.ViewCount
	}

	return stats, products, nil
}

// ExportCatalogXLSX renders the seller's catalog as a spreadsheet download
func (s *sellerService) ExportCatalogXLSX(userID uint) ([]byte, error) {
	profile, err := s.sellerRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotSeller
		}
		return nil, err
	}

	products, err := s.productRepo.FindBySellerID(profile.ID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Title", "Category", "Price", "Currency", "Stock", "Customizable", "Materials", "Rating", "Views"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range products {
		values := []interface{}{
			p.ID, p.Title, string(p.Category), p.Price, p.Currency,
			p.StockQuantity, p.Customizable, strings.Join(p.Materials, ", "),
			p.Rating, p.ViewCount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render catalog spreadsheet", err, map[string]interface{}{
			"seller_id": profile.ID,
		})
		return nil, err
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"seller_id": profile.ID,
		"products":  len(products),
	})
	return buf.Bytes(), nil
}

// geocodeProfile resolves the profile address to coordinates. Geocoding
// failures are logged and skipped; the profile saves without coordinates.
func (s *sellerService) geocodeProfile(profile *model.SellerProfile) {
	if profile.Address == "" || s.mapsAPIKey == "" {
		return
	}

	result, err := util.GeocodeAddress(profile.Address, s.mapsAPIKey)
	if err != nil {
		logger.Warn("Failed to geocode seller address", map[string]interface{}{
			"address": profile.Address,
			"error":   err.Error(),
		})
		return
	}
	if result != nil {
		profile.Latitude = &result.Latitude
		profile.Longitude = &result.Longitude
	}
}

func buildShopSlug(shopName string) string {
	slug := strings.ToLower(strings.TrimSpace(shopName))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "shop"
	}
	return fmt.Sprintf("%s-%s", slug, util.GenerateShopSlugSuffix())
}
