package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/amirtishiva/craftbiz-backend/config"
	"github.com/amirtishiva/craftbiz-backend/internal/app/model"
	"github.com/amirtishiva/craftbiz-backend/internal/app/repository"
	"github.com/amirtishiva/craftbiz-backend/internal/db"
	"github.com/amirtishiva/craftbiz-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Seeds the catalog from an XLSX sheet. Expected columns, in order:
// seller_email, shop_name, region, title, description, category, price,
// stock, customizable, materials (comma separated). The first row is a
// header and is skipped. Sellers are created on first sight with a default
// password that must be rotated before any real use.

const defaultSeedPassword = "craftbiz-seed"

type seedRow struct {
	sellerEmail  string
	shopName     string
	region       string
	title        string
	description  string
	category     string
	price        float64
	stock        int
	customizable bool
	materials    []string
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	sellerRepo := repository.NewSellerRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readSeedRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	sellerCache := make(map[string]uint) // seller email -> profile ID
	imported := 0

	for i, row := range rows {
		sellerID, ok := sellerCache[row.sellerEmail]
		if !ok {
			sellerID, err = ensureSeller(userRepo, sellerRepo, row)
			if err != nil {
				log.Printf("Row %d: failed to resolve seller %s: %v", i+2, row.sellerEmail, err)
				continue
			}
			sellerCache[row.sellerEmail] = sellerID
		}

		product := &model.Product{
			SellerID:      sellerID,
			Title:         row.title,
			Description:   row.description,
			Category:      model.ProductCategory(row.category),
			Price:         row.price,
			StockQuantity: row.stock,
			Customizable:  row.customizable,
			Materials:     row.materials,
		}
		if err := productRepo.Create(product); err != nil {
			log.Printf("Row %d: failed to create product %q: %v", i+2, row.title, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed.")
	fmt.Printf("Products imported: %d of %d\n", imported, len(rows))
}

func ensureSeller(userRepo repository.UserRepository, sellerRepo repository.SellerRepository, row seedRow) (uint, error) {
	user, err := userRepo.FindByEmail(row.sellerEmail)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}

		hash, err := util.HashPassword(defaultSeedPassword)
		if err != nil {
			return 0, err
		}
		user = &model.User{
			Email:        row.sellerEmail,
			PasswordHash: hash,
			Name:         row.shopName,
			Role:         model.RoleSeller,
		}
		if err := userRepo.Create(user); err != nil {
			return 0, err
		}
	}

	profile, err := sellerRepo.FindByUserID(user.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}

		profile = &model.SellerProfile{
			UserID:   user.ID,
			ShopName: row.shopName,
			Slug:     slugify(row.shopName) + "-" + util.GenerateShopSlugSuffix(),
			Region:   row.region,
		}
		if err := sellerRepo.Create(profile); err != nil {
			return 0, err
		}
	}

	return profile.ID, nil
}

func readSeedRows(filePath string) ([]seedRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet has no data rows")
	}

	var result []seedRow
	for i, cells := range rows[1:] {
		if len(cells) < 8 {
			log.Printf("Row %d: skipping, expected at least 8 columns, got %d", i+2, len(cells))
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(cells[6]), 64)
		if err != nil || price <= 0 {
			log.Printf("Row %d: skipping, invalid price %q", i+2, cells[6])
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(cells[7]))
		if err != nil || stock < 0 {
			stock = 0
		}

		row := seedRow{
			sellerEmail: strings.TrimSpace(cells[0]),
			shopName:    strings.TrimSpace(cells[1]),
			region:      strings.TrimSpace(cells[2]),
			title:       strings.TrimSpace(cells[3]),
			description: strings.TrimSpace(cells[4]),
			category:    strings.ToLower(strings.TrimSpace(cells[5])),
			price:       price,
			stock:       stock,
		}
		if row.sellerEmail == "" || row.title == "" {
			log.Printf("Row %d: skipping, seller email and title are required", i+2)
			continue
		}

		if len(cells) > 8 {
			row.customizable, _ = strconv.ParseBool(strings.TrimSpace(cells[8]))
		}
		if len(cells) > 9 {
			for _, m := range strings.Split(cells[9], ",") {
				if m = strings.TrimSpace(m); m != "" {
					row.materials = append(row.materials, strings.ToLower(m))
				}
			}
		}

		result = append(result, row)
	}

	return result, nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "shop"
	}
	return out
}
