package util

import (
	"fmt"
	"math/rand"
)

// GenerateShopSlugSuffix returns a short numeric suffix used to keep
// auto-generated shop slugs unique
func GenerateShopSlugSuffix() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}
