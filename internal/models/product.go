package models

import (
	"time"

	"github.com/google/uuid"
)

type ProductCategory string

const (
	CategoryVegetables ProductCategory = "vegetables"
	CategoryFruits     ProductCategory = "fruits"
	CategoryGrains     ProductCategory = "grains"
	CategoryDairy      ProductCategory = "dairy"
	CategorySpecialty  ProductCategory = "specialty"
	CategoryInputs     ProductCategory = "inputs"
)

func ParseProductCategory(s string) (ProductCategory, bool) {
	switch ProductCategory(s) {
	case CategoryVegetables, CategoryFruits, CategoryGrains, CategoryDairy, CategorySpecialty, CategoryInputs:
		return ProductCategory(s), true
	}
	return "", false
}

type Product struct {
	ID uuid.UUID `db:"id" json:"id"`

	Name        string          `db:"name" json:"name"`
	Category    ProductCategory `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	Price       float64         `db:"price" json:"price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Location    string          `db:"location" json:"location"`
	Contact     string          `db:"contact" json:"contact"`

	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	ProductImage string    `db:"product_image" json:"product_image"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`

	SellerName string `db:"seller_name" json:"seller_name"`
}
