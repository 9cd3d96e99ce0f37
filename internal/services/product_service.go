package services

import (
	"database/sql"
	"errors"
	"fmt"

	"farmlink-backend/internal/database"
	"farmlink-backend/internal/models"
	"farmlink-backend/internal/policy"

	"github.com/google/uuid"
)

const productsPerPage = 12

type ProductService struct {
	db *database.DB
}

func NewProductService(db *database.DB) *ProductService {
	return &ProductService{db: db}
}

type NewProduct struct {
	Name        string
	Category    string
	Description string
	Price       float64
	Quantity    int
	Location    string
	Contact     string
	Image       string
}

// ListProducts returns one page of products, newest first, optionally
// filtered by category. An unknown category is ErrInvalidInput.
func (s *ProductService) ListProducts(page int, category string) ([]models.Product, bool, error) {
	if page < 1 {
		page = 1
	}

	query := `
		select p.*, u.username as seller_name
		from products p
		join users u on u.id = p.user_id
	`
	args := []interface{}{productsPerPage + 1, (page - 1) * productsPerPage}
	if category != "" {
		if _, ok := models.ParseProductCategory(category); !ok {
			return nil, false, fmt.Errorf("%w: category %q", ErrInvalidInput, category)
		}
		query += " where p.category = $3"
		args = append(args, category)
	}
	query += " order by p.created_at desc limit $1 offset $2"

	products := []models.Product{}
	if err := s.db.Select(&products, query, args...); err != nil {
		return nil, false, fmt.Errorf("failed to list products: %w", err)
	}

	hasNext := len(products) > productsPerPage
	if hasNext {
		products = products[:productsPerPage]
	}
	return products, hasNext, nil
}

// CreateProduct lists a product on the marketplace. Only farmers and vendors
// may do so.
func (s *ProductService) CreateProduct(actor *models.User, input NewProduct) (*models.Product, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: create product", ErrUnauthorized)
	}
	if !policy.Allowed(actor, policy.ActionCreateProduct, policy.Target{}) {
		return nil, fmt.Errorf("%w: only farmers and vendors can list products", ErrForbidden)
	}

	category, ok := models.ParseProductCategory(input.Category)
	if !ok {
		return nil, fmt.Errorf("%w: category %q", ErrInvalidInput, input.Category)
	}
	if input.Price < 0 || input.Quantity < 1 {
		return nil, fmt.Errorf("%w: price must be non-negative and quantity positive", ErrInvalidInput)
	}

	var product models.Product
	query := `
		insert into products (name, category, description, price, quantity, location, contact, user_id, product_image)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		returning *
	`
	err := s.db.Get(&product, query,
		input.Name, category, input.Description, input.Price, input.Quantity,
		input.Location, input.Contact, actor.ID, input.Image,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product.SellerName = actor.Username
	return &product, nil
}

func (s *ProductService) GetProduct(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	query := `
		select p.*, u.username as seller_name
		from products p
		join users u on u.id = p.user_id
		where p.id = $1
	`
	if err := s.db.Get(&product, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// DeleteProduct removes a listing. Allowed for the owner and for admins. The
// replaced image reference is returned for file cleanup.
func (s *ProductService) DeleteProduct(actor *models.User, productID uuid.UUID) (string, error) {
	var product models.Product
	if err := s.db.Get(&product, "select * from products where id = $1", productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: product", ErrNotFound)
		}
		return "", fmt.Errorf("failed to get product: %w", err)
	}

	if !policy.Allowed(actor, policy.ActionDeleteProduct, policy.Target{OwnerID: product.UserID}) {
		return "", fmt.Errorf("%w: delete product", ErrForbidden)
	}

	if _, err := s.db.Exec("delete from products where id = $1", productID); err != nil {
		return "", fmt.Errorf("failed to delete product: %w", err)
	}

	return product.ProductImage, nil
}
