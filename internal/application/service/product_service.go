package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/internal/domain/repository"
	"github.com/kiprotich/tillpoint-api/pkg/apperror"
	"github.com/kiprotich/tillpoint-api/pkg/money"
)

// ProductService manages the product catalog
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name         string
	Code         string
	Stock        int
	StockAlert   int
	SellingPrice float64
	TaxRate      int
	Notes        *string
}

// UpdateProductInput represents the update product input. Nil fields are left
// unchanged.
type UpdateProductInput struct {
	Name         *string
	Stock        *int
	StockAlert   *int
	SellingPrice *float64
	TaxRate      *int
	Notes        *string
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, apperror.NewBadRequestError("Product code is required")
	}
	if input.SellingPrice < 0 {
		return nil, apperror.NewBadRequestError("Selling price cannot be negative")
	}
	if input.TaxRate < 0 || input.TaxRate > 100 {
		return nil, apperror.NewBadRequestError("Tax rate must be between 0 and 100")
	}

	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code " + code + " already exists")
	}

	product := &entity.Product{
		Name:         strings.TrimSpace(input.Name),
		Code:         code,
		Stock:        input.Stock,
		StockAlert:   input.StockAlert,
		SellingPrice: money.ToCents(input.SellingPrice),
		TaxRate:      input.TaxRate,
		Notes:        input.Notes,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct returns a product by id
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProduct applies a partial update to a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperror.NewBadRequestError("Stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.StockAlert != nil {
		product.StockAlert = *input.StockAlert
	}
	if input.SellingPrice != nil {
		if *input.SellingPrice < 0 {
			return nil, apperror.NewBadRequestError("Selling price cannot be negative")
		}
		product.SellingPrice = money.ToCents(*input.SellingPrice)
	}
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 100 {
			return nil, apperror.NewBadRequestError("Tax rate must be between 0 and 100")
		}
		product.TaxRate = *input.TaxRate
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts returns a filtered, paginated product listing
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return s.productRepo.List(ctx, params)
}

// SearchProducts returns quick lookup matches for the register screen.
func (s *ProductService) SearchProducts(ctx context.Context, query string, limit int) ([]entity.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.Product{}, nil
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return s.productRepo.Search(ctx, query, limit)
}

// GetLowStockProducts returns products at or below their alert level
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}
