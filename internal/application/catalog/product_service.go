package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// ProductService handles catalog management operations
type ProductService struct {
	products catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// CreateProduct creates a new product without variants
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetProduct returns a product with its variants
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ListProducts returns a page of products
func (s *ProductService) ListProducts(ctx context.Context, filter ProductListFilter) (*ProductListResponse, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}
	products, total, err := s.products.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *toProductResponse(&products[i]))
	}
	return &ProductListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: f.Limit(),
	}, nil
}

// AddVariant adds a variant to an existing product
func (s *ProductService) AddVariant(ctx context.Context, productID uuid.UUID, req AddVariantRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	variant, err := product.AddVariant(req.Label, req.Inventory, req.Price)
	if err != nil {
		return nil, err
	}
	if err := variant.SetLowStockThreshold(req.LowStockThreshold); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// RenameVariantLabel changes a variant's human-readable label. Callers that
// cached availability under the old label shape pick up the new one on
// their next miss; the inventory service invalidates on mutation, not here.
func (s *ProductService) RenameVariantLabel(ctx context.Context, productID uuid.UUID, variantID string, req RenameVariantLabelRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.RenameVariantLabel(variantID, req.Label); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// UpdateVariantPrice changes a variant's price
func (s *ProductService) UpdateVariantPrice(ctx context.Context, productID uuid.UUID, variantID string, req UpdateVariantPriceRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	variant, err := product.VariantByID(variantID)
	if err != nil {
		return nil, err
	}
	if err := variant.SetPrice(req.Price); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// DeleteProduct removes a product and its variants
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}
