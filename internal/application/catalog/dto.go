package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopadmin/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// AddVariantRequest represents a request to add a variant to a product
type AddVariantRequest struct {
	Label             string          `json:"label" binding:"required,min=1,max=200"`
	Inventory         int64           `json:"inventory" binding:"min=0"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold int64           `json:"low_stock_threshold" binding:"min=0"`
}

// RenameVariantLabelRequest represents a request to rename a variant's label
type RenameVariantLabelRequest struct {
	Label string `json:"label" binding:"required,min=1,max=200"`
}

// UpdateVariantPriceRequest represents a request to change a variant's price
type UpdateVariantPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// VariantResponse represents a variant in API responses
type VariantResponse struct {
	VariantID         string          `json:"variant_id"`
	Label             string          `json:"label"`
	Inventory         int64           `json:"inventory"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold int64           `json:"low_stock_threshold"`
	Position          int             `json:"position"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResponse represents a page of products
type ProductListResponse struct {
	Items    []ProductResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func toVariantResponse(v *catalog.Variant) VariantResponse {
	return VariantResponse{
		VariantID:         v.VariantID,
		Label:             v.Label,
		Inventory:         v.Inventory,
		Price:             v.Price,
		LowStockThreshold: v.LowStockThreshold,
		Position:          v.Position,
	}
}

func toProductResponse(p *catalog.Product) *ProductResponse {
	variants := make([]VariantResponse, 0, len(p.Variants))
	for i := range p.Variants {
		variants = append(variants, toVariantResponse(&p.Variants[i]))
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
