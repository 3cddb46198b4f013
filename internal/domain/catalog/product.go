package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is the aggregate root for the catalog. Variants are child entities
// ordered by Position; all variant mutations go through the aggregate.
type Product struct {
	shared.BaseEntity
	Name        string        `gorm:"type:varchar(200);not null"`
	Description string        `gorm:"type:text"`
	Status      ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Variants    []Variant     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// Variant represents a sellable variation of a product.
//
// A variant is addressable two ways: by VariantID, a stable opaque identifier
// assigned at creation and never reused, and by Label, a human-readable name
// that is mutable and unique within its product but not globally. Both remain
// populated while the label addressing scheme is being rolled out.
type Variant struct {
	shared.BaseEntity
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_variants_product"`
	VariantID         string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Label             string          `gorm:"type:varchar(200);not null;index:idx_variants_product_label"`
	Inventory         int64           `gorm:"not null;default:0"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LowStockThreshold int64           `gorm:"not null;default:0"`
	Position          int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "variants"
}

// NewProduct creates a new product with no variants
func NewProduct(name string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Status:     ProductStatusActive,
	}, nil
}

// AddVariant appends a new variant with a freshly assigned opaque VariantID.
// The label must be unique among the product's current variants.
func (p *Product) AddVariant(label string, inventory int64, price decimal.Decimal) (*Variant, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Variant label is required")
	}
	if inventory < 0 {
		return nil, shared.NewDomainError("INVALID_INVENTORY", "Inventory cannot be negative")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	for i := range p.Variants {
		if p.Variants[i].Label == label {
			return nil, shared.NewDomainError("DUPLICATE_LABEL", "A variant with this label already exists")
		}
	}

	v := Variant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		VariantID:  newVariantID(),
		Label:      label,
		Inventory:  inventory,
		Price:      price,
		Position:   len(p.Variants),
	}
	p.Variants = append(p.Variants, v)
	p.UpdatedAt = time.Now()
	return &p.Variants[len(p.Variants)-1], nil
}

// RenameVariantLabel changes a variant's label, keeping per-product uniqueness.
// The VariantID is untouched; only the label addressing scheme is affected.
func (p *Product) RenameVariantLabel(variantID, newLabel string) error {
	newLabel = strings.TrimSpace(newLabel)
	if newLabel == "" {
		return shared.NewDomainError("INVALID_LABEL", "Variant label is required")
	}
	var target *Variant
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			target = &p.Variants[i]
		} else if p.Variants[i].Label == newLabel {
			return shared.NewDomainError("DUPLICATE_LABEL", "A variant with this label already exists")
		}
	}
	if target == nil {
		return shared.ErrNotFound
	}
	target.Label = newLabel
	target.UpdatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return nil
}

// VariantByID returns the variant with the given opaque identifier
func (p *Product) VariantByID(variantID string) (*Variant, error) {
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// Archive marks the product as archived
func (p *Product) Archive() {
	p.Status = ProductStatusArchived
	p.UpdatedAt = time.Now()
}

// SetPrice updates the variant's price
func (v *Variant) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	v.Price = price
	v.UpdatedAt = time.Now()
	return nil
}

// SetInventory replaces the raw on-hand count (manual adjustment)
func (v *Variant) SetInventory(count int64) error {
	if count < 0 {
		return shared.NewDomainError("INVALID_INVENTORY", "Inventory cannot be negative")
	}
	v.Inventory = count
	v.UpdatedAt = time.Now()
	return nil
}

// DeductInventory permanently removes quantity from the raw count
func (v *Variant) DeductInventory(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if v.Inventory < quantity {
		return shared.ErrInsufficientStock
	}
	v.Inventory -= quantity
	v.UpdatedAt = time.Now()
	return nil
}

// SetLowStockThreshold updates the alerting threshold
func (v *Variant) SetLowStockThreshold(threshold int64) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}
	v.LowStockThreshold = threshold
	v.UpdatedAt = time.Now()
	return nil
}

// newVariantID assigns a stable opaque identifier. IDs are never reused, so
// they are derived from a fresh UUID rather than the variant's position.
func newVariantID() string {
	return "var-" + uuid.NewString()
}
