package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/shared"
)

// VariantMatchField names the single column a variant lookup filters on
type VariantMatchField string

const (
	MatchByVariantID VariantMatchField = "variant_id"
	MatchByLabel     VariantMatchField = "label"
)

// VariantMatch is a single-field predicate for variant lookups. Lookups
// never combine fields: a query filters on exactly one of variant_id or
// label, so the resolved addressing policy is visible in the SQL itself.
type VariantMatch struct {
	Field VariantMatchField
	Value string
}

// ProductRepository defines the persistence contract for the catalog aggregate
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindVariants returns the variants of a product matching the predicate.
	// Zero or multiple rows are returned as-is; the caller decides whether
	// that constitutes an error.
	FindVariants(ctx context.Context, productID uuid.UUID, match VariantMatch) ([]Variant, error)

	// FindVariantsForUpdate behaves like FindVariants but acquires a row
	// lock inside the ambient transaction.
	FindVariantsForUpdate(ctx context.Context, productID uuid.UUID, match VariantMatch) ([]Variant, error)

	// SaveVariant persists a single variant row
	SaveVariant(ctx context.Context, variant *Variant) error
}
