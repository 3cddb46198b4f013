package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Save persists the product and its variants
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(product).Error
}

// FindByID finds a product by its ID, with variants in display order
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds products matching the filter, with a total count
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := "created_at"
	if filter.OrderBy != "" {
		switch filter.OrderBy {
		case "name", "created_at", "updated_at":
			orderBy = filter.OrderBy
		}
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}

	var products []catalog.Product
	if err := query.
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order(fmt.Sprintf("%s %s", orderBy, dir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Delete removes a product; variants cascade
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindVariants returns the variants of a product matching the predicate.
// The query filters on exactly one column; the other addressing column
// never appears in the SQL.
func (r *GormProductRepository) FindVariants(ctx context.Context, productID uuid.UUID, match catalog.VariantMatch) ([]catalog.Variant, error) {
	return r.findVariants(ctx, productID, match, false)
}

// FindVariantsForUpdate behaves like FindVariants but locks the matched rows
// for the duration of the ambient transaction
func (r *GormProductRepository) FindVariantsForUpdate(ctx context.Context, productID uuid.UUID, match catalog.VariantMatch) ([]catalog.Variant, error) {
	return r.findVariants(ctx, productID, match, true)
}

func (r *GormProductRepository) findVariants(ctx context.Context, productID uuid.UUID, match catalog.VariantMatch, forUpdate bool) ([]catalog.Variant, error) {
	column, err := variantMatchColumn(match.Field)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Where(column+" = ?", match.Value)

	// SQLite has no SELECT ... FOR UPDATE; its writes are serialized anyway
	if forUpdate && r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var variants []catalog.Variant
	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// SaveVariant persists a single variant row
func (r *GormProductRepository) SaveVariant(ctx context.Context, variant *catalog.Variant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// variantMatchColumn maps a match field to its column, rejecting anything
// outside the two addressing schemes
func variantMatchColumn(field catalog.VariantMatchField) (string, error) {
	switch field {
	case catalog.MatchByVariantID:
		return "variant_id", nil
	case catalog.MatchByLabel:
		return "label", nil
	default:
		return "", shared.ErrAddressing
	}
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
