package persistence

import (
	"context"
	"strings"

	"gorm.io/gorm"

	appinv "github.com/shopadmin/backend/internal/application/inventory"
	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/inventory"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed. Store-level
// serialization failures and deadlocks surface as a transaction abort so
// callers can apply their retry policy.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
	if err != nil && isTransactionAbort(err) {
		return shared.ErrTransactionAborted
	}
	return err
}

// isTransactionAbort reports whether the store rejected the transaction for
// a reason that a retry can resolve. PostgreSQL signals these with SQLSTATE
// 40001 (serialization_failure) and 40P01 (deadlock_detected).
func isTransactionAbort(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") ||
		strings.Contains(msg, "SQLSTATE 40P01") ||
		strings.Contains(msg, "deadlock")
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// ReservationRepo returns the reservation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ReservationRepo() inventory.ReservationRepository {
	return NewGormReservationRepository(r.tx)
}

var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
