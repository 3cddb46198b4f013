package inventory

import (
	"context"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a
// reservation write touches. The capacity check and the reservation insert
// must run inside one scope so no other writer can observe an intermediate
// state.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped to
// the current transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// ReservationRepo returns the reservation repository scoped to the current transaction
	ReservationRepo() inventory.ReservationRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	productRepo     catalog.ProductRepository
	reservationRepo inventory.ReservationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	reservationRepo inventory.ReservationRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:     productRepo,
		reservationRepo: reservationRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// ReservationRepo returns the reservation repository.
func (s *NoOpTransactionScope) ReservationRepo() inventory.ReservationRepository {
	return s.reservationRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
