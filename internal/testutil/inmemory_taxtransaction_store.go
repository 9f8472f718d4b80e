package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/salestax/internal/domain/taxtransaction"
	ierr "github.com/flexprice/salestax/internal/errors"
)

// InMemoryTaxTransactionStore enforces one record per order the way the
// unique index does.
type InMemoryTaxTransactionStore struct {
	*InMemoryStore[*taxtransaction.TaxTransaction]
	mu      sync.Mutex
	byOrder map[string]string
}

func NewInMemoryTaxTransactionStore() *InMemoryTaxTransactionStore {
	return &InMemoryTaxTransactionStore{
		InMemoryStore: NewInMemoryStore[*taxtransaction.TaxTransaction](),
		byOrder:       make(map[string]string),
	}
}

func (s *InMemoryTaxTransactionStore) Create(ctx context.Context, txn *taxtransaction.TaxTransaction) error {
	if txn == nil {
		return ierr.NewError("tax transaction cannot be nil").
			WithHint("Tax transaction cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byOrder[txn.OrderID]; exists {
		return ierr.NewErrorf("duplicate key value violates unique constraint for order %s", txn.OrderID).
			WithHintf("A tax transaction already exists for order %s", txn.OrderID).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, txn.ID, txn); err != nil {
		return err
	}
	s.byOrder[txn.OrderID] = txn.ID
	return nil
}

func (s *InMemoryTaxTransactionStore) Get(ctx context.Context, id string) (*taxtransaction.TaxTransaction, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryTaxTransactionStore) GetByOrderID(ctx context.Context, orderID string) (*taxtransaction.TaxTransaction, error) {
	s.mu.Lock()
	id, exists := s.byOrder[orderID]
	s.mu.Unlock()

	if !exists {
		return nil, ierr.NewError("tax transaction not found").
			WithHint("Tax transaction not found").
			WithReportableDetails(map[string]any{
				"order_id": orderID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryTaxTransactionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InMemoryStore.Clear()
	s.byOrder = make(map[string]string)
}
