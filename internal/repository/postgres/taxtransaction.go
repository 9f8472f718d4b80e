package postgres

import (
	"context"
	"database/sql"

	"github.com/flexprice/salestax/internal/domain/taxtransaction"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/postgres"
)

type taxTransactionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTaxTransactionRepository(db *postgres.DB, logger *logger.Logger) taxtransaction.Repository {
	return &taxTransactionRepository{db: db, logger: logger}
}

func (r *taxTransactionRepository) Create(ctx context.Context, txn *taxtransaction.TaxTransaction) error {
	query := `
		INSERT INTO tax_transactions (
			id, order_id, tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :order_id, :tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, txn)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("A tax transaction already exists for order %s", txn.OrderID).
				WithReportableDetails(map[string]any{
					"order_id": txn.OrderID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create tax transaction").
			Mark(ierr.ErrDatabase)
	}

	r.logger.Debugw("created tax transaction", "id", txn.ID, "order_id", txn.OrderID)
	return nil
}

func (r *taxTransactionRepository) Get(ctx context.Context, id string) (*taxtransaction.TaxTransaction, error) {
	query := `SELECT * FROM tax_transactions WHERE id = $1`
	return r.getOne(ctx, query, "id", id)
}

func (r *taxTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*taxtransaction.TaxTransaction, error) {
	query := `SELECT * FROM tax_transactions WHERE order_id = $1`
	return r.getOne(ctx, query, "order_id", orderID)
}

func (r *taxTransactionRepository) getOne(ctx context.Context, query, field, value string) (*taxtransaction.TaxTransaction, error) {
	var txn taxtransaction.TaxTransaction
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &txn, query, value); err != nil {
		if ierr.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHint("Tax transaction not found").
				WithReportableDetails(map[string]any{
					field: value,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tax transaction").
			Mark(ierr.ErrDatabase)
	}
	return &txn, nil
}
