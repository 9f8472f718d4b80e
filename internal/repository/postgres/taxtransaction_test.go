package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flexprice/salestax/internal/domain/taxtransaction"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/postgres"
	postgresRepo "github.com/flexprice/salestax/internal/repository/postgres"
	"github.com/flexprice/salestax/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
)

var transactionColumns = []string{
	"id", "order_id", "tenant_id", "status", "created_at", "updated_at", "created_by", "updated_by",
}

type TaxTransactionRepositorySuite struct {
	suite.Suite
	ctx  context.Context
	mock sqlmock.Sqlmock
	db   *postgres.DB
	repo taxtransaction.Repository
}

func TestTaxTransactionRepository(t *testing.T) {
	suite.Run(t, new(TaxTransactionRepositorySuite))
}

func (s *TaxTransactionRepositorySuite) SetupTest() {
	conn, mock, err := sqlmock.New()
	s.Require().NoError(err)

	log := logger.NewNoopLogger()
	s.ctx = testutil.SetupContext()
	s.mock = mock
	s.db = postgres.NewFromSqlx(sqlx.NewDb(conn, "postgres"), log)
	s.repo = postgresRepo.NewTaxTransactionRepository(s.db, log)
}

func (s *TaxTransactionRepositorySuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *TaxTransactionRepositorySuite) TestCreate() {
	txn := taxtransaction.New(s.ctx, "ord_1")
	s.mock.ExpectExec(`INSERT INTO tax_transactions`).
		WithArgs(txn.ID, "ord_1", txn.TenantID, txn.Status, txn.CreatedAt, txn.UpdatedAt, txn.CreatedBy, txn.UpdatedBy).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Create(s.ctx, txn))
}

func (s *TaxTransactionRepositorySuite) TestCreateDuplicateOrder() {
	s.mock.ExpectExec(`INSERT INTO tax_transactions`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_tax_transactions_order_id"})

	err := s.repo.Create(s.ctx, taxtransaction.New(s.ctx, "ord_1"))

	s.True(ierr.IsAlreadyExists(err))
	s.False(ierr.Is(err, ierr.ErrDatabase))
}

func (s *TaxTransactionRepositorySuite) TestCreateOtherFailure() {
	s.mock.ExpectExec(`INSERT INTO tax_transactions`).
		WillReturnError(errors.New("connection reset"))

	err := s.repo.Create(s.ctx, taxtransaction.New(s.ctx, "ord_1"))

	s.True(ierr.Is(err, ierr.ErrDatabase))
	s.False(ierr.IsAlreadyExists(err))
}

func (s *TaxTransactionRepositorySuite) TestGetByOrderID() {
	now := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	s.mock.ExpectQuery(`SELECT \* FROM tax_transactions WHERE order_id = \$1`).
		WithArgs("ord_1").
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow("taxtxn_1", "ord_1", "tenant_1", "published", now, now, "usr_1", "usr_1"))

	txn, err := s.repo.GetByOrderID(s.ctx, "ord_1")
	s.Require().NoError(err)

	s.Equal("taxtxn_1", txn.ID)
	s.Equal("ord_1", txn.OrderID)
	s.Equal("tenant_1", txn.TenantID)
	s.Equal(now, txn.CreatedAt)
}

func (s *TaxTransactionRepositorySuite) TestGetNotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM tax_transactions WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	_, err := s.repo.Get(s.ctx, "missing")

	s.True(ierr.IsNotFound(err))
}

func (s *TaxTransactionRepositorySuite) TestCreateInsideTransaction() {
	txn := taxtransaction.New(s.ctx, "ord_1")
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO tax_transactions`).
		WillReturnError(&pq.Error{Code: "23505"})
	s.mock.ExpectRollback()

	err := s.db.WithTx(s.ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, txn)
	})

	s.True(ierr.IsAlreadyExists(err))
}
