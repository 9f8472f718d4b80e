package repository

import (
	"github.com/flexprice/salestax/internal/domain/preference"
	"github.com/flexprice/salestax/internal/domain/taxtransaction"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/postgres"
	postgresRepo "github.com/flexprice/salestax/internal/repository/postgres"
)

type RepositoryType string

const (
	PostgresRepo RepositoryType = "postgres"
)

func NewTaxTransactionRepository(db *postgres.DB, logger *logger.Logger) taxtransaction.Repository {
	return postgresRepo.NewTaxTransactionRepository(db, logger)
}

func NewPreferenceRepository(db *postgres.DB, logger *logger.Logger) preference.Repository {
	return postgresRepo.NewPreferenceRepository(db, logger)
}
