package postgres

import (
	"context"

	"github.com/flexprice/salestax/internal/domain/preference"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/postgres"
)

type preferenceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPreferenceRepository(db *postgres.DB, logger *logger.Logger) preference.Repository {
	return &preferenceRepository{db: db, logger: logger}
}

func (r *preferenceRepository) List(ctx context.Context) ([]*preference.Preference, error) {
	query := `SELECT key, value, updated_at FROM tax_preferences ORDER BY key`

	var prefs []*preference.Preference
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &prefs, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list preferences").
			Mark(ierr.ErrDatabase)
	}
	return prefs, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, pref *preference.Preference) error {
	query := `
		INSERT INTO tax_preferences (key, value, updated_at)
		VALUES (:key, :value, :updated_at)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, pref); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to save preference").
			WithReportableDetails(map[string]any{
				"key": pref.Key,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}
