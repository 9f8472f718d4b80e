package preference

import (
	"context"
)

// Repository stores preferences as string values
type Repository interface {
	List(ctx context.Context) ([]*Preference, error)
	Upsert(ctx context.Context, pref *Preference) error
}
