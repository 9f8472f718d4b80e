package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/flexprice/salestax/internal/api/dto"
	"github.com/flexprice/salestax/internal/cache"
	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/flexprice/salestax/internal/domain/preference"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// PreferenceService reads and writes the tax preferences. GetSettings is the
// only way the tax calls see toggles and credentials.
type PreferenceService interface {
	GetSettings(ctx context.Context) (*preference.Settings, error)
	ListPreferences(ctx context.Context) (*dto.ListPreferencesResponse, error)
	UpdatePreference(ctx context.Context, key string, req dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error)
}

type preferenceService struct {
	ServiceParams
}

func NewPreferenceService(params ServiceParams) PreferenceService {
	return &preferenceService{
		ServiceParams: params,
	}
}

// Preferences are global, so there is a single snapshot to cache
var settingsCacheKey = cache.GenerateKey(cache.PrefixTaxSettings, "current")

// GetSettings layers stored preferences over the configured defaults and
// returns a snapshot the caller owns.
func (s *preferenceService) GetSettings(ctx context.Context) (*preference.Settings, error) {
	key := settingsCacheKey
	if cached, found := s.Cache.Get(ctx, key); found {
		if settings, ok := cached.(*preference.Settings); ok {
			return settings.Clone(), nil
		}
	}

	prefs, err := s.PreferenceRepo.List(ctx)
	if err != nil {
		s.Logger.Errorw("failed to list preferences", "error", err)
		return nil, err
	}

	settings, err := s.buildSettings(prefs)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, settings, s.Config.Cache.PreferenceTTL)
	return settings.Clone(), nil
}

func (s *preferenceService) buildSettings(prefs []*preference.Preference) (*preference.Settings, error) {
	cfg := s.Config.Avatax
	settings := &preference.Settings{
		CompanyCode:    cfg.CompanyCode,
		TaxCalculation: cfg.TaxCalculation,
		DocumentCommit: cfg.DocumentCommit,
		Endpoint:       cfg.Endpoint,
		Account:        cfg.Account,
		LicenseKey:     cfg.LicenseKey,
		ClientVersion:  cfg.ClientVersion,
	}

	origin := cfg.Origin
	for _, p := range prefs {
		switch p.Key {
		case preference.KeyCompanyCode:
			settings.CompanyCode = p.Value
		case preference.KeyTaxCalculation:
			settings.TaxCalculation = cast.ToBool(p.Value)
		case preference.KeyDocumentCommit:
			settings.DocumentCommit = cast.ToBool(p.Value)
		case preference.KeyEndpoint:
			settings.Endpoint = p.Value
		case preference.KeyAccount:
			settings.Account = p.Value
		case preference.KeyLicenseKey:
			settings.LicenseKey = p.Value
		case preference.KeyOrigin:
			origin = p.Value
		default:
			s.Logger.Warnw("ignoring unknown preference", "key", p.Key)
		}
	}

	if strings.TrimSpace(origin) != "" {
		var addr order.Address
		if err := json.Unmarshal([]byte(origin), &addr); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Stored origin address is not valid JSON").
				Mark(ierr.ErrSystem)
		}
		settings.Origin = &addr
	}

	return settings, nil
}

func (s *preferenceService) ListPreferences(ctx context.Context) (*dto.ListPreferencesResponse, error) {
	prefs, err := s.PreferenceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListPreferencesResponse{
		Items: lo.Map(prefs, func(p *preference.Preference, _ int) *dto.PreferenceResponse {
			return dto.NewPreferenceResponse(p)
		}),
	}, nil
}

// UpdatePreference stores a value and drops the cached snapshot so the next
// call sees it.
func (s *preferenceService) UpdatePreference(ctx context.Context, key string, req dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	if err := req.ValidateFor(key); err != nil {
		return nil, err
	}

	value := req.Value
	if key == preference.KeyTaxCalculation || key == preference.KeyDocumentCommit {
		value = cast.ToString(cast.ToBool(value))
	}

	pref := &preference.Preference{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.PreferenceRepo.Upsert(ctx, pref); err != nil {
		s.Logger.Errorw("failed to update preference", "error", err, "key", key)
		return nil, err
	}

	s.Cache.Delete(ctx, settingsCacheKey)
	s.Logger.Infow("preference updated", "key", key)
	return dto.NewPreferenceResponse(pref), nil
}
