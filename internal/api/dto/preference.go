package dto

import (
	"encoding/json"
	"strings"

	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/flexprice/salestax/internal/domain/preference"
	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/spf13/cast"
)

type UpdatePreferenceRequest struct {
	Value string `json:"value"`
}

// ValidateFor checks value against the format expected by key
func (r *UpdatePreferenceRequest) ValidateFor(key string) error {
	if !preference.IsKnownKey(key) {
		return ierr.NewErrorf("unknown preference %q", key).
			WithHintf("Preference must be one of %s", strings.Join(preference.Keys, ", ")).
			WithReportableDetails(map[string]any{
				"key": key,
			}).
			Mark(ierr.ErrValidation)
	}

	switch key {
	case preference.KeyTaxCalculation, preference.KeyDocumentCommit:
		if _, err := cast.ToBoolE(r.Value); err != nil {
			return ierr.WithError(err).
				WithHintf("%s must be true or false", key).
				Mark(ierr.ErrValidation)
		}
	case preference.KeyOrigin:
		if r.Value == "" {
			return nil
		}
		var addr order.Address
		if err := json.Unmarshal([]byte(r.Value), &addr); err != nil {
			return ierr.WithError(err).
				WithHint("Origin must be a JSON encoded address").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

type PreferenceResponse struct {
	*preference.Preference
}

// ListPreferencesResponse never echoes the license key
type ListPreferencesResponse struct {
	Items []*PreferenceResponse `json:"items"`
}

// RedactedValue is returned in place of secrets
const RedactedValue = "********"

func NewPreferenceResponse(p *preference.Preference) *PreferenceResponse {
	if p.Key == preference.KeyLicenseKey && p.Value != "" {
		redacted := *p
		redacted.Value = RedactedValue
		return &PreferenceResponse{Preference: &redacted}
	}
	return &PreferenceResponse{Preference: p}
}
