package preference

import (
	"time"

	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/samber/lo"
)

// Preference keys stored in the preference table
const (
	KeyCompanyCode    = "company_code"
	KeyTaxCalculation = "tax_calculation"
	KeyDocumentCommit = "document_commit"
	KeyEndpoint       = "endpoint"
	KeyAccount        = "account"
	KeyLicenseKey     = "license_key"
	KeyOrigin         = "origin"
)

// Keys lists every key accepted by the store
var Keys = []string{
	KeyCompanyCode,
	KeyTaxCalculation,
	KeyDocumentCommit,
	KeyEndpoint,
	KeyAccount,
	KeyLicenseKey,
	KeyOrigin,
}

// IsKnownKey reports whether key is a supported preference
func IsKnownKey(key string) bool {
	return lo.Contains(Keys, key)
}

// Preference is a raw key/value row
type Preference struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Settings is an immutable snapshot of the tax preferences taken at the
// start of a call. Everything downstream reads toggles and credentials from
// it instead of going back to the store.
type Settings struct {
	CompanyCode    string
	TaxCalculation bool
	DocumentCommit bool
	Endpoint       string
	Account        string
	LicenseKey     string
	ClientVersion  string
	Origin         *order.Address
}

// Clone returns a copy that shares nothing with s
func (s Settings) Clone() *Settings {
	c := s
	if s.Origin != nil {
		origin := *s.Origin
		c.Origin = &origin
	}
	return &c
}
