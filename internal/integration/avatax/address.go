package avatax

import (
	"net/url"

	"github.com/flexprice/salestax/internal/domain/order"
	"github.com/samber/lo"
)

// NewAddress converts a storefront address into an address line tagged with code
func NewAddress(code string, a *order.Address) *Address {
	if a == nil {
		return nil
	}
	return &Address{
		AddressCode: code,
		Line1:       a.Address1,
		Line2:       a.Address2,
		City:        a.City,
		Region:      a.StateCode,
		PostalCode:  a.Zipcode,
		Country:     a.CountryISO,
	}
}

// BuildAddresses returns the origin and destination address lines of an
// order. The destination is the ship address, falling back to the bill
// address. Nothing is filtered here; see FilterCompleteAddresses.
func BuildAddresses(o *order.Order, origin *order.Address) []*Address {
	addresses := []*Address{
		NewAddress(AddressCodeOrigin, origin),
		NewAddress(AddressCodeDestination, o.TaxAddress()),
	}
	return lo.Compact(addresses)
}

// IsComplete reports whether the address carries enough to be sent: a code,
// a country and at least one of city, region or postal code.
func (a *Address) IsComplete() bool {
	if a == nil || a.AddressCode == "" || a.Country == "" {
		return false
	}
	return a.City != "" || a.Region != "" || a.PostalCode != ""
}

// FilterCompleteAddresses drops every address that IsComplete rejects
func FilterCompleteAddresses(addresses []*Address) []*Address {
	return lo.Filter(addresses, func(a *Address, _ int) bool {
		return a.IsComplete()
	})
}

// ValidationQuery encodes an address as the query of an address/validate call
func ValidationQuery(a *order.Address) url.Values {
	q := url.Values{}
	if a == nil {
		return q
	}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("Line1", a.Address1)
	set("Line2", a.Address2)
	set("City", a.City)
	set("Region", a.StateCode)
	set("PostalCode", a.Zipcode)
	set("Country", a.CountryISO)
	return q
}
