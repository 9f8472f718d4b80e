package avatax

import (
	"bytes"
	"encoding/json"

	"github.com/flexprice/salestax/internal/types"
	"github.com/shopspring/decimal"
)

// GetTaxRequest is the tax document posted to tax/get. Field names are part
// of the wire contract.
type GetTaxRequest struct {
	DocCode                  string                `json:"DocCode"`
	DocDate                  string                `json:"DocDate"`
	Discount                 string                `json:"Discount,omitempty"`
	Commit                   bool                  `json:"Commit"`
	DocType                  types.TaxDocumentType `json:"DocType"`
	Addresses                []*Address            `json:"Addresses"`
	Lines                    []*Line               `json:"Lines"`
	CustomerCode             string                `json:"CustomerCode"`
	CompanyCode              string                `json:"CompanyCode"`
	CustomerUsageType        string                `json:"CustomerUsageType"`
	ExemptionNo              string                `json:"ExemptionNo"`
	Client                   string                `json:"Client"`
	ReferenceCode            string                `json:"ReferenceCode"`
	DetailLevel              string                `json:"DetailLevel"`
	CurrencyCode             string                `json:"CurrencyCode"`
	BusinessIdentificationNo string                `json:"BusinessIdentificationNo,omitempty"`
	TaxOverride              *TaxOverride          `json:"TaxOverride,omitempty"`
}

// Address is an address line referenced from Lines by AddressCode
type Address struct {
	AddressCode string `json:"AddressCode"`
	Line1       string `json:"Line1,omitempty"`
	Line2       string `json:"Line2,omitempty"`
	City        string `json:"City,omitempty"`
	Region      string `json:"Region,omitempty"`
	PostalCode  string `json:"PostalCode,omitempty"`
	Country     string `json:"Country,omitempty"`
}

// Line is a taxable line of the document
type Line struct {
	LineNo            string          `json:"LineNo"`
	ItemCode          string          `json:"ItemCode"`
	Qty               int             `json:"Qty"`
	Amount            decimal.Decimal `json:"Amount"`
	OriginCode        string          `json:"OriginCode"`
	DestinationCode   string          `json:"DestinationCode"`
	Description       string          `json:"Description"`
	TaxCode           string          `json:"TaxCode,omitempty"`
	CustomerUsageType string          `json:"CustomerUsageType,omitempty"`
	Discounted        bool            `json:"Discounted"`
}

// TaxOverride moves the tax date of a return back to the original sale
type TaxOverride struct {
	TaxOverrideType string `json:"TaxOverrideType"`
	Reason          string `json:"Reason"`
	TaxDate         string `json:"TaxDate"`
}

// CancelTaxRequest voids a previously posted document
type CancelTaxRequest struct {
	CompanyCode string                `json:"CompanyCode"`
	DocType     types.TaxDocumentType `json:"DocType"`
	DocCode     string                `json:"DocCode"`
	CancelCode  string                `json:"CancelCode"`
}

// Message is a diagnostic attached to every response
type Message struct {
	Summary  string `json:"Summary,omitempty"`
	Details  string `json:"Details,omitempty"`
	HelpLink string `json:"HelpLink,omitempty"`
	RefersTo string `json:"RefersTo,omitempty"`
	Severity string `json:"Severity,omitempty"`
	Source   string `json:"Source,omitempty"`
}

// GetTaxResult is the response of tax/get
type GetTaxResult struct {
	DocCode            string        `json:"DocCode,omitempty"`
	DocDate            string        `json:"DocDate,omitempty"`
	Timestamp          string        `json:"Timestamp,omitempty"`
	TotalAmount        FlexString    `json:"TotalAmount,omitempty"`
	TotalDiscount      FlexString    `json:"TotalDiscount,omitempty"`
	TotalExemption     FlexString    `json:"TotalExemption,omitempty"`
	TotalTaxable       FlexString    `json:"TotalTaxable,omitempty"`
	TotalTax           FlexString    `json:"TotalTax"`
	TotalTaxCalculated FlexString    `json:"TotalTaxCalculated,omitempty"`
	TaxDate            string        `json:"TaxDate,omitempty"`
	TaxLines           []*TaxLine    `json:"TaxLines,omitempty"`
	TaxAddresses       []*TaxAddress `json:"TaxAddresses,omitempty"`
	TaxSummary         []*TaxDetail  `json:"TaxSummary,omitempty"`
	ResultCode         string        `json:"ResultCode"`
	Messages           []*Message    `json:"Messages,omitempty"`

	// body as received, including fields not modelled above
	raw json.RawMessage
}

type getTaxResultFields GetTaxResult

func (r *GetTaxResult) UnmarshalJSON(data []byte) error {
	var fields getTaxResultFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = GetTaxResult(fields)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the response body unchanged when the result was decoded
// from one.
func (r GetTaxResult) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(getTaxResultFields(r))
}

// Raw returns the response body the result was decoded from
func (r *GetTaxResult) Raw() json.RawMessage {
	if r == nil {
		return nil
	}
	return r.raw
}

type TaxLine struct {
	LineNo        string       `json:"LineNo"`
	TaxCode       string       `json:"TaxCode,omitempty"`
	Taxability    string       `json:"Taxability,omitempty"`
	Taxable       FlexString   `json:"Taxable,omitempty"`
	Rate          FlexString   `json:"Rate,omitempty"`
	Tax           FlexString   `json:"Tax,omitempty"`
	Discount      FlexString   `json:"Discount,omitempty"`
	TaxCalculated FlexString   `json:"TaxCalculated,omitempty"`
	Exemption     FlexString   `json:"Exemption,omitempty"`
	TaxDetails    []*TaxDetail `json:"TaxDetails,omitempty"`
}

type TaxDetail struct {
	Country   string     `json:"Country,omitempty"`
	Region    string     `json:"Region,omitempty"`
	JurisType string     `json:"JurisType,omitempty"`
	JurisCode string     `json:"JurisCode,omitempty"`
	JurisName string     `json:"JurisName,omitempty"`
	Taxable   FlexString `json:"Taxable,omitempty"`
	Rate      FlexString `json:"Rate,omitempty"`
	Tax       FlexString `json:"Tax,omitempty"`
	TaxName   string     `json:"TaxName,omitempty"`
	TaxType   string     `json:"TaxType,omitempty"`
}

type TaxAddress struct {
	AddressCode string `json:"AddressCode,omitempty"`
	Address     string `json:"Address,omitempty"`
	City        string `json:"City,omitempty"`
	Region      string `json:"Region,omitempty"`
	Country     string `json:"Country,omitempty"`
	PostalCode  string `json:"PostalCode,omitempty"`
	TaxRegionId string `json:"TaxRegionId,omitempty"`
	JurisCode   string `json:"JurisCode,omitempty"`
}

// CancelTaxResponse wraps the cancel result the way the service returns it
type CancelTaxResponse struct {
	CancelTaxResult *CancelTaxResult `json:"CancelTaxResult"`
}

type CancelTaxResult struct {
	TransactionId FlexString `json:"TransactionId,omitempty"`
	DocId         FlexString `json:"DocId,omitempty"`
	ResultCode    string     `json:"ResultCode"`
	Messages      []*Message `json:"Messages,omitempty"`
}

// ValidateAddressResult is the response of address/validate
type ValidateAddressResult struct {
	Address    *ValidAddress `json:"Address,omitempty"`
	ResultCode string        `json:"ResultCode"`
	Messages   []*Message    `json:"Messages,omitempty"`
}

type ValidAddress struct {
	Line1        string     `json:"Line1,omitempty"`
	Line2        string     `json:"Line2,omitempty"`
	Line3        string     `json:"Line3,omitempty"`
	City         string     `json:"City,omitempty"`
	Region       string     `json:"Region,omitempty"`
	PostalCode   string     `json:"PostalCode,omitempty"`
	Country      string     `json:"Country,omitempty"`
	County       string     `json:"County,omitempty"`
	FipsCode     string     `json:"FipsCode,omitempty"`
	CarrierRoute string     `json:"CarrierRoute,omitempty"`
	PostNet      string     `json:"PostNet,omitempty"`
	AddressType  string     `json:"AddressType,omitempty"`
	Latitude     FlexString `json:"Latitude,omitempty"`
	Longitude    FlexString `json:"Longitude,omitempty"`
}

// Coordinates locate a point for a geo estimate
type Coordinates struct {
	Latitude  float64 `json:"latitude" form:"latitude"`
	Longitude float64 `json:"longitude" form:"longitude"`
}

// EstimateTaxResult is the response of the geo estimate
type EstimateTaxResult struct {
	Rate       FlexString   `json:"Rate,omitempty"`
	Tax        FlexString   `json:"Tax,omitempty"`
	TaxDetails []*TaxDetail `json:"TaxDetails,omitempty"`
	ResultCode string       `json:"ResultCode"`
	Messages   []*Message   `json:"Messages,omitempty"`
}

// IsSuccess reports whether the service accepted the document
func (r *GetTaxResult) IsSuccess() bool {
	return r != nil && r.ResultCode == ResultCodeSuccess
}

func (r *CancelTaxResult) IsSuccess() bool {
	return r != nil && r.ResultCode == ResultCodeSuccess
}

func (r *ValidateAddressResult) IsSuccess() bool {
	return r != nil && r.ResultCode == ResultCodeSuccess
}

// FirstMessageDetails returns the details of the first message, if any
func FirstMessageDetails(messages []*Message) string {
	for _, m := range messages {
		if m != nil {
			return m.Details
		}
	}
	return ""
}

// FlexString holds a value the service may send either as a JSON string or
// as a bare number. It always marshals back as a string so amounts such as
// "12.34" are passed through untouched.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Decimal parses the value, returning zero when it is empty or malformed
func (f FlexString) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(string(f))
	if err != nil {
		return decimal.Zero
	}
	return d
}
