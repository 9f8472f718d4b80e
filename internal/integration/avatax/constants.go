package avatax

const (
	// Service paths appended to the configured endpoint
	ServicePathTax     = "/1.0/tax/"
	ServicePathAddress = "/1.0/address/"

	operationGetTax   = "get"
	operationCancel   = "cancel"
	operationValidate = "validate"

	ResultCodeSuccess = "Success"
	ResultCodeError   = "Error"

	CancelCodeDocVoided    = "DocVoided"
	TaxOverrideTypeTaxDate = "TaxDate"
	DetailLevelTax         = "Tax"

	AddressCodeOrigin      = "Orig"
	AddressCodeDestination = "Dest"

	DefaultShippingTaxCode = "FR"
	DefaultReturnReason    = "Return"
	RefundItemCode         = "Refund"

	lineSuffixItem     = "-LI"
	lineSuffixShipping = "-FR"
	lineSuffixReturn   = "-RA"

	// MaxReasonLength caps TaxOverride.Reason
	MaxReasonLength      = 255
	MaxDescriptionLength = 255

	// DateLayout is the YYYY-MM-DD format used for every date on the wire
	DateLayout = "2006-01-02"

	// Coordinates used by Ping
	PingLatitude  = 40.714623
	PingLongitude = -74.006605
)
