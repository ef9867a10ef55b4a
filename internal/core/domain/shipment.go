package domain

// Charge is an amount in a currency, as reported by a carrier. The amount is
// kept as the carrier's decimal string to avoid re-rounding money.
type Charge struct {
	Currency string
	Amount   string
}

// ShipmentCharges breaks the price of a created shipment into its reported
// components.
type ShipmentCharges struct {
	Transportation Charge
	ServiceOptions Charge
	Total          Charge
}

// BillingWeight is the weight the carrier actually billed, which can differ
// from the submitted weight (dimensional weight, rounding).
type BillingWeight struct {
	UnitCode        string
	UnitDescription string
	Weight          string
}

// ShippingLabel carries the label image produced for one package, base64
// encoded as delivered by the carrier.
type ShippingLabel struct {
	ImageFormat        string
	GraphicImageBase64 string
	HTMLImageBase64    string
}

// PackageShippingResult is the per-package portion of a shipment reply.
type PackageShippingResult struct {
	TrackingNumber        string
	ServiceOptionsCharges Charge
	Label                 ShippingLabel
}

// ShipmentResult is the unified outcome of creating a shipment.
type ShipmentResult struct {
	Charges        ShipmentCharges
	BillingWeight  BillingWeight
	ShipmentID     string
	PackageResults []PackageShippingResult
}

// StatusPair is a carrier code/description pair used in void replies.
type StatusPair struct {
	Code        string
	Description string
}

// TransactionReference echoes the caller's transaction context back from a
// void reply.
type TransactionReference struct {
	CustomerContext       string
	TransactionIdentifier string
}

// VoidResult is the outcome of cancelling a shipment.
type VoidResult struct {
	Status               StatusPair
	TransactionReference TransactionReference
	SummaryResult        StatusPair
}
