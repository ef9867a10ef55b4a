package domain

// CarrierError is a structured error reported inside a carrier response
// body, distinct from a transport failure.
type CarrierError struct {
	Code        string
	Severity    string
	Description string
}

// AddressValidationDetails is the per-address outcome of a batched
// validation call: the corrected location plus the carrier's confidence and
// change report.
type AddressValidationDetails struct {
	AddressID string
	Location  Location
	// Score is the carrier's match confidence, 0-100.
	Score   int
	Changes []string
	// DeliveryPointValidation is the raw deliverability verdict
	// (e.g. "CONFIRMED", "UNCONFIRMED").
	DeliveryPointValidation string
}

// Deliverable reports whether the carrier confirmed the delivery point.
func (d AddressValidationDetails) Deliverable() bool {
	return d.DeliveryPointValidation == "CONFIRMED"
}

// ParsedElement is one parsed address token with the carrier's change flag.
type ParsedElement struct {
	Name    string
	Value   string
	Changes string
}

// Changed reports whether the carrier altered this element.
func (e ParsedElement) Changed() bool {
	return e.Changes != "NO_CHANGES"
}

// ParsedAddressResult is the element-by-element breakdown of one validated
// address, grouped by address part.
type ParsedAddressResult struct {
	StreetLine []ParsedElement
	City       []ParsedElement
	Province   []ParsedElement
	PostalCode []ParsedElement
	Country    []ParsedElement
}

// BatchAddressValidation is the result of validating several addresses in a
// single call, keyed by the caller-supplied address id.
type BatchAddressValidation struct {
	Addresses     map[string]AddressValidationDetails
	ParsedResults []ParsedAddressResult
}

// AddressClassification is a carrier's commercial/residential verdict on an
// address.
type AddressClassification struct {
	Code        string
	Description string
}

// AddressCandidate is one corrected-address suggestion from street-level
// validation.
type AddressCandidate struct {
	Classification AddressClassification
	Location       Location
}

// AddressVerification is the outcome of the two-phase (city-level then
// street-level) validation flow. StreetLevelStatus stays nil whenever the
// city-level check failed: the street call is never issued in that case.
type AddressVerification struct {
	CityLevelStatus   bool
	StreetLevelStatus *bool

	// Valid is the overall verdict: city-level success AND street-level
	// success.
	Valid bool

	Message        string
	Classification *AddressClassification
	ValidAddress   bool
	Candidates     []AddressCandidate

	// Err carries the carrier error payload when the city-level check
	// failed.
	Err *CarrierError
}
