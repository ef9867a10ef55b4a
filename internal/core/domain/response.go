package domain

import (
	"errors"
	"fmt"
)

// Response is the uniform outer shape every carrier operation produces,
// regardless of how the carrier itself signals success. Carrier-reported
// failures land here with Success=false; only transport and configuration
// faults surface as Go errors.
type Response struct {
	Success bool
	// Message concatenates the carrier's severity/code/description fields,
	// or carries a fixed domain message (e.g. the empty-rates case).
	Message string
	// RawBody is the response payload exactly as received, for logging and
	// dispute trails.
	RawBody []byte
}

// RateResponse wraps the rate estimates of one quote call.
type RateResponse struct {
	Response
	Rates []RateEstimate
}

// TrackingResponse wraps one tracking lookup.
type TrackingResponse struct {
	Response
	Tracking *TrackingResult
}

// BatchAddressValidationResponse wraps a batched validation call.
type BatchAddressValidationResponse struct {
	Response
	Result *BatchAddressValidation
}

// AddressVerificationResponse wraps the two-phase validation flow.
type AddressVerificationResponse struct {
	Response
	Verification *AddressVerification
}

// PickupAvailabilityResponse wraps a pickup availability check.
type PickupAvailabilityResponse struct {
	Response
	Options []PickupOption
}

// DispatchResponse wraps a courier dispatch request.
type DispatchResponse struct {
	Response
	Confirmation *DispatchConfirmation
}

// ShippingResponse wraps a shipment creation.
type ShippingResponse struct {
	Response
	Shipment *ShipmentResult
}

// VoidResponse wraps a shipment cancellation.
type VoidResponse struct {
	Response
	Void *VoidResult
}

// ErrMissingCredential is returned before any network call when an adapter
// is constructed without a required credential.
var ErrMissingCredential = errors.New("missing carrier credential")

// ErrNoPackages is returned when a rate request carries no packages.
var ErrNoPackages = errors.New("at least one package is required")

// ErrUnknownCarrier is returned when a request names a carrier that is not
// registered with the gateway.
var ErrUnknownCarrier = errors.New("unknown carrier")

// ErrUnsupportedOperation is returned when a registered carrier does not
// implement the requested capability.
var ErrUnsupportedOperation = errors.New("operation not supported by carrier")

// TransportError wraps a failure of the HTTP collaborator so callers can
// distinguish "could not reach carrier" from "carrier said no".
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
