package ports

import (
	"context"
	"time"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
)

// RequestOptions carries the per-call knobs every operation accepts. Each
// field is optional; adapters apply their own defaults for empty values.
type RequestOptions struct {
	// Test selects the carrier's sandbox endpoint instead of production.
	Test bool

	ServiceCode            string
	PackagingType          string
	DropoffType            string
	PickupType             string
	CustomerClassification string
	LabelFormatType        string
	ImageType              string

	// MaxAddressMatches limits returned matches per validated address.
	MaxAddressMatches int
	// StreetAccuracy tunes street matching strictness (e.g. "LOOSE").
	StreetAccuracy string
}

// Get returns opts, or a zero value when opts is nil, so call sites can pass
// nil for defaults.
func (o *RequestOptions) Get() RequestOptions {
	if o == nil {
		return RequestOptions{}
	}
	return *o
}

// DispatchRequest bundles everything a courier dispatch needs. Each carrier
// consumes the subset its wire contract requires.
type DispatchRequest struct {
	Contact  domain.Contact
	Location domain.Location

	ReadyTime time.Time
	CloseTime time.Time
	// PickupDate is the requested pickup day; adapters that take the day
	// from ReadyTime ignore it.
	PickupDate time.Time

	PackageCount int
	Packages     []domain.Package

	// CarrierOrServiceCode is a carrier code for FedEx ("fedex_express")
	// and a service code for UPS ("01").
	CarrierOrServiceCode string

	// UPS pickup-piece fields.
	DestinationCountryCode string
	ContainerCode          string

	// Residential overrides the residential indicator; nil means "let the
	// adapter default apply".
	Residential *bool
}

// ShippingRequest bundles everything a shipment creation needs.
type ShippingRequest struct {
	ShipTimestamp time.Time

	DropoffType   string
	ServiceType   string
	PackagingType string

	ShipperContact    domain.Contact
	ShipperLocation   domain.Location
	RecipientContact  domain.Contact
	RecipientLocation domain.Location

	PayorCountryCode string

	PackageLineItems []domain.PackageLineItem
}

// Carrier is the contract shared by every adapter. Callers depend on this
// interface plus the capability interfaces below; the capabilities differ
// because the two vendors expose different operation sets.
type Carrier interface {
	// Name returns the display name, e.g. "FedEx".
	Name() string
	// RetrySafe tells an external retry policy whether replaying a request
	// is safe. This layer never retries on its own.
	RetrySafe() bool

	FindRates(ctx context.Context, origin, destination domain.Location, packages []domain.Package, opts *RequestOptions) (*domain.RateResponse, error)
	FindTrackingInfo(ctx context.Context, trackingNumber string, opts *RequestOptions) (*domain.TrackingResponse, error)
	CourierDispatch(ctx context.Context, req DispatchRequest, opts *RequestOptions) (*domain.DispatchResponse, error)
	RequestShipping(ctx context.Context, req ShippingRequest, opts *RequestOptions) (*domain.ShippingResponse, error)
}

// BatchAddressValidator validates several addresses in one call (FedEx).
type BatchAddressValidator interface {
	ValidateAddresses(ctx context.Context, addresses map[string]domain.Location, opts *RequestOptions) (*domain.BatchAddressValidationResponse, error)
}

// AddressVerifier runs the two-phase city-then-street validation flow (UPS).
// The ordering invariant lives inside the adapter: callers cannot reach the
// street-level call directly.
type AddressVerifier interface {
	ValidateAddress(ctx context.Context, address domain.Location, opts *RequestOptions) (*domain.AddressVerificationResponse, error)
}

// PickupAvailabilityChecker asks which pickup slots are available (FedEx).
type PickupAvailabilityChecker interface {
	CheckPickupAvailability(ctx context.Context, address domain.Location, scheduleDays []domain.ScheduleDay, dispatchDate time.Time, packageReadyTime, customerCloseTime time.Time, carrierCodes []string, packages []domain.Package, opts *RequestOptions) (*domain.PickupAvailabilityResponse, error)
}

// DispatchCanceler cancels a previously confirmed courier dispatch (UPS).
type DispatchCanceler interface {
	CourierDispatchCancel(ctx context.Context, confirmationNumber string, opts *RequestOptions) (*domain.Response, error)
}

// ShipmentCanceler voids a previously created shipment (UPS).
type ShipmentCanceler interface {
	CancelShipment(ctx context.Context, shipmentID string, opts *RequestOptions) (*domain.VoidResponse, error)
}
