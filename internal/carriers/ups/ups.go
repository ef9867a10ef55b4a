// Package ups implements the UPS adapter. UPS exposes two wire styles: the
// legacy XML endpoints (rates, tracking, city-level address validation) take
// concatenated plain XML documents prefixed with an AccessRequest, while the
// web-service endpoints (shipping, void, pickup, street-level validation)
// take SOAP envelopes carrying a UPSSecurity header.
package ups

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
)

const (
	carrierName = "UPS"

	testURL = "https://wwwcie.ups.com"
	liveURL = "https://onlinetools.ups.com"
)

// resources maps each logical operation to its relative endpoint path.
var resources = map[string]string{
	"rates":                     "ups.app/xml/Rate",
	"track":                     "ups.app/xml/Track",
	"address_validation":        "ups.app/xml/AV",
	"shipping":                  "webservices/Ship",
	"address_validation_street": "webservices/XAV",
	"courier_dispatch":          "webservices/Pickup",
	"cancel_shipping":           "webservices/Void",
}

// Credentials holds the three values UPS requires for every call.
type Credentials struct {
	// AccessLicenseKey is the XML access license number.
	AccessLicenseKey string
	// UserID is the ups.com user id.
	UserID   string
	Password string

	// AccountNumber and AccountCountryCode are needed by pickup dispatch.
	AccountNumber      string
	AccountCountryCode string
}

// Adapter talks to the UPS XML and web-service APIs. Safe for concurrent
// use when its Transport is.
type Adapter struct {
	creds     Credentials
	transport ports.Transport
	recorder  ports.RequestRecorder
	log       zerolog.Logger
}

// Option configures an Adapter at construction.
type Option func(*Adapter)

// WithRecorder attaches a request/response recorder.
func WithRecorder(r ports.RequestRecorder) Option {
	return func(a *Adapter) { a.recorder = r }
}

// New validates credential presence and returns a ready adapter. Missing
// credentials fail here, before any network call.
func New(creds Credentials, transport ports.Transport, log zerolog.Logger, opts ...Option) (*Adapter, error) {
	for name, v := range map[string]string{
		"access license key": creds.AccessLicenseKey,
		"user id":            creds.UserID,
		"password":           creds.Password,
	} {
		if v == "" {
			return nil, fmt.Errorf("ups: %q: %w", name, domain.ErrMissingCredential)
		}
	}
	a := &Adapter{
		creds:     creds,
		transport: transport,
		log:       log.With().Str("carrier", carrierName).Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name implements ports.Carrier.
func (a *Adapter) Name() string { return carrierName }

// RetrySafe implements ports.Carrier.
func (a *Adapter) RetrySafe() bool { return true }

// FindRates implements ports.Carrier.
func (a *Adapter) FindRates(ctx context.Context, origin, destination domain.Location, packages []domain.Package, opts *ports.RequestOptions) (*domain.RateResponse, error) {
	if len(packages) == 0 {
		return nil, domain.ErrNoPackages
	}
	o := opts.Get()
	origin = upsifiedLocation(origin)
	destination = upsifiedLocation(destination)

	request := append(a.buildAccessRequest(), a.buildRateRequest(origin, destination, packages, o)...)
	body, err := a.commit(ctx, "rates", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseRateResponse(origin, destination, packages, body), nil
}

// FindTrackingInfo implements ports.Carrier.
func (a *Adapter) FindTrackingInfo(ctx context.Context, trackingNumber string, opts *ports.RequestOptions) (*domain.TrackingResponse, error) {
	o := opts.Get()
	request := append(a.buildAccessRequest(), a.buildTrackingRequest(trackingNumber)...)
	body, err := a.commit(ctx, "track", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseTrackingResponse(body), nil
}

// CourierDispatch implements ports.Carrier.
func (a *Adapter) CourierDispatch(ctx context.Context, req ports.DispatchRequest, opts *ports.RequestOptions) (*domain.DispatchResponse, error) {
	o := opts.Get()
	request := a.buildCourierDispatchRequest(req)
	body, err := a.commit(ctx, "courier_dispatch", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseCourierDispatchResponse(body), nil
}

// CourierDispatchCancel implements ports.DispatchCanceler. The confirmation
// number is the PRN returned by a previous CourierDispatch; this layer does
// not remember it for the caller.
func (a *Adapter) CourierDispatchCancel(ctx context.Context, confirmationNumber string, opts *ports.RequestOptions) (*domain.Response, error) {
	o := opts.Get()
	request := a.buildCourierDispatchCancelRequest(confirmationNumber)
	body, err := a.commit(ctx, "courier_dispatch", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseCourierDispatchCancelResponse(body), nil
}

// RequestShipping implements ports.Carrier.
func (a *Adapter) RequestShipping(ctx context.Context, req ports.ShippingRequest, opts *ports.RequestOptions) (*domain.ShippingResponse, error) {
	o := opts.Get()
	request := a.buildShippingRequest(req, o)
	body, err := a.commit(ctx, "shipping", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseShippingResponse(body), nil
}

// CancelShipment implements ports.ShipmentCanceler.
func (a *Adapter) CancelShipment(ctx context.Context, shipmentID string, opts *ports.RequestOptions) (*domain.VoidResponse, error) {
	o := opts.Get()
	request := a.buildCancelShipmentRequest(shipmentID)
	body, err := a.commit(ctx, "cancel_shipping", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseCancelShipmentResponse(body), nil
}

// commit posts one request to the selected endpoint for the operation,
// records the exchange and wraps transport failures.
func (a *Adapter) commit(ctx context.Context, operation string, request []byte, test bool) ([]byte, error) {
	base := liveURL
	if test {
		base = testURL
	}
	url := base + "/" + resources[operation]

	started := time.Now()
	body, err := a.transport.Post(ctx, url, request)
	if a.recorder != nil {
		a.recorder.Record(operation, request, body)
	}
	if err != nil {
		a.log.Error().Err(err).Str("operation", operation).Msg("carrier request failed")
		return nil, &domain.TransportError{Operation: operation, Err: err}
	}
	a.log.Info().
		Str("operation", operation).
		Dur("elapsed", time.Since(started)).
		Int("response_bytes", len(body)).
		Msg("carrier request completed")
	return body, nil
}

// upsifiedLocation rewrites US territories UPS treats as countries: a US
// address with state "PR" must be submitted with country "PR".
func upsifiedLocation(loc domain.Location) domain.Location {
	if loc.CountryCode != "US" {
		return loc
	}
	if _, ok := usTerritoriesTreatedAsCountries[loc.Province]; !ok {
		return loc
	}
	out := loc
	out.CountryCode = loc.Province
	out.Province = ""
	return out
}
