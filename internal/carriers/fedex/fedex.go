// Package fedex implements the FedEx web-services adapter. All operations
// post plain XML documents with inline namespace declarations to a single
// endpoint; responses are namespace-stripped and parsed by path.
package fedex

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
)

const (
	carrierName = "FedEx"

	testURL = "https://wsbeta.fedex.com:443/xml"
	liveURL = "https://ws.fedex.com:443/xml"
)

// namespaces per service family.
const (
	rateNS       = "http://fedex.com/ws/rate/v6"
	trackNS      = "http://fedex.com/ws/track/v3"
	dispatchNS   = "http://fedex.com/ws/courierdispatch/v3"
	validationNS = "http://fedex.com/ws/addressvalidation/v2"
	shipNS       = "http://fedex.com/ws/ship/v10"

	xsdNS = "http://www.w3.org/2001/XMLSchema"
	xsiNS = "http://www.w3.org/2001/XMLSchema-instance"
)

// Credentials holds the four values FedEx requires for every call.
type Credentials struct {
	// Key is the developer API key.
	Key string
	// Password is the API password.
	Password string
	// Account is the FedEx account number.
	Account string
	// Meter is the meter number.
	Meter string
}

// Adapter talks to the FedEx XML web services. Safe for concurrent use when
// its Transport is.
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
		"key":      creds.Key,
		"password": creds.Password,
		"account":  creds.Account,
		"meter":    creds.Meter,
	} {
		if v == "" {
			return nil, fmt.Errorf("fedex: %q: %w", name, domain.ErrMissingCredential)
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

// RetrySafe implements ports.Carrier. FedEx requests are idempotent reads or
// carrier-deduplicated creates, so replay is safe.
func (a *Adapter) RetrySafe() bool { return true }

// FindRates implements ports.Carrier.
func (a *Adapter) FindRates(ctx context.Context, origin, destination domain.Location, packages []domain.Package, opts *ports.RequestOptions) (*domain.RateResponse, error) {
	if len(packages) == 0 {
		return nil, domain.ErrNoPackages
	}
	o := opts.Get()
	request := a.buildRateRequest(origin, destination, packages, o)
	body, err := a.commit(ctx, "rates", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseRateResponse(origin, destination, packages, body), nil
}

// FindTrackingInfo implements ports.Carrier.
func (a *Adapter) FindTrackingInfo(ctx context.Context, trackingNumber string, opts *ports.RequestOptions) (*domain.TrackingResponse, error) {
	o := opts.Get()
	request := a.buildTrackingRequest(trackingNumber)
	body, err := a.commit(ctx, "tracking", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseTrackingResponse(body), nil
}

// ValidateAddresses implements ports.BatchAddressValidator: FedEx validates
// any number of addresses with a single batched call.
func (a *Adapter) ValidateAddresses(ctx context.Context, addresses map[string]domain.Location, opts *ports.RequestOptions) (*domain.BatchAddressValidationResponse, error) {
	o := opts.Get()
	request := a.buildValidateAddressRequest(addresses, o)
	body, err := a.commit(ctx, "address_validation", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseAddressValidationResponse(body), nil
}

// CheckPickupAvailability implements ports.PickupAvailabilityChecker.
func (a *Adapter) CheckPickupAvailability(ctx context.Context, address domain.Location, scheduleDays []domain.ScheduleDay, dispatchDate time.Time, packageReadyTime, customerCloseTime time.Time, carrierCodesReq []string, packages []domain.Package, opts *ports.RequestOptions) (*domain.PickupAvailabilityResponse, error) {
	o := opts.Get()
	request := a.buildPickupRequest(address, scheduleDays, dispatchDate, packageReadyTime, customerCloseTime, carrierCodesReq, packages)
	body, err := a.commit(ctx, "pickup_availability", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parsePickupResponse(body), nil
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

// RequestShipping implements ports.Carrier.
func (a *Adapter) RequestShipping(ctx context.Context, req ports.ShippingRequest, opts *ports.RequestOptions) (*domain.ShippingResponse, error) {
	o := opts.Get()
	request := a.buildShippingRequest(req, o)
	body, err := a.commit(ctx, "request_shipping", request, o.Test)
	if err != nil {
		return nil, err
	}
	return a.parseShippingResponse(body), nil
}

// commit posts one request to the selected endpoint, records the exchange
// and wraps transport failures in *domain.TransportError.
func (a *Adapter) commit(ctx context.Context, operation string, request []byte, test bool) ([]byte, error) {
	url := liveURL
	if test {
		url = testURL
	}
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
