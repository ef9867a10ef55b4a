package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-gateway/internal/api/metrics"
	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
	"github.com/99minutos/carrier-gateway/internal/core/service"
)

// RefreshEnqueuer is the interface the handler uses to queue background
// tracking lookups.
type RefreshEnqueuer interface {
	Enqueue(job ports.TrackingRefreshJob)
}

// CarrierHandler exposes every carrier operation over HTTP. One instance
// serves all registered carriers; the :carrier path parameter selects the
// adapter.
type CarrierHandler struct {
	registry  *service.Registry
	refresher RefreshEnqueuer
	// test routes calls to carrier sandboxes, from gateway config.
	test bool
	log  zerolog.Logger
}

func NewCarrierHandler(registry *service.Registry, refresher RefreshEnqueuer, test bool, log zerolog.Logger) *CarrierHandler {
	return &CarrierHandler{registry: registry, refresher: refresher, test: test, log: log}
}

// audit records who triggered a mutating carrier operation.
func (h *CarrierHandler) audit(c echo.Context, carrierName, operation string) error {
	clientID, err := ctxClientID(c)
	if err != nil {
		return err
	}
	h.log.Info().
		Str("client_id", clientID).
		Str("carrier", strings.ToLower(carrierName)).
		Str("operation", operation).
		Msg("carrier operation requested")
	return nil
}

// Rates handles POST /v1/carriers/:carrier/rates.
func (h *CarrierHandler) Rates(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}

	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	started := time.Now()
	resp, err := carrier.FindRates(c.Request().Context(), toLocation(req.Origin), toLocation(req.Destination), toPackages(req.Packages), toOptions(req.Options, h.test))
	record(carrier.Name(), "rates", started, resp != nil && resp.Success, err)
	if err != nil {
		return err
	}
	if resp.Success {
		metrics.RatesReturned.WithLabelValues(strings.ToLower(carrier.Name())).Observe(float64(len(resp.Rates)))
	}
	return c.JSON(http.StatusOK, fromRates(resp))
}

// Tracking handles GET /v1/carriers/:carrier/tracking/:tracking_number.
func (h *CarrierHandler) Tracking(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}
	trackingNumber := c.Param("tracking_number")
	if trackingNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing tracking number")
	}

	started := time.Now()
	resp, err := carrier.FindTrackingInfo(c.Request().Context(), trackingNumber, &ports.RequestOptions{Test: h.test})
	record(carrier.Name(), "track", started, resp != nil && resp.Success, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromTracking(resp))
}

// RefreshTracking handles POST /v1/carriers/:carrier/tracking/refresh —
// queues background lookups and returns 202.
func (h *CarrierHandler) RefreshTracking(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}

	var req trackingRefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	for _, number := range req.TrackingNumbers {
		h.refresher.Enqueue(ports.TrackingRefreshJob{
			CarrierName:    strings.ToLower(carrier.Name()),
			TrackingNumber: number,
			Options:        &ports.RequestOptions{Test: h.test},
		})
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Accepted: len(req.TrackingNumbers)})
}

// ValidateAddresses handles POST /v1/carriers/:carrier/addresses/validate —
// the batched, single-call validation flavour.
func (h *CarrierHandler) ValidateAddresses(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}
	validator, ok := carrier.(ports.BatchAddressValidator)
	if !ok {
		return unsupported(carrier, "batch address validation")
	}

	var req addressValidationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	addresses := make(map[string]domain.Location, len(req.Addresses))
	for id, loc := range req.Addresses {
		addresses[id] = toLocation(loc)
	}

	started := time.Now()
	resp, err := validator.ValidateAddresses(c.Request().Context(), addresses, toOptions(req.Options, h.test))
	record(carrier.Name(), "address_validation", started, resp != nil && resp.Success, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromBatchValidation(resp))
}

// VerifyAddress handles POST /v1/carriers/:carrier/addresses/verify — the
// two-phase city-then-street flavour.
func (h *CarrierHandler) VerifyAddress(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}
	verifier, ok := carrier.(ports.AddressVerifier)
	if !ok {
		return unsupported(carrier, "address verification")
	}

	var req addressVerificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	started := time.Now()
	resp, err := verifier.ValidateAddress(c.Request().Context(), toLocation(req.Address), toOptions(req.Options, h.test))
	record(carrier.Name(), "address_verification", started, resp != nil && resp.Success, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromVerification(resp))
}

// PickupAvailability handles POST /v1/carriers/:carrier/pickups/availability.
func (h *CarrierHandler) PickupAvailability(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}
	checker, ok := carrier.(ports.PickupAvailabilityChecker)
	if !ok {
		return unsupported(carrier, "pickup availability")
	}

	var req pickupAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	dispatchDate, _ := time.Parse("2006-01-02", req.DispatchDate)
	readyTime, err := parseTimestamp(req.PackageReadyTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "package_ready_time must be RFC 3339")
	}
	closeTime, err := parseTimestamp(req.CloseTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "close_time must be RFC 3339")
	}

	days := make([]domain.ScheduleDay, 0, len(req.ScheduleDays))
	for _, d := range req.ScheduleDays {
		days = append(days, domain.ScheduleDay(d))
	}

	started := time.Now()
	resp, err := checker.CheckPickupAvailability(c.Request().Context(), toLocation(req.Address), days, dispatchDate, readyTime, closeTime, req.CarrierCodes, toPackages(req.Packages), toOptions(req.Options, h.test))
	record(carrier.Name(), "pickup_availability", started, resp != nil && resp.Success, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromPickupAvailability(resp))
}

// Dispatch handles POST /v1/carriers/:carrier/pickups.
func (h *CarrierHandler) Dispatch(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}
	if err := h.audit(c, carrier.Name(), "courier_dispatch"); err != nil {
		return err
	}

	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	readyTime, err := parseTimestamp(req.ReadyTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "ready_time must be RFC 3339")
	}
	closeTime, err := parseTimestamp(req.CloseTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "close_time must be RFC 3339")
	}
	pickupDate, _ := time.Parse("2006-01-02", req.PickupDate)

	packageCount := req.PackageCount
	if packageCount == 0 {
		packageCount = len(req.Packages)
	}

	started := time.Now()
	resp, err := carrier.CourierDispatch(c.Request().Context(), ports.DispatchRequest{
		Contact:                toContact(req.Contact),
		Location:               toLocation(req.Location),
		ReadyTime:              readyTime,
		CloseTime:              closeTime,
		PickupDate:             pickupDate,
		PackageCount:           packageCount,
		Packages:               toPackages(req.Packages),
		CarrierOrServiceCode:   req.CarrierOrServiceCode,
		DestinationCountryCode: req.DestinationCountryCode,
		ContainerCode:          req.ContainerCode,
		Residential:            req.Residential,
	}, toOptions(req.Options, h.test))
	record(carrier.Name(), "courier_dispatch", started, resp != nil && resp.Success, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromDispatch(resp))
}

// DispatchCancel handles DELETE /v1/carriers/:carrier/pickups/:confirmation_number.
func (h *CarrierHandler) DispatchCancel(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}
	canceler, ok := carrier.(ports.DispatchCanceler)
	if !ok {
		return unsupported(carrier, "dispatch cancellation")
	}

	confirmationNumber := c.Param("confirmation_number")
	if confirmationNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing confirmation number")
	}
	if err := h.audit(c, carrier.Name(), "courier_dispatch_cancel"); err != nil {
		return err
	}

	started := time.Now()
	resp, err := canceler.CourierDispatchCancel(c.Request().Context(), confirmationNumber, &ports.RequestOptions{Test: h.test})
	record(carrier.Name(), "courier_dispatch_cancel", started, resp != nil && resp.Success, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromEnvelope(*resp))
}

// CreateShipment handles POST /v1/carriers/:carrier/shipments.
func (h *CarrierHandler) CreateShipment(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}
	if err := h.audit(c, carrier.Name(), "shipping"); err != nil {
		return err
	}

	var req shippingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	shipTimestamp := time.Now().UTC()
	if req.ShipTimestamp != "" {
		shipTimestamp, _ = time.Parse(time.RFC3339, req.ShipTimestamp)
	}

	items := make([]domain.PackageLineItem, 0, len(req.Packages))
	for _, item := range req.Packages {
		items = append(items, domain.PackageLineItem{
			Package:         toPackage(item.packageRequest),
			InsuredAmount:   item.InsuredAmount,
			InsuredCurrency: item.InsuredCurrency,
			ReferenceType:   item.ReferenceType,
			ReferenceValue:  item.ReferenceValue,
		})
	}

	started := time.Now()
	resp, err := carrier.RequestShipping(c.Request().Context(), ports.ShippingRequest{
		ShipTimestamp:     shipTimestamp,
		DropoffType:       req.DropoffType,
		ServiceType:       req.ServiceType,
		PackagingType:     req.PackagingType,
		ShipperContact:    toContact(req.Shipper.Contact),
		ShipperLocation:   toLocation(req.Shipper.Location),
		RecipientContact:  toContact(req.Recipient.Contact),
		RecipientLocation: toLocation(req.Recipient.Location),
		PayorCountryCode:  req.PayorCountryCode,
		PackageLineItems:  items,
	}, toOptions(req.Options, h.test))
	record(carrier.Name(), "shipping", started, resp != nil && resp.Success, err)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if resp.Success {
		status = http.StatusCreated
	}
	return c.JSON(status, fromShipping(resp))
}

// CancelShipment handles DELETE /v1/carriers/:carrier/shipments/:shipment_id.
func (h *CarrierHandler) CancelShipment(c echo.Context) error {
	carrier, err := h.registry.Resolve(c.Param("carrier"))
	if err != nil {
		return err
	}
	canceler, ok := carrier.(ports.ShipmentCanceler)
	if !ok {
		return unsupported(carrier, "shipment cancellation")
	}

	shipmentID := c.Param("shipment_id")
	if shipmentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing shipment id")
	}
	if err := h.audit(c, carrier.Name(), "cancel_shipping"); err != nil {
		return err
	}

	started := time.Now()
	resp, err := canceler.CancelShipment(c.Request().Context(), shipmentID, &ports.RequestOptions{Test: h.test})
	record(carrier.Name(), "cancel_shipping", started, resp != nil && resp.Success, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromVoid(resp))
}

// --- helpers ---

func unsupported(carrier ports.Carrier, capability string) error {
	return echo.NewHTTPError(http.StatusNotImplemented, carrier.Name()+" does not support "+capability).SetInternal(domain.ErrUnsupportedOperation)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// record updates the per-operation metrics after a carrier call.
func record(carrierName, operation string, started time.Time, success bool, err error) {
	name := strings.ToLower(carrierName)
	metrics.CarrierRequestDuration.WithLabelValues(name, operation).Observe(time.Since(started).Seconds())

	outcome := "success"
	switch {
	case err != nil:
		outcome = "transport_error"
		var te *domain.TransportError
		if !errors.As(err, &te) {
			outcome = "error"
		}
	case !success:
		outcome = "carrier_failure"
	}
	metrics.CarrierRequestsTotal.WithLabelValues(name, operation, outcome).Inc()
}
