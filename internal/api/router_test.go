package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
	"github.com/99minutos/carrier-gateway/internal/core/service"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubCarrier struct {
	name string
}

func (s *stubCarrier) Name() string    { return s.name }
func (s *stubCarrier) RetrySafe() bool { return true }

func (s *stubCarrier) FindRates(context.Context, domain.Location, domain.Location, []domain.Package, *ports.RequestOptions) (*domain.RateResponse, error) {
	return &domain.RateResponse{
		Response: domain.Response{Success: true},
		Rates:    []domain.RateEstimate{{Carrier: s.name, ServiceCode: "UPS_GROUND", TotalPrice: 11.5, Currency: "USD"}},
	}, nil
}

func (s *stubCarrier) FindTrackingInfo(context.Context, string, *ports.RequestOptions) (*domain.TrackingResponse, error) {
	return &domain.TrackingResponse{
		Response: domain.Response{Success: true},
		Tracking: &domain.TrackingResult{TrackingNumber: "1Z1", Status: domain.StatusInTransit},
	}, nil
}

func (s *stubCarrier) CourierDispatch(context.Context, ports.DispatchRequest, *ports.RequestOptions) (*domain.DispatchResponse, error) {
	return &domain.DispatchResponse{Response: domain.Response{Success: true}}, nil
}

func (s *stubCarrier) RequestShipping(context.Context, ports.ShippingRequest, *ports.RequestOptions) (*domain.ShippingResponse, error) {
	return &domain.ShippingResponse{Response: domain.Response{Success: true}}, nil
}

type stubEnqueuer struct{}

func (stubEnqueuer) Enqueue(ports.TrackingRefreshJob) {}

// the prometheus middleware registers collectors in the default registry,
// so the router must be constructed exactly once per test binary
var (
	routerOnce sync.Once
	router     *echo.Echo
)

const testSecret = "secret"

func testRouter() *echo.Echo {
	routerOnce.Do(func() {
		registry := service.NewRegistry()
		registry.Register(&stubCarrier{name: "UPS"})
		router = NewRouter(registry, stubEnqueuer{}, testSecret, true, zerolog.Nop())
	})
	return router
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"client_id": "client_1",
		"role":      role,
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_HealthNeedsNoAuth(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ups") {
		t.Fatalf("readiness should list carriers: %s", rec.Body.String())
	}
}

func TestRouter_CarrierRoutesRequireToken(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/v1/carriers/ups/tracking/1Z1", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_TrackingWithClientRole(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/v1/carriers/ups/tracking/1Z1", signToken(t, "client"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"tracking_number":"1Z1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_ClientCannotMutate(t *testing.T) {
	rec := doRequest(t, http.MethodDelete, "/v1/carriers/ups/shipments/1Z1", signToken(t, "client"), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRouter_UnknownCarrierIs404(t *testing.T) {
	rec := doRequest(t, http.MethodGet, "/v1/carriers/dhl/tracking/1Z1", signToken(t, "client"), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "unknown carrier") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_UnsupportedCapabilityIs501(t *testing.T) {
	// the stub registers no canceler capability
	rec := doRequest(t, http.MethodDelete, "/v1/carriers/ups/shipments/1Z1", signToken(t, "ops"), "")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RatesRoundTrip(t *testing.T) {
	body := `{
  "origin": {"country_code": "US"},
  "destination": {"country_code": "CA"},
  "packages": [{"weight": {"value": 5, "unit": "lb"}}]
}`
	rec := doRequest(t, http.MethodPost, "/v1/carriers/ups/rates", signToken(t, "client"), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"service_code":"UPS_GROUND"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
