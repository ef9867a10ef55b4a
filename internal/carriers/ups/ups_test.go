package ups

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubTransport struct {
	responses [][]byte
	err       error

	urls     []string
	requests [][]byte
}

func (s *stubTransport) Post(_ context.Context, url string, body []byte) ([]byte, error) {
	s.urls = append(s.urls, url)
	s.requests = append(s.requests, body)
	if s.err != nil {
		return nil, s.err
	}
	idx := len(s.urls) - 1
	if idx >= len(s.responses) {
		return nil, nil
	}
	return s.responses[idx], nil
}

func testCredentials() Credentials {
	return Credentials{
		AccessLicenseKey:   "license",
		UserID:             "login",
		Password:           "secret",
		AccountNumber:      "A1B2C3",
		AccountCountryCode: "US",
	}
}

func newTestAdapter(t *testing.T, transport *stubTransport) *Adapter {
	t.Helper()
	a, err := New(testCredentials(), transport, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func usOrigin() domain.Location {
	return domain.Location{
		StreetLines: []string{"100 Main St"},
		City:        "Boston",
		Province:    "MA",
		PostalCode:  "02108",
		CountryCode: "US",
		Phone:       "(617) 555-0100",
	}
}

func caDestination() domain.Location {
	return domain.Location{
		City:        "Ottawa",
		Province:    "ON",
		PostalCode:  "K1P 1J1",
		CountryCode: "CA",
	}
}

func fivePoundBox() domain.Package {
	return domain.Package{
		Weight: domain.Measurement{Value: 5, Unit: domain.UnitPounds},
		Length: domain.Measurement{Value: 10, Unit: domain.UnitInches},
		Width:  domain.Measurement{Value: 8, Unit: domain.UnitInches},
		Height: domain.Measurement{Value: 6, Unit: domain.UnitInches},
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew_MissingCredential(t *testing.T) {
	creds := testCredentials()
	creds.Password = ""

	transport := &stubTransport{}
	_, err := New(creds, transport, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected error for missing password")
	}
	if !strings.Contains(err.Error(), "password") {
		t.Fatalf("error should name the credential: %v", err)
	}
	if len(transport.urls) != 0 {
		t.Fatalf("transport must not be invoked for a config fault")
	}
}

// ---------------------------------------------------------------------------
// Rates
// ---------------------------------------------------------------------------

const rateFixture = `<?xml version="1.0"?>
<RatingServiceSelectionResponse>
  <Response><ResponseStatusCode>1</ResponseStatusCode></Response>
  <RatedShipment>
    <Service><Code>03</Code></Service>
    <GuaranteedDaysToDelivery>2</GuaranteedDaysToDelivery>
    <TransportationCharges><CurrencyCode>USD</CurrencyCode><MonetaryValue>10.00</MonetaryValue></TransportationCharges>
    <ServiceOptionsCharges><CurrencyCode>USD</CurrencyCode><MonetaryValue>1.50</MonetaryValue></ServiceOptionsCharges>
    <TotalCharges><CurrencyCode>USD</CurrencyCode><MonetaryValue>11.50</MonetaryValue></TotalCharges>
  </RatedShipment>
  <RatedShipment>
    <Service><Code>01</Code></Service>
    <GuaranteedDaysToDelivery>0</GuaranteedDaysToDelivery>
    <TransportationCharges><CurrencyCode>UKL</CurrencyCode><MonetaryValue>40.00</MonetaryValue></TransportationCharges>
    <ServiceOptionsCharges><CurrencyCode>UKL</CurrencyCode><MonetaryValue>0.00</MonetaryValue></ServiceOptionsCharges>
    <TotalCharges><CurrencyCode>UKL</CurrencyCode><MonetaryValue>40.00</MonetaryValue></TotalCharges>
  </RatedShipment>
</RatingServiceSelectionResponse>`

func TestFindRates_RequestShape(t *testing.T) {
	transport := &stubTransport{responses: [][]byte{[]byte(rateFixture)}}
	a := newTestAdapter(t, transport)

	_, err := a.FindRates(context.Background(), usOrigin(), caDestination(), []domain.Package{fivePoundBox()}, &ports.RequestOptions{Test: true})
	if err != nil {
		t.Fatalf("FindRates: %v", err)
	}

	if got := transport.urls[0]; got != "https://wwwcie.ups.com/ups.app/xml/Rate" {
		t.Fatalf("unexpected url %s", got)
	}

	request := string(transport.requests[0])
	for _, want := range []string{
		"<AccessRequest>",
		"<AccessLicenseNumber>license</AccessLicenseNumber>",
		"<RatingServiceSelectionRequest>",
		"<RequestOption>Shop</RequestOption>",
		"<PhoneNumber>6175550100</PhoneNumber>",
		"<StateProvinceCode>MA</StateProvinceCode>",
		"<ResidentialAddressIndicator>true</ResidentialAddressIndicator>",
		"<Code>LBS</Code>",
		"<Code>IN</Code>",
		"<Weight>5.0</Weight>",
		"<Length>10.0</Length>",
	} {
		if !strings.Contains(request, want) {
			t.Fatalf("request missing %s:\n%s", want, request)
		}
	}
}

func TestFindRates_ParsesEstimates(t *testing.T) {
	transport := &stubTransport{responses: [][]byte{[]byte(rateFixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.FindRates(context.Background(), usOrigin(), caDestination(), []domain.Package{fivePoundBox()}, nil)
	if err != nil {
		t.Fatalf("FindRates: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success: %s", resp.Message)
	}
	if len(resp.Rates) != 2 {
		t.Fatalf("expected 2 rates, got %d", len(resp.Rates))
	}

	ground := resp.Rates[0]
	if ground.ServiceName != "UPS Ground" || ground.ServiceCode != "UPS_GROUND" {
		t.Fatalf("unexpected service naming: %q / %q", ground.ServiceName, ground.ServiceCode)
	}
	if ground.TotalPrice != 11.50 || ground.Currency != "USD" {
		t.Fatalf("unexpected total: %v %s", ground.TotalPrice, ground.Currency)
	}
	if len(ground.Surcharges) != 3 {
		t.Fatalf("expected 3 surcharges, got %d", len(ground.Surcharges))
	}
	if ground.Surcharges[0].Name != "TransportationCharges" || ground.Surcharges[2].Name != "TotalCharges" {
		t.Fatalf("surcharge order lost: %+v", ground.Surcharges)
	}
	if ground.Surcharges[0].Code != "TransportationCharges" {
		t.Fatalf("surcharge code should repeat the charge name, got %q", ground.Surcharges[0].Code)
	}
	if len(ground.DeliveryRange) != 1 {
		t.Fatalf("guaranteed days should produce a delivery date")
	}
	if wd := ground.DeliveryRange[0].Weekday(); wd == time.Saturday || wd == time.Sunday {
		t.Fatalf("delivery date must be a weekday, got %s", wd)
	}

	air := resp.Rates[1]
	if air.Currency != "GBP" {
		t.Fatalf("UKL should be corrected to GBP, got %s", air.Currency)
	}
	if len(air.DeliveryRange) != 0 {
		t.Fatalf("zero guaranteed days must not produce a delivery date")
	}
}

func TestFindRates_EmptyReplyIsFailure(t *testing.T) {
	fixture := `<RatingServiceSelectionResponse>
  <Response>
    <ResponseStatusCode>1</ResponseStatusCode>
    <ResponseStatusDescription>Success</ResponseStatusDescription>
  </Response>
</RatingServiceSelectionResponse>`

	transport := &stubTransport{responses: [][]byte{[]byte(fixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.FindRates(context.Background(), usOrigin(), caDestination(), []domain.Package{fivePoundBox()}, nil)
	if err != nil {
		t.Fatalf("FindRates: %v", err)
	}
	if resp.Success {
		t.Fatalf("a reply without rated shipments is a failure")
	}
	if resp.Message == "" {
		t.Fatalf("failure must carry a message")
	}
	if len(resp.Rates) != 0 {
		t.Fatalf("unexpected rates: %+v", resp.Rates)
	}
}

func TestFindRates_NoPackages(t *testing.T) {
	a := newTestAdapter(t, &stubTransport{})
	_, err := a.FindRates(context.Background(), usOrigin(), caDestination(), nil, nil)
	if err != domain.ErrNoPackages {
		t.Fatalf("expected ErrNoPackages, got %v", err)
	}
}

func TestFindRates_CarrierFailure(t *testing.T) {
	failure := `<RatingServiceSelectionResponse>
  <Response>
    <ResponseStatusCode>0</ResponseStatusCode>
    <ResponseStatusDescription>Failure</ResponseStatusDescription>
    <Error><ErrorDescription>Invalid shipper number</ErrorDescription></Error>
  </Response>
</RatingServiceSelectionResponse>`

	transport := &stubTransport{responses: [][]byte{[]byte(failure)}}
	a := newTestAdapter(t, transport)

	resp, err := a.FindRates(context.Background(), usOrigin(), caDestination(), []domain.Package{fivePoundBox()}, nil)
	if err != nil {
		t.Fatalf("carrier-reported failures are not Go errors: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected failure")
	}
	if resp.Message != "Invalid shipper number" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if len(resp.Rates) != 0 {
		t.Fatalf("failed response must carry no rates")
	}
}

// ---------------------------------------------------------------------------
// Tracking
// ---------------------------------------------------------------------------

const deliveredTrackingFixture = `<TrackResponse>
  <Response><ResponseStatusCode>1</ResponseStatusCode></Response>
  <Shipment>
    <ShipmentIdentificationNumber>1Z12345E0291980793</ShipmentIdentificationNumber>
    <Shipper><Address><City>Ottawa</City><CountryCode>CA</CountryCode></Address></Shipper>
    <ShipTo><Address><City>Boston</City><StateProvinceCode>MA</StateProvinceCode><CountryCode>US</CountryCode></Address></ShipTo>
    <ScheduledDeliveryDate>20240510</ScheduledDeliveryDate>
    <Package>
      <TrackingNumber>1Z12345E0291980793</TrackingNumber>
      <Activity>
        <Status><StatusType><Code>D</Code><Description>DELIVERED</Description></StatusType></Status>
        <Date>20240510</Date><Time>120000</Time>
        <ActivityLocation><Address><City>Boston</City><CountryCode>US</CountryCode></Address></ActivityLocation>
      </Activity>
      <Activity>
        <Status><StatusType><Code>I</Code><Description>ORIGIN SCAN</Description></StatusType></Status>
        <Date>20240508</Date><Time>090000</Time>
        <ActivityLocation><Address><City>Ottawa</City><CountryCode>CA</CountryCode></Address></ActivityLocation>
      </Activity>
    </Package>
  </Shipment>
</TrackResponse>`

func TestFindTrackingInfo_Delivered(t *testing.T) {
	transport := &stubTransport{responses: [][]byte{[]byte(deliveredTrackingFixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.FindTrackingInfo(context.Background(), "1Z12345E0291980793", nil)
	if err != nil {
		t.Fatalf("FindTrackingInfo: %v", err)
	}
	tr := resp.Tracking
	if tr == nil {
		t.Fatalf("missing tracking result")
	}

	if tr.TrackingNumber != "1Z12345E0291980793" {
		t.Fatalf("unexpected tracking number %q", tr.TrackingNumber)
	}
	if tr.Status != domain.StatusDelivered || !tr.Delivered || tr.Exception {
		t.Fatalf("unexpected flags: status=%s delivered=%v exception=%v", tr.Status, tr.Delivered, tr.Exception)
	}
	if tr.ScheduledDelivery != nil {
		t.Fatalf("delivered shipments carry no scheduled delivery")
	}

	if len(tr.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(tr.Events))
	}
	if !tr.Events[0].Time.Before(tr.Events[1].Time) {
		t.Fatalf("events not sorted oldest first")
	}
	if tr.Events[0].Location.City != "Ottawa" {
		t.Fatalf("first event should carry the origin, got %+v", tr.Events[0].Location)
	}
	// once delivered the final event is pinned to the destination address
	if tr.Events[1].Location.Province != "MA" {
		t.Fatalf("final event should carry the destination, got %+v", tr.Events[1].Location)
	}
}

func TestFindTrackingInfo_OutForDeliveryOverride(t *testing.T) {
	fixture := `<TrackResponse>
  <Response><ResponseStatusCode>1</ResponseStatusCode></Response>
  <Shipment>
    <ShipmentIdentificationNumber>1Z999</ShipmentIdentificationNumber>
    <Shipper><Address><City>Boston</City><CountryCode>US</CountryCode></Address></Shipper>
    <ScheduledDeliveryDate>20240511</ScheduledDeliveryDate>
    <Package>
      <TrackingNumber>1Z999</TrackingNumber>
      <Activity>
        <Status><StatusType><Code>I</Code><Description>OUT FOR DELIVERY TODAY</Description></StatusType></Status>
        <Date>20240511</Date><Time>083000</Time>
        <ActivityLocation><Address><City>Boston</City><CountryCode>US</CountryCode></Address></ActivityLocation>
      </Activity>
    </Package>
  </Shipment>
</TrackResponse>`

	transport := &stubTransport{responses: [][]byte{[]byte(fixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.FindTrackingInfo(context.Background(), "1Z999", nil)
	if err != nil {
		t.Fatalf("FindTrackingInfo: %v", err)
	}
	tr := resp.Tracking
	if tr.Status != domain.StatusOutForDelivery {
		t.Fatalf("description should override the code, got %s", tr.Status)
	}
	if tr.Delivered {
		t.Fatalf("out for delivery is not delivered")
	}
	if tr.ScheduledDelivery == nil {
		t.Fatalf("undelivered shipment should keep its scheduled delivery")
	}
	if got := tr.ScheduledDelivery.Format("2006-01-02"); got != "2024-05-11" {
		t.Fatalf("unexpected scheduled delivery %s", got)
	}
}

func TestFindTrackingInfo_MalformedBody(t *testing.T) {
	transport := &stubTransport{responses: [][]byte{[]byte("not xml at all <")}}
	a := newTestAdapter(t, transport)

	resp, err := a.FindTrackingInfo(context.Background(), "1Z1", nil)
	if err != nil {
		t.Fatalf("malformed bodies are reported, not returned: %v", err)
	}
	if resp.Success {
		t.Fatalf("malformed body cannot be a success")
	}
	if !strings.Contains(resp.Message, "malformed") {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

// ---------------------------------------------------------------------------
// Address validation (two-phase)
// ---------------------------------------------------------------------------

const cityOKFixture = `<AddressValidationResponse>
  <Response><ResponseStatusCode>1</ResponseStatusCode></Response>
</AddressValidationResponse>`

const cityFailFixture = `<AddressValidationResponse>
  <Response>
    <ResponseStatusCode>0</ResponseStatusCode>
    <Error>
      <ErrorCode>20008</ErrorCode>
      <ErrorSeverity>Hard</ErrorSeverity>
      <ErrorDescription>The field, City, contains invalid data</ErrorDescription>
    </Error>
  </Response>
</AddressValidationResponse>`

const streetOKFixture = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <xav:XAVResponse xmlns:xav="http://www.ups.com/XMLSchema/XOLTWS/xav/v1.0">
      <common:Response xmlns:common="http://www.ups.com/XMLSchema/XOLTWS/Common/v1.0">
        <common:ResponseStatus><common:Code>1</common:Code><common:Description>Success</common:Description></common:ResponseStatus>
      </common:Response>
      <xav:ValidAddressIndicator/>
      <xav:AddressClassification><xav:Code>2</xav:Code><xav:Description>Residential</xav:Description></xav:AddressClassification>
      <xav:Candidate>
        <xav:AddressClassification><xav:Code>2</xav:Code><xav:Description>Residential</xav:Description></xav:AddressClassification>
        <xav:AddressKeyFormat>
          <xav:AddressLine>100 MAIN ST</xav:AddressLine>
          <xav:PoliticalDivision2>BOSTON</xav:PoliticalDivision2>
          <xav:PoliticalDivision1>MA</xav:PoliticalDivision1>
          <xav:PostcodePrimaryLow>02108</xav:PostcodePrimaryLow>
          <xav:CountryCode>US</xav:CountryCode>
        </xav:AddressKeyFormat>
      </xav:Candidate>
    </xav:XAVResponse>
  </soapenv:Body>
</soapenv:Envelope>`

func TestValidateAddress_TwoPhase(t *testing.T) {
	transport := &stubTransport{responses: [][]byte{[]byte(cityOKFixture), []byte(streetOKFixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.ValidateAddress(context.Background(), usOrigin(), &ports.RequestOptions{Test: true})
	if err != nil {
		t.Fatalf("ValidateAddress: %v", err)
	}
	if len(transport.urls) != 2 {
		t.Fatalf("expected city then street call, got %d calls", len(transport.urls))
	}
	if !strings.HasPrefix(transport.urls[0], "https://wwwcie.ups.com/") {
		t.Fatalf("city call should honour test mode: %s", transport.urls[0])
	}
	// the street endpoint is production-only regardless of test mode
	if transport.urls[1] != "https://onlinetools.ups.com/webservices/XAV" {
		t.Fatalf("unexpected street url %s", transport.urls[1])
	}

	cityRequest := string(transport.requests[0])
	if strings.Count(cityRequest, "<?xml version='1.0'?>") != 2 {
		t.Fatalf("city request must carry both document declarations:\n%s", cityRequest)
	}

	v := resp.Verification
	if !v.CityLevelStatus || v.StreetLevelStatus == nil || !*v.StreetLevelStatus {
		t.Fatalf("unexpected phase statuses: %+v", v)
	}
	if !v.Valid || !resp.Success {
		t.Fatalf("both phases passed, expected valid")
	}
	if !v.ValidAddress {
		t.Fatalf("ValidAddressIndicator should set ValidAddress")
	}
	if v.Classification == nil || v.Classification.Code != "2" {
		t.Fatalf("missing classification: %+v", v.Classification)
	}
	if len(v.Candidates) != 1 || v.Candidates[0].Location.City != "BOSTON" {
		t.Fatalf("unexpected candidates: %+v", v.Candidates)
	}
}

func TestValidateAddress_StreetSkippedOnCityFailure(t *testing.T) {
	transport := &stubTransport{responses: [][]byte{[]byte(cityFailFixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.ValidateAddress(context.Background(), usOrigin(), nil)
	if err != nil {
		t.Fatalf("ValidateAddress: %v", err)
	}
	if len(transport.urls) != 1 {
		t.Fatalf("street call must not be issued after a city failure")
	}

	v := resp.Verification
	if v.CityLevelStatus || v.Valid || resp.Success {
		t.Fatalf("expected overall failure: %+v", v)
	}
	if v.StreetLevelStatus != nil {
		t.Fatalf("street status must stay unset when the street call never ran")
	}
	if v.Err == nil || v.Err.Code != "20008" || v.Err.Severity != "Hard" {
		t.Fatalf("carrier error payload lost: %+v", v.Err)
	}
}

// ---------------------------------------------------------------------------
// Shipping
// ---------------------------------------------------------------------------

const shipFixture = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <ship:ShipmentResponse xmlns:ship="http://www.ups.com/XMLSchema/XOLTWS/Ship/v1.0">
      <common:Response xmlns:common="http://www.ups.com/XMLSchema/XOLTWS/Common/v1.0">
        <common:ResponseStatus><common:Code>1</common:Code><common:Description>Success</common:Description></common:ResponseStatus>
      </common:Response>
      <ship:ShipmentResults>
        <ship:ShipmentCharges>
          <ship:TransportationCharges><ship:CurrencyCode>USD</ship:CurrencyCode><ship:MonetaryValue>12.35</ship:MonetaryValue></ship:TransportationCharges>
          <ship:ServiceOptionsCharges><ship:CurrencyCode>USD</ship:CurrencyCode><ship:MonetaryValue>0.00</ship:MonetaryValue></ship:ServiceOptionsCharges>
          <ship:TotalCharges><ship:CurrencyCode>USD</ship:CurrencyCode><ship:MonetaryValue>12.35</ship:MonetaryValue></ship:TotalCharges>
        </ship:ShipmentCharges>
        <ship:BillingWeight>
          <ship:UnitOfMeasurement><ship:Code>LBS</ship:Code><ship:Description>Pounds</ship:Description></ship:UnitOfMeasurement>
          <ship:Weight>5.0</ship:Weight>
        </ship:BillingWeight>
        <ship:ShipmentIdentificationNumber>1Z2220060292353829</ship:ShipmentIdentificationNumber>
        <ship:PackageResults>
          <ship:TrackingNumber>1Z2220060292353829</ship:TrackingNumber>
          <ship:ServiceOptionsCharges><ship:CurrencyCode>USD</ship:CurrencyCode><ship:MonetaryValue>0.00</ship:MonetaryValue></ship:ServiceOptionsCharges>
          <ship:ShippingLabel>
            <ship:ImageFormat><ship:Code>GIF</ship:Code></ship:ImageFormat>
            <ship:GraphicImage>R0lGODlh</ship:GraphicImage>
            <ship:HTMLImage>PGh0bWw+</ship:HTMLImage>
          </ship:ShippingLabel>
        </ship:PackageResults>
      </ship:ShipmentResults>
    </ship:ShipmentResponse>
  </soapenv:Body>
</soapenv:Envelope>`

func shippingInput() ports.ShippingRequest {
	return ports.ShippingRequest{
		ServiceType: "03",
		ShipperContact: domain.Contact{
			PersonName:    "Acme Returns",
			PhoneNumber:   "617-555-0100",
			ShipperNumber: "A1B2C3",
		},
		ShipperLocation:  usOrigin(),
		RecipientContact: domain.Contact{PersonName: "Jane Doe", PhoneNumber: "613-555-0199"},
		RecipientLocation: domain.Location{
			StreetLines: []string{"50 Elgin St"},
			City:        "Ottawa",
			Province:    "ON",
			PostalCode:  "K1P 1J1",
			CountryCode: "CA",
		},
		PackageLineItems: []domain.PackageLineItem{{Package: fivePoundBox()}},
	}
}

func TestRequestShipping_EnvelopeAndParse(t *testing.T) {
	transport := &stubTransport{responses: [][]byte{[]byte(shipFixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.RequestShipping(context.Background(), shippingInput(), &ports.RequestOptions{Test: true})
	if err != nil {
		t.Fatalf("RequestShipping: %v", err)
	}

	request := string(transport.requests[0])
	for _, want := range []string{
		"<upss:UPSSecurity>",
		"<upss:Username>login</upss:Username>",
		"<upss:AccessLicenseNumber>license</upss:AccessLicenseNumber>",
		"<RequestOption>nonvalidate</RequestOption>",
		"<Type>01</Type>",
		"<AccountNumber>A1B2C3</AccountNumber>",
		"<Code>GIF</Code>",
		"<Code>03</Code>",
	} {
		if !strings.Contains(request, want) {
			t.Fatalf("request missing %s:\n%s", want, request)
		}
	}

	if !resp.Success {
		t.Fatalf("expected success: %s", resp.Message)
	}
	s := resp.Shipment
	if s == nil || s.ShipmentID != "1Z2220060292353829" {
		t.Fatalf("unexpected shipment result: %+v", s)
	}
	if s.Charges.Total.Amount != "12.35" || s.Charges.Total.Currency != "USD" {
		t.Fatalf("unexpected total charge: %+v", s.Charges.Total)
	}
	if s.BillingWeight.UnitCode != "LBS" || s.BillingWeight.Weight != "5.0" {
		t.Fatalf("unexpected billing weight: %+v", s.BillingWeight)
	}
	if len(s.PackageResults) != 1 {
		t.Fatalf("expected one package result")
	}
	label := s.PackageResults[0].Label
	if label.ImageFormat != "GIF" || label.GraphicImageBase64 != "R0lGODlh" || label.HTMLImageBase64 != "PGh0bWw+" {
		t.Fatalf("label fields lost: %+v", label)
	}
}

// ---------------------------------------------------------------------------
// Pickup dispatch and cancellation
// ---------------------------------------------------------------------------

const dispatchFixture = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <p:PickupCreationResponse xmlns:p="http://www.ups.com/XMLSchema/XOLTWS/Pickup/v1.1">
      <common:Response xmlns:common="http://www.ups.com/XMLSchema/XOLTWS/Common/v1.0">
        <common:ResponseStatus><common:Code>1</common:Code><common:Description>Success</common:Description></common:ResponseStatus>
      </common:Response>
      <p:PRN>2929602E9CP</p:PRN>
      <p:RateResult>
        <p:RateStatus><p:Code>01</p:Code></p:RateStatus>
        <p:CurrencyCode>USD</p:CurrencyCode>
        <p:GrandTotalOfAllCharge>15.00</p:GrandTotalOfAllCharge>
      </p:RateResult>
    </p:PickupCreationResponse>
  </soapenv:Body>
</soapenv:Envelope>`

func dispatchInput() ports.DispatchRequest {
	ready := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	return ports.DispatchRequest{
		Contact:                domain.Contact{PersonName: "Acme Shipping"},
		Location:               usOrigin(),
		ReadyTime:              ready,
		CloseTime:              ready.Add(8 * time.Hour),
		PickupDate:             ready,
		PackageCount:           1,
		Packages:               []domain.Package{fivePoundBox()},
		CarrierOrServiceCode:   "01",
		DestinationCountryCode: "CA",
		ContainerCode:          "01",
	}
}

func TestCourierDispatch(t *testing.T) {
	transport := &stubTransport{responses: [][]byte{[]byte(dispatchFixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.CourierDispatch(context.Background(), dispatchInput(), &ports.RequestOptions{Test: true})
	if err != nil {
		t.Fatalf("CourierDispatch: %v", err)
	}

	request := string(transport.requests[0])
	for _, want := range []string{
		"<RatePickupIndicator>Y</RatePickupIndicator>",
		"<ReadyTime>0900</ReadyTime>",
		"<CloseTime>1700</CloseTime>",
		"<PickupDate>20240510</PickupDate>",
		"<ResidentialIndicator>Y</ResidentialIndicator>",
		"<AccountNumber>A1B2C3</AccountNumber>",
		"<PaymentMethod",
		">01</PaymentMethod>",
	} {
		if !strings.Contains(request, want) {
			t.Fatalf("request missing %s:\n%s", want, request)
		}
	}

	if !resp.Success {
		t.Fatalf("expected success: %s", resp.Message)
	}
	conf := resp.Confirmation
	if conf == nil || conf.ConfirmationNumber != "2929602E9CP" {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
	if conf.TotalCharge == nil || conf.TotalCharge.Amount != "15.00" || conf.TotalCharge.Currency != "USD" {
		t.Fatalf("rated pickup charge lost: %+v", conf.TotalCharge)
	}
}

func TestCourierDispatchCancel(t *testing.T) {
	fixture := `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <p:PickupCancelResponse xmlns:p="http://www.ups.com/XMLSchema/XOLTWS/Pickup/v1.1">
      <common:Response xmlns:common="http://www.ups.com/XMLSchema/XOLTWS/Common/v1.0">
        <common:ResponseStatus><common:Code>1</common:Code><common:Description>Success</common:Description></common:ResponseStatus>
      </common:Response>
    </p:PickupCancelResponse>
  </soapenv:Body>
</soapenv:Envelope>`

	transport := &stubTransport{responses: [][]byte{[]byte(fixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.CourierDispatchCancel(context.Background(), "2929602E9CP", nil)
	if err != nil {
		t.Fatalf("CourierDispatchCancel: %v", err)
	}

	request := string(transport.requests[0])
	if !strings.Contains(request, "<CancelBy") || !strings.Contains(request, ">02</CancelBy>") || !strings.Contains(request, "<PRN>2929602E9CP</PRN>") {
		t.Fatalf("cancel request malformed:\n%s", request)
	}
	if !resp.Success {
		t.Fatalf("expected success: %s", resp.Message)
	}
}

// ---------------------------------------------------------------------------
// Void
// ---------------------------------------------------------------------------

func TestCancelShipment(t *testing.T) {
	fixture := `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <v:VoidShipmentResponse xmlns:v="http://www.ups.com/XMLSchema/XOLTWS/Void/v1.1">
      <common:Response xmlns:common="http://www.ups.com/XMLSchema/XOLTWS/Common/v1.0">
        <common:ResponseStatus><common:Code>1</common:Code><common:Description>Success</common:Description></common:ResponseStatus>
        <common:TransactionReference>
          <common:CustomerContext>cancel 1Z</common:CustomerContext>
          <common:TransactionIdentifier>xwssoat1w0132</common:TransactionIdentifier>
        </common:TransactionReference>
      </common:Response>
      <v:SummaryResult><v:Status><v:Code>1</v:Code><v:Description>Success</v:Description></v:Status></v:SummaryResult>
    </v:VoidShipmentResponse>
  </soapenv:Body>
</soapenv:Envelope>`

	transport := &stubTransport{responses: [][]byte{[]byte(fixture)}}
	a := newTestAdapter(t, transport)

	resp, err := a.CancelShipment(context.Background(), "1Z2220060292353829", nil)
	if err != nil {
		t.Fatalf("CancelShipment: %v", err)
	}

	request := string(transport.requests[0])
	if !strings.Contains(request, "<ShipmentIdentificationNumber>1Z2220060292353829</ShipmentIdentificationNumber>") {
		t.Fatalf("void request malformed:\n%s", request)
	}
	if !resp.Success {
		t.Fatalf("expected success: %s", resp.Message)
	}
	if resp.Void == nil || resp.Void.SummaryResult.Code != "1" {
		t.Fatalf("summary result lost: %+v", resp.Void)
	}
	if resp.Void.TransactionReference.TransactionIdentifier != "xwssoat1w0132" {
		t.Fatalf("transaction reference lost: %+v", resp.Void.TransactionReference)
	}
}

// ---------------------------------------------------------------------------
// Static tables
// ---------------------------------------------------------------------------

func TestServiceNameFor_ByOrigin(t *testing.T) {
	cases := []struct {
		country string
		code    string
		want    string
	}{
		{"US", "03", "UPS Ground"},
		{"CA", "01", "UPS Express"},
		{"MX", "07", "UPS Express"},
		{"DE", "07", "UPS Express"},
		{"BR", "07", "UPS Express"},
		{"BR", "08", "UPS Worldwide Expedited"},
		{"US", "99", ""},
	}
	for _, tc := range cases {
		origin := domain.Location{CountryCode: tc.country}
		if got := serviceNameFor(origin, tc.code); got != tc.want {
			t.Fatalf("%s/%s: expected %q, got %q", tc.country, tc.code, tc.want, got)
		}
	}
}

func TestNormalizeTrackingStatus_UnknownCode(t *testing.T) {
	if got := normalizeTrackingStatus("Z"); got != domain.StatusUnknown {
		t.Fatalf("unknown codes map to unknown, got %s", got)
	}
	if got := normalizeTrackingStatus("M"); got != domain.StatusManifestPickup {
		t.Fatalf("expected manifest pickup, got %s", got)
	}
}

func TestUpsifiedLocation_USTerritories(t *testing.T) {
	loc := upsifiedLocation(domain.Location{CountryCode: "US", Province: "PR", City: "San Juan"})
	if loc.CountryCode != "PR" || loc.Province != "" {
		t.Fatalf("Puerto Rico should be submitted as a country: %+v", loc)
	}

	unchanged := upsifiedLocation(domain.Location{CountryCode: "US", Province: "MA"})
	if unchanged.CountryCode != "US" || unchanged.Province != "MA" {
		t.Fatalf("mainland states must pass through: %+v", unchanged)
	}
}

func TestDefaultCustomerClassification(t *testing.T) {
	cases := map[string]string{
		"daily_pickup":     "wholesale",
		"customer_counter": "retail",
		"one_time_pickup":  "occasional",
	}
	for pickup, want := range cases {
		if got := defaultCustomerClassification(pickup); got != want {
			t.Fatalf("%s: expected %s, got %s", pickup, want, got)
		}
	}
}
