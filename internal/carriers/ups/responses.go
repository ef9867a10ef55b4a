package ups

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/units"
	"github.com/99minutos/carrier-gateway/internal/xmlutil"
)

// responseSuccess applies the UPS success predicate. The status code lives
// at a different depth for legacy-XML and SOAP replies, so both paths are
// probed.
func responseSuccess(doc *etree.Document) bool {
	if xmlutil.FindText(&doc.Element, "/*/Response/ResponseStatusCode") == "1" {
		return true
	}
	return xmlutil.FindText(&doc.Element, "/*/*/*/Response/ResponseStatus/Code") == "1"
}

// responseMessage extracts the most specific status text available.
func responseMessage(doc *etree.Document) string {
	for _, path := range []string{
		"/*/Response/Error/ErrorDescription",
		"/*/Response/ResponseStatusDescription",
		"/*/*/*/Response/ResponseStatus/Description",
	} {
		if msg := xmlutil.FindText(&doc.Element, path); msg != "" {
			return msg
		}
	}
	return ""
}

// malformed builds the failure envelope for responses missing expected
// structure. Parsers return this rather than panicking.
func malformed(body []byte, what string) domain.Response {
	return domain.Response{
		Success: false,
		Message: "malformed carrier response: " + what,
		RawBody: body,
	}
}

func envelope(doc *etree.Document, body []byte) domain.Response {
	return domain.Response{
		Success: responseSuccess(doc),
		Message: responseMessage(doc),
		RawBody: body,
	}
}

// rated-shipment charge nodes, in the order UPS reports them.
var surchargeNodes = []string{"TransportationCharges", "ServiceOptionsCharges", "TotalCharges"}

func (a *Adapter) parseRateResponse(origin, destination domain.Location, packages []domain.Package, body []byte) *domain.RateResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.RateResponse{Response: malformed(body, "not well-formed XML")}
	}

	resp := &domain.RateResponse{Response: envelope(doc, body)}
	if !resp.Success {
		return resp
	}

	for _, rated := range doc.FindElements("/*/RatedShipment") {
		code := xmlutil.FindText(rated, "Service/Code")
		name := serviceNameFor(origin, code)

		var deliveryRange []time.Time
		if days, _ := strconv.Atoi(xmlutil.FindText(rated, "GuaranteedDaysToDelivery")); days > 0 {
			deliveryRange = []time.Time{businessDaysFrom(time.Now().UTC(), days)}
		}

		var surcharges []domain.Surcharge
		for _, node := range surchargeNodes {
			charge := rated.FindElement(node)
			if charge == nil {
				continue
			}
			surcharges = append(surcharges, domain.Surcharge{
				Name:     node,
				Code:     node,
				Currency: units.CorrectCurrency(xmlutil.FindText(charge, "CurrencyCode")),
				Amount:   xmlutil.FindText(charge, "MonetaryValue"),
			})
		}

		total, _ := strconv.ParseFloat(xmlutil.FindText(rated, "TotalCharges/MonetaryValue"), 64)
		resp.Rates = append(resp.Rates, domain.RateEstimate{
			Origin:        origin,
			Destination:   destination,
			Carrier:       carrierName,
			ServiceName:   name,
			ServiceCode:   strings.ReplaceAll(strings.ToUpper(name), " ", "_"),
			TotalPrice:    total,
			Currency:      units.CorrectCurrency(xmlutil.FindText(rated, "TotalCharges/CurrencyCode")),
			Packages:      packages,
			DeliveryRange: deliveryRange,
			Surcharges:    surcharges,
		})
	}

	// a structurally fine reply with zero priced services is still a failure
	if len(resp.Rates) == 0 {
		resp.Success = false
		resp.Message = "No shipping rates could be found for the destination address"
	}
	return resp
}

// businessDaysFrom walks forward day by day, counting only weekdays.
func businessDaysFrom(t time.Time, days int) time.Time {
	for days > 0 {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days--
		}
	}
	return t
}

var outForDeliveryPattern = regexp.MustCompile(`(?i)out.*delivery`)

func (a *Adapter) parseTrackingResponse(body []byte) *domain.TrackingResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.TrackingResponse{Response: malformed(body, "not well-formed XML")}
	}

	resp := &domain.TrackingResponse{Response: envelope(doc, body)}
	if !resp.Success {
		return resp
	}

	shipment := doc.FindElement("/*/Shipment")
	if shipment == nil {
		resp.Response = malformed(body, "Shipment element missing")
		return resp
	}

	trackingNumber := xmlutil.FindText(shipment, "ShipmentIdentificationNumber")
	if trackingNumber == "" {
		trackingNumber = xmlutil.FindText(shipment, "Package/TrackingNumber")
	}

	statusCode := xmlutil.FindText(shipment, "Package/Activity/Status/StatusType/Code")
	statusDescription := xmlutil.FindText(shipment, "Package/Activity/Status/StatusType/Description")
	status := normalizeTrackingStatus(statusCode)
	// carriers report out-for-delivery as an "in transit" code with only
	// the description telling the difference
	if outForDeliveryPattern.MatchString(statusDescription) {
		status = domain.StatusOutForDelivery
	}
	delivered := status == domain.StatusDelivered

	origin := locationFromAddress(shipment.FindElement("Shipper/Address"))
	destination := locationFromAddress(shipment.FindElement("ShipTo/Address"))

	var scheduled *time.Time
	if !delivered {
		if t, ok := parseDateClock(xmlutil.FindText(shipment, "ScheduledDeliveryDate"), xmlutil.FindText(shipment, "ScheduledDeliveryTime")); ok {
			scheduled = &t
		}
	}

	var events []domain.ShipmentEvent
	for _, activity := range shipment.FindElements("Package/Activity") {
		when, ok := parseDateClock(xmlutil.FindText(activity, "Date"), xmlutil.FindText(activity, "Time"))
		if !ok {
			continue
		}
		loc := locationFromAddress(activity.FindElement("ActivityLocation/Address"))
		event := domain.ShipmentEvent{
			Description: xmlutil.FindText(activity, "Status/StatusType/Description"),
			Time:        when,
		}
		if loc != nil {
			event.Location = *loc
		}
		events = append(events, event)
	}
	sortEventsByTime(events)

	// Archived shipments come back with the origin scan stripped. Restore
	// it, except for the single-event delivered case where UPS keeps only
	// the delivery scan on purpose.
	if origin != nil && len(events) > 0 && !(len(events) == 1 && delivered) {
		first := events[0]
		if sameArea(*origin, first.Location) {
			events[0].Location = *origin
		} else {
			events = append([]domain.ShipmentEvent{{
				Description: first.Description,
				Time:        first.Time,
				Location:    *origin,
			}}, events...)
		}
	}

	if delivered && len(events) > 0 {
		if destination == nil {
			loc := events[len(events)-1].Location
			destination = &loc
		}
		events[len(events)-1].Location = *destination
	}

	resp.Tracking = &domain.TrackingResult{
		TrackingNumber:    trackingNumber,
		Status:            status,
		StatusCode:        statusCode,
		StatusDescription: statusDescription,
		Origin:            origin,
		Destination:       destination,
		ScheduledDelivery: scheduled,
		Events:            events,
		Delivered:         delivered,
		Exception:         status == domain.StatusException,
	}
	return resp
}

func sortEventsByTime(events []domain.ShipmentEvent) {
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].Time.Before(events[j-1].Time); j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}

// sameArea reports whether an event location plausibly is the shipment
// origin: same country, and either no city on the event or the same city.
func sameArea(origin domain.Location, loc domain.Location) bool {
	if !strings.EqualFold(origin.CountryCode, loc.CountryCode) {
		return false
	}
	return loc.City == "" || strings.EqualFold(origin.City, loc.City)
}

func locationFromAddress(address *etree.Element) *domain.Location {
	if address == nil {
		return nil
	}
	loc := &domain.Location{
		City:        xmlutil.FindText(address, "City"),
		Province:    xmlutil.FindText(address, "StateProvinceCode"),
		PostalCode:  xmlutil.FindText(address, "PostalCode"),
		CountryCode: xmlutil.FindText(address, "CountryCode"),
	}
	for _, line := range []string{"AddressLine1", "AddressLine2", "AddressLine3"} {
		if v := xmlutil.FindText(address, line); v != "" {
			loc.StreetLines = append(loc.StreetLines, v)
		}
	}
	return loc
}

// parseDateClock combines the YYYYMMDD date and HHMMSS clock fields of an
// activity into a UTC timestamp. The feed carries no zone.
func parseDateClock(date, clock string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	layout, value := "20060102", date
	switch len(clock) {
	case 6:
		layout, value = "20060102 150405", date+" "+clock
	case 4:
		layout, value = "20060102 1504", date+" "+clock
	}
	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (a *Adapter) parseShippingResponse(body []byte) *domain.ShippingResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.ShippingResponse{Response: malformed(body, "not well-formed XML")}
	}

	resp := &domain.ShippingResponse{Response: envelope(doc, body)}
	if !resp.Success {
		return resp
	}

	results := doc.FindElement("/Envelope/Body/ShipmentResponse/ShipmentResults")
	if results == nil {
		resp.Response = malformed(body, "ShipmentResults element missing")
		return resp
	}

	shipment := &domain.ShipmentResult{
		Charges: domain.ShipmentCharges{
			Transportation: chargeAt(results, "ShipmentCharges/TransportationCharges"),
			ServiceOptions: chargeAt(results, "ShipmentCharges/ServiceOptionsCharges"),
			Total:          chargeAt(results, "ShipmentCharges/TotalCharges"),
		},
		BillingWeight: domain.BillingWeight{
			UnitCode:        xmlutil.FindText(results, "BillingWeight/UnitOfMeasurement/Code"),
			UnitDescription: xmlutil.FindText(results, "BillingWeight/UnitOfMeasurement/Description"),
			Weight:          xmlutil.FindText(results, "BillingWeight/Weight"),
		},
		ShipmentID: xmlutil.FindText(results, "ShipmentIdentificationNumber"),
	}
	for _, pkg := range results.FindElements("PackageResults") {
		shipment.PackageResults = append(shipment.PackageResults, domain.PackageShippingResult{
			TrackingNumber:        xmlutil.FindText(pkg, "TrackingNumber"),
			ServiceOptionsCharges: chargeAt(pkg, "ServiceOptionsCharges"),
			Label: domain.ShippingLabel{
				ImageFormat:        xmlutil.FindText(pkg, "ShippingLabel/ImageFormat/Code"),
				GraphicImageBase64: xmlutil.FindText(pkg, "ShippingLabel/GraphicImage"),
				HTMLImageBase64:    xmlutil.FindText(pkg, "ShippingLabel/HTMLImage"),
			},
		})
	}
	resp.Shipment = shipment
	return resp
}

func chargeAt(el *etree.Element, path string) domain.Charge {
	node := el.FindElement(path)
	if node == nil {
		return domain.Charge{}
	}
	return domain.Charge{
		Currency: xmlutil.FindText(node, "CurrencyCode"),
		Amount:   xmlutil.FindText(node, "MonetaryValue"),
	}
}

func (a *Adapter) parseCourierDispatchResponse(body []byte) *domain.DispatchResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.DispatchResponse{Response: malformed(body, "not well-formed XML")}
	}

	resp := &domain.DispatchResponse{Response: envelope(doc, body)}
	if !resp.Success {
		return resp
	}

	root := doc.FindElement("/Envelope/Body/PickupCreationResponse")
	if root == nil {
		resp.Response = malformed(body, "PickupCreationResponse element missing")
		return resp
	}

	confirmation := &domain.DispatchConfirmation{
		ConfirmationNumber: xmlutil.FindText(root, "PRN"),
	}
	// a rated pickup reports its charge alongside the confirmation
	if xmlutil.FindText(root, "RateResult/RateStatus/Code") == "01" {
		confirmation.TotalCharge = &domain.Charge{
			Currency: xmlutil.FindText(root, "RateResult/CurrencyCode"),
			Amount:   xmlutil.FindText(root, "RateResult/GrandTotalOfAllCharge"),
		}
	}
	resp.Confirmation = confirmation
	return resp
}

func (a *Adapter) parseCourierDispatchCancelResponse(body []byte) *domain.Response {
	doc := xmlutil.Parse(body)
	if doc == nil {
		r := malformed(body, "not well-formed XML")
		return &r
	}
	r := envelope(doc, body)
	return &r
}

func (a *Adapter) parseCancelShipmentResponse(body []byte) *domain.VoidResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.VoidResponse{Response: malformed(body, "not well-formed XML")}
	}

	resp := &domain.VoidResponse{Response: envelope(doc, body)}
	root := doc.FindElement("/Envelope/Body/VoidShipmentResponse")
	if root == nil {
		if resp.Success {
			resp.Response = malformed(body, "VoidShipmentResponse element missing")
		}
		return resp
	}

	resp.Void = &domain.VoidResult{
		Status: domain.StatusPair{
			Code:        xmlutil.FindText(root, "Response/ResponseStatus/Code"),
			Description: xmlutil.FindText(root, "Response/ResponseStatus/Description"),
		},
		TransactionReference: domain.TransactionReference{
			CustomerContext:       xmlutil.FindText(root, "Response/TransactionReference/CustomerContext"),
			TransactionIdentifier: xmlutil.FindText(root, "Response/TransactionReference/TransactionIdentifier"),
		},
		SummaryResult: domain.StatusPair{
			Code:        xmlutil.FindText(root, "SummaryResult/Status/Code"),
			Description: xmlutil.FindText(root, "SummaryResult/Status/Description"),
		},
	}
	return resp
}
