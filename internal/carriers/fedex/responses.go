package fedex

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/units"
	"github.com/99minutos/carrier-gateway/internal/xmlutil"
)

// responseSuccess applies the FedEx success predicate: the first
// notification's severity must be SUCCESS, WARNING or NOTE.
func responseSuccess(doc *etree.Document) bool {
	severity := xmlutil.FindText(&doc.Element, "/*/Notifications/Severity")
	switch severity {
	case "SUCCESS", "WARNING", "NOTE":
		return true
	}
	return false
}

// responseMessage builds the human-readable message from the notification
// severity, code and message fields.
func responseMessage(doc *etree.Document) string {
	n := doc.FindElement("/*/Notifications")
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%s - %s: %s",
		xmlutil.FindText(n, "Severity"),
		xmlutil.FindText(n, "Code"),
		xmlutil.FindText(n, "Message"))
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

func (a *Adapter) parseRateResponse(origin, destination domain.Location, packages []domain.Package, body []byte) *domain.RateResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.RateResponse{Response: malformed(body, "not well-formed XML")}
	}
	root := doc.FindElement("/RateReply")
	if root == nil {
		return &domain.RateResponse{Response: malformed(body, "RateReply element missing")}
	}

	resp := &domain.RateResponse{Response: envelope(doc, body)}

	for _, rated := range root.FindElements("RateReplyDetails") {
		serviceCode := xmlutil.FindText(rated, "ServiceType")
		serviceType := serviceCode
		if xmlutil.FindText(rated, "AppliedOptions") == "SATURDAY_DELIVERY" {
			serviceType = serviceCode + "_SATURDAY_DELIVERY"
		}

		currency := units.CorrectCurrency(xmlutil.FindText(rated, "RatedShipmentDetails/ShipmentRateDetail/TotalNetCharge/Currency"))
		total, _ := strconv.ParseFloat(xmlutil.FindText(rated, "RatedShipmentDetails/ShipmentRateDetail/TotalNetCharge/Amount"), 64)

		var deliveryRange []time.Time
		if ts, ok := parseTimestamp(xmlutil.FindText(rated, "DeliveryTimestamp")); ok {
			deliveryRange = []time.Time{ts, ts}
		}

		resp.Rates = append(resp.Rates, domain.RateEstimate{
			Origin:        origin,
			Destination:   destination,
			Carrier:       carrierName,
			ServiceName:   ServiceNameForCode(serviceType),
			ServiceCode:   serviceCode,
			TotalPrice:    total,
			Currency:      currency,
			Packages:      packages,
			DeliveryRange: deliveryRange,
		})
	}

	// a structurally fine reply with zero priced services is still a failure
	if len(resp.Rates) == 0 {
		resp.Success = false
		if strings.TrimSpace(resp.Message) == "" || resp.Message == " - : " {
			resp.Message = "No shipping rates could be found for the destination address"
		}
	}
	return resp
}

func (a *Adapter) parseTrackingResponse(body []byte) *domain.TrackingResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.TrackingResponse{Response: malformed(body, "not well-formed XML")}
	}
	root := doc.FindElement("/TrackReply")
	if root == nil {
		return &domain.TrackingResponse{Response: malformed(body, "TrackReply element missing")}
	}

	resp := &domain.TrackingResponse{Response: envelope(doc, body)}
	if !resp.Success {
		return resp
	}

	details := root.FindElement("TrackDetails")
	if details == nil {
		return &domain.TrackingResponse{Response: malformed(body, "TrackDetails element missing")}
	}

	result := &domain.TrackingResult{
		TrackingNumber:    xmlutil.FindText(details, "TrackingNumber"),
		StatusCode:        xmlutil.FindText(details, "StatusCode"),
		StatusDescription: xmlutil.FindText(details, "StatusDescription"),
	}
	result.Status = normalizeTrackingStatus(result.StatusCode)
	result.Delivered = result.Status == domain.StatusDelivered
	result.Exception = result.Status == domain.StatusException

	if originNode := details.FindElement("OriginLocationAddress"); originNode != nil {
		result.Origin = &domain.Location{
			CountryCode: xmlutil.FindText(originNode, "CountryCode"),
			Province:    xmlutil.FindText(originNode, "StateOrProvinceCode"),
			City:        xmlutil.FindText(originNode, "City"),
		}
	}

	destNode := details.FindElement("DestinationAddress")
	if destNode == nil {
		destNode = details.FindElement("ActualDeliveryAddress")
	}
	if destNode != nil {
		result.Destination = &domain.Location{
			CountryCode: xmlutil.FindText(destNode, "CountryCode"),
			Province:    xmlutil.FindText(destNode, "StateOrProvinceCode"),
			City:        xmlutil.FindText(destNode, "City"),
		}
	}

	if result.Status != domain.StatusDelivered {
		if ts, ok := parseTimestamp(xmlutil.FindText(details, "EstimatedDeliveryTimestamp")); ok {
			result.ScheduledDelivery = &ts
		}
	}

	for _, event := range details.FindElements("Events") {
		address := event.FindElement("Address")
		if address == nil {
			continue
		}
		country := xmlutil.FindText(address, "CountryCode")
		if country == "" {
			continue
		}
		ts, _ := parseTimestamp(xmlutil.FindText(event, "Timestamp"))
		result.Events = append(result.Events, domain.ShipmentEvent{
			Description: xmlutil.FindText(event, "EventDescription"),
			Time:        ts,
			Location: domain.Location{
				City:        xmlutil.FindText(address, "City"),
				Province:    xmlutil.FindText(address, "StateOrProvinceCode"),
				PostalCode:  xmlutil.FindText(address, "PostalCode"),
				CountryCode: country,
			},
		})
	}
	sort.SliceStable(result.Events, func(i, j int) bool {
		return result.Events[i].Time.Before(result.Events[j].Time)
	})

	resp.Tracking = result
	return resp
}

func (a *Adapter) parseAddressValidationResponse(body []byte) *domain.BatchAddressValidationResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.BatchAddressValidationResponse{Response: malformed(body, "not well-formed XML")}
	}
	root := doc.FindElement("/AddressValidationReply")
	if root == nil {
		return &domain.BatchAddressValidationResponse{Response: malformed(body, "AddressValidationReply element missing")}
	}

	resp := &domain.BatchAddressValidationResponse{Response: envelope(doc, body)}
	result := &domain.BatchAddressValidation{Addresses: map[string]domain.AddressValidationDetails{}}

	for _, addrResult := range root.FindElements("AddressResults") {
		addressID := xmlutil.FindText(addrResult, "AddressId")
		for _, proposed := range addrResult.FindElements("ProposedAddressDetails") {
			score, _ := strconv.Atoi(xmlutil.FindText(proposed, "Score"))
			var changes []string
			if changesNode := proposed.FindElement("Changes"); changesNode != nil {
				for _, child := range changesNode.ChildElements() {
					changes = append(changes, strings.TrimSpace(child.Text()))
				}
				if len(changes) == 0 {
					if text := strings.TrimSpace(changesNode.Text()); text != "" {
						changes = append(changes, text)
					}
				}
			}
			dpv := xmlutil.FindText(proposed, "DeliveryPointValidation")

			if addressNode := proposed.FindElement("Address"); addressNode != nil {
				var streets []string
				for _, line := range addressNode.FindElements("StreetLines") {
					streets = append(streets, strings.TrimSpace(line.Text()))
				}
				result.Addresses[addressID] = domain.AddressValidationDetails{
					AddressID: addressID,
					Location: domain.Location{
						StreetLines: streets,
						City:        xmlutil.FindText(addressNode, "City"),
						Province:    xmlutil.FindText(addressNode, "StateOrProvinceCode"),
						PostalCode:  xmlutil.FindText(addressNode, "PostalCode"),
						CountryCode: xmlutil.FindText(addressNode, "CountryCode"),
					},
					Score:                   score,
					Changes:                 changes,
					DeliveryPointValidation: dpv,
				}
			}

			for _, parsed := range proposed.FindElements("ParsedAddress") {
				result.ParsedResults = append(result.ParsedResults, domain.ParsedAddressResult{
					StreetLine: parsedElements(parsed, "ParsedStreetLine"),
					City:       parsedElements(parsed, "ParsedCity"),
					Province:   parsedElements(parsed, "ParsedStateOrProvinceCode"),
					PostalCode: parsedElements(parsed, "ParsedPostalCode"),
					Country:    parsedElements(parsed, "ParsedCountryCode"),
				})
			}
		}
	}

	resp.Result = result
	return resp
}

// parsedElements reads the Elements children of one parsed address part.
func parsedElements(parsed *etree.Element, partName string) []domain.ParsedElement {
	part := parsed.FindElement(partName)
	if part == nil {
		return nil
	}
	var out []domain.ParsedElement
	for _, el := range part.FindElements("Elements") {
		out = append(out, domain.ParsedElement{
			Name:    xmlutil.FindText(el, "Name"),
			Value:   xmlutil.FindText(el, "Value"),
			Changes: xmlutil.FindText(el, "Changes"),
		})
	}
	return out
}

func (a *Adapter) parsePickupResponse(body []byte) *domain.PickupAvailabilityResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.PickupAvailabilityResponse{Response: malformed(body, "not well-formed XML")}
	}
	root := doc.FindElement("/PickupAvailabilityReply")
	if root == nil {
		return &domain.PickupAvailabilityResponse{Response: malformed(body, "PickupAvailabilityReply element missing")}
	}

	resp := &domain.PickupAvailabilityResponse{Response: envelope(doc, body)}
	for _, opt := range root.FindElements("Options") {
		pickupDate, _ := time.Parse("2006-01-02", xmlutil.FindText(opt, "PickupDate"))
		resp.Options = append(resp.Options, domain.PickupOption{
			Carrier:              carrierNameForCode(xmlutil.FindText(opt, "Carrier")),
			ScheduleDay:          scheduleDayForCode(xmlutil.FindText(opt, "ScheduleDay")),
			Available:            xmlutil.FindText(opt, "Available") == "true",
			PickupDate:           pickupDate,
			CutoffTime:           xmlutil.FindText(opt, "CutOffTime"),
			AccessTime:           xmlutil.FindText(opt, "AccessTime"),
			ResidentialAvailable: xmlutil.FindText(opt, "ResidentialAvailable") == "true",
		})
	}
	return resp
}

func (a *Adapter) parseCourierDispatchResponse(body []byte) *domain.DispatchResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.DispatchResponse{Response: malformed(body, "not well-formed XML")}
	}
	root := doc.FindElement("/CourierDispatchReply")
	if root == nil {
		return &domain.DispatchResponse{Response: malformed(body, "CourierDispatchReply element missing")}
	}

	resp := &domain.DispatchResponse{Response: envelope(doc, body)}
	if resp.Success {
		resp.Confirmation = &domain.DispatchConfirmation{
			ConfirmationNumber: xmlutil.FindText(root, "DispatchConfirmationNumber"),
			PickupLocation:     xmlutil.FindText(root, "Location"),
		}
	}
	return resp
}

func (a *Adapter) parseShippingResponse(body []byte) *domain.ShippingResponse {
	doc := xmlutil.Parse(body)
	if doc == nil {
		return &domain.ShippingResponse{Response: malformed(body, "not well-formed XML")}
	}
	root := doc.FindElement("/ProcessShipmentReply")
	if root == nil {
		return &domain.ShippingResponse{Response: malformed(body, "ProcessShipmentReply element missing")}
	}

	resp := &domain.ShippingResponse{Response: envelope(doc, body)}
	if !resp.Success {
		return resp
	}

	completed := root.FindElement("CompletedShipmentDetail")
	if completed == nil {
		return &domain.ShippingResponse{Response: malformed(body, "CompletedShipmentDetail element missing")}
	}

	result := &domain.ShipmentResult{
		ShipmentID: xmlutil.FindText(completed, "MasterTrackingId/TrackingNumber"),
	}
	result.Charges.Total = domain.Charge{
		Currency: units.CorrectCurrency(xmlutil.FindText(completed, "ShipmentRating/ShipmentRateDetails/TotalNetCharge/Currency")),
		Amount:   xmlutil.FindText(completed, "ShipmentRating/ShipmentRateDetails/TotalNetCharge/Amount"),
	}

	for _, pkg := range completed.FindElements("CompletedPackageDetails") {
		result.PackageResults = append(result.PackageResults, domain.PackageShippingResult{
			TrackingNumber: xmlutil.FindText(pkg, "TrackingIds/TrackingNumber"),
			Label: domain.ShippingLabel{
				ImageFormat:        xmlutil.FindText(pkg, "Label/ImageType"),
				GraphicImageBase64: xmlutil.FindText(pkg, "Label/Parts/Image"),
			},
		})
	}
	if result.ShipmentID == "" && len(result.PackageResults) > 0 {
		result.ShipmentID = result.PackageResults[0].TrackingNumber
	}

	resp.Shipment = result
	return resp
}

// timestampLayouts are the shapes FedEx uses for event and delivery
// timestamps. Zone offsets in the input are discarded: all times are taken
// as already UTC.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
