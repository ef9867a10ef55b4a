package fedex

import (
	"math"
	"sort"
	"time"

	"github.com/beevik/etree"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
	"github.com/99minutos/carrier-gateway/internal/units"
	"github.com/99minutos/carrier-gateway/internal/xmlutil"
)

const timestampLayout = "2006-01-02T15:04:05"

// newRequestDocument creates a request root with the service namespace and
// the standard schema declarations.
func newRequestDocument(rootName, namespace string, withSchemaNS bool) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	root := doc.CreateElement(rootName)
	if withSchemaNS {
		root.CreateAttr("xmlns:xsd", xsdNS)
		root.CreateAttr("xmlns:xsi", xsiNS)
	}
	root.CreateAttr("xmlns", namespace)
	return doc, root
}

// appendRequestHeader emits the authentication and transaction block every
// FedEx request starts with.
func (a *Adapter) appendRequestHeader(root *etree.Element) {
	wad := root.CreateElement("WebAuthenticationDetail")
	uc := wad.CreateElement("UserCredential")
	xmlutil.Text(uc, "Key", a.creds.Key)
	xmlutil.Text(uc, "Password", a.creds.Password)

	cd := root.CreateElement("ClientDetail")
	xmlutil.Text(cd, "AccountNumber", a.creds.Account)
	xmlutil.Text(cd, "MeterNumber", a.creds.Meter)

	td := root.CreateElement("TransactionDetail")
	xmlutil.Text(td, "CustomerTransactionId", "carrier-gateway")
}

func appendVersionNode(root *etree.Element, serviceID string, major, intermediate, minor int) {
	v := root.CreateElement("Version")
	xmlutil.Text(v, "ServiceId", serviceID)
	xmlutil.Text(v, "Major", major)
	xmlutil.Text(v, "Intermediate", intermediate)
	xmlutil.Text(v, "Minor", minor)
}

// appendFullAddress emits a complete address node: up to three street lines
// in source order, then only the non-empty locality fields. The residential
// flag is emitted only when requested by the caller.
func appendFullAddress(parent *etree.Element, name string, loc domain.Location, residential *bool) *etree.Element {
	node := parent.CreateElement(name)
	for i := 0; i < 3; i++ {
		xmlutil.TextIf(node, "StreetLines", loc.StreetLine(i))
	}
	xmlutil.TextIf(node, "City", loc.City)
	xmlutil.TextIf(node, "StateOrProvinceCode", loc.Province)
	xmlutil.TextIf(node, "PostalCode", loc.PostalCode)
	xmlutil.TextIf(node, "CountryCode", loc.CountryCode)
	if residential != nil {
		xmlutil.Text(node, "Residential", *residential)
	}
	return node
}

// appendRateLocation emits the abbreviated postal/country address used by
// rate requests. Unknown destinations are flagged residential because that
// is how FedEx prices them.
func appendRateLocation(parent *etree.Element, name string, loc domain.Location) {
	node := parent.CreateElement(name)
	address := node.CreateElement("Address")
	xmlutil.TextIf(address, "PostalCode", loc.PostalCode)
	xmlutil.TextIf(address, "CountryCode", loc.CountryCode)
	if loc.Residential() {
		xmlutil.Text(address, "Residential", true)
	}
}

// appendContact emits a contact block using the declared field mapping.
func appendContact(parent *etree.Element, contact domain.Contact) {
	node := parent.CreateElement("Contact")
	xmlutil.TextIf(node, "PersonName", contact.PersonName)
	xmlutil.TextIf(node, "CompanyName", contact.CompanyName)
	xmlutil.TextIf(node, "PhoneNumber", contact.PhoneNumber)
	xmlutil.TextIf(node, "EMailAddress", contact.Email)
}

// appendPackageNode emits the weight (and optionally dimensions) of one
// package. FedEx requires integer dimensions, so converted values are
// rounded to 3 decimals and then pushed up to the ceiling integer.
func appendPackageNode(parent *etree.Element, name string, pkg domain.Package, imperial, includeDimensions bool) {
	node := parent.CreateElement(name)
	weight := node.CreateElement("Weight")
	if imperial {
		xmlutil.Text(weight, "Units", "LB")
	} else {
		xmlutil.Text(weight, "Units", "KG")
	}
	xmlutil.Text(weight, "Value", units.WeightValue(pkg, imperial))

	if !includeDimensions {
		return
	}
	dims := node.CreateElement("Dimensions")
	length, width, height := units.DimensionValues(pkg, imperial)
	xmlutil.Text(dims, "Length", int(math.Ceil(length)))
	xmlutil.Text(dims, "Width", int(math.Ceil(width)))
	xmlutil.Text(dims, "Height", int(math.Ceil(height)))
	if imperial {
		xmlutil.Text(dims, "Units", "IN")
	} else {
		xmlutil.Text(dims, "Units", "CM")
	}
}

func (a *Adapter) buildRateRequest(origin, destination domain.Location, packages []domain.Package, o ports.RequestOptions) []byte {
	imperial := units.ImperialOrigin(origin.CountryCode)

	doc, root := newRequestDocument("RateRequest", rateNS, false)
	a.appendRequestHeader(root)
	appendVersionNode(root, "crs", 6, 0, 0)

	// delivery dates and saturday-delivery variants
	xmlutil.Text(root, "ReturnTransitAndCommit", true)
	xmlutil.Text(root, "VariableOptions", "SATURDAY_DELIVERY")

	rs := root.CreateElement("RequestedShipment")
	xmlutil.Text(rs, "ShipTimestamp", time.Now().UTC().Format(timestampLayout))
	xmlutil.Text(rs, "DropoffType", dropoffCode(o.DropoffType))
	xmlutil.Text(rs, "PackagingType", packagingCode(o.PackagingType))

	appendRateLocation(rs, "Shipper", origin)
	appendRateLocation(rs, "Recipient", destination)

	xmlutil.Text(rs, "RateRequestTypes", "ACCOUNT")
	xmlutil.Text(rs, "PackageCount", len(packages))
	for _, pkg := range packages {
		appendPackageNode(rs, "RequestedPackages", pkg, imperial, true)
	}

	return serialize(doc)
}

func (a *Adapter) buildTrackingRequest(trackingNumber string) []byte {
	doc, root := newRequestDocument("TrackRequest", trackNS, false)
	a.appendRequestHeader(root)
	appendVersionNode(root, "trck", 3, 0, 0)

	pkg := root.CreateElement("PackageIdentifier")
	xmlutil.Text(pkg, "Value", trackingNumber)
	xmlutil.Text(pkg, "Type", packageIdentifierTypes["tracking_number"])

	xmlutil.Text(root, "IncludeDetailedScans", 1)
	return serialize(doc)
}

func (a *Adapter) buildValidateAddressRequest(addresses map[string]domain.Location, o ports.RequestOptions) []byte {
	doc, root := newRequestDocument("AddressValidationRequest", validationNS, true)
	a.appendRequestHeader(root)
	appendVersionNode(root, "aval", 2, 0, 0)

	xmlutil.Text(root, "RequestTimestamp", time.Now().UTC().Format(timestampLayout))

	opts := root.CreateElement("Options")
	xmlutil.Text(opts, "VerifyAddresses", true)
	maxMatches := o.MaxAddressMatches
	if maxMatches == 0 {
		maxMatches = 2
	}
	xmlutil.Text(opts, "MaximumNumberOfMatches", maxMatches)
	accuracy := o.StreetAccuracy
	if accuracy == "" {
		accuracy = "LOOSE"
	}
	xmlutil.Text(opts, "StreetAccuracy", accuracy)
	xmlutil.Text(opts, "ConvertToUpperCase", true)
	xmlutil.Text(opts, "RecognizeAlternateCityNames", true)
	xmlutil.Text(opts, "ReturnParsedElements", true)

	// deterministic order regardless of map iteration
	ids := make([]string, 0, len(addresses))
	for id := range addresses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		av := root.CreateElement("AddressesToValidate")
		xmlutil.Text(av, "AddressId", id)
		appendFullAddress(av, "Address", addresses[id], nil)
	}

	return serialize(doc)
}

func (a *Adapter) buildPickupRequest(address domain.Location, scheduleDays []domain.ScheduleDay, dispatchDate time.Time, packageReadyTime, customerCloseTime time.Time, carrierCodesReq []string, packages []domain.Package) []byte {
	doc, root := newRequestDocument("PickupAvailabilityRequest", dispatchNS, true)
	a.appendRequestHeader(root)
	appendVersionNode(root, "disp", 3, 0, 1)

	appendFullAddress(root, "PickupAddress", address, nil)

	for _, day := range scheduleDays {
		code, ok := pickupRequestTypes[day]
		if !ok {
			code = string(day)
		}
		xmlutil.Text(root, "PickupRequestType", code)
	}

	xmlutil.Text(root, "DispatchDate", dispatchDate.Format("2006-01-02"))
	xmlutil.Text(root, "PackageReadyTime", packageReadyTime.Format("15:04:05"))
	xmlutil.Text(root, "CustomerCloseTime", customerCloseTime.Format("15:04:05"))

	for _, c := range carrierCodesReq {
		if code, ok := carrierCodes[c]; ok {
			xmlutil.Text(root, "Carriers", code)
		} else {
			xmlutil.Text(root, "Carriers", c)
		}
	}

	// shipment attributes carry weight only, no dimensions
	imperial := units.ImperialOrigin(address.CountryCode)
	for _, pkg := range packages {
		appendPackageNode(root, "ShipmentAttributes", pkg, imperial, false)
	}

	return serialize(doc)
}

func (a *Adapter) buildCourierDispatchRequest(req ports.DispatchRequest) []byte {
	doc, root := newRequestDocument("CourierDispatchRequest", dispatchNS, true)
	a.appendRequestHeader(root)
	appendVersionNode(root, "disp", 3, 0, 1)

	origin := root.CreateElement("OriginDetail")
	pickup := origin.CreateElement("PickupLocation")
	appendContact(pickup, req.Contact)
	appendFullAddress(pickup, "Address", req.Location, nil)
	xmlutil.Text(origin, "ReadyTimestamp", req.ReadyTime.Format(timestampLayout))
	xmlutil.Text(origin, "CompanyCloseTime", req.CloseTime.Format("15:04:05"))

	xmlutil.Text(root, "PackageCount", req.PackageCount)

	imperial := units.ImperialOrigin(req.Location.CountryCode)
	tw := root.CreateElement("TotalWeight")
	if imperial {
		xmlutil.Text(tw, "Units", "LB")
	} else {
		xmlutil.Text(tw, "Units", "KG")
	}
	xmlutil.Text(tw, "Value", totalWeight(req.Packages, imperial))

	code := req.CarrierOrServiceCode
	if mapped, ok := carrierCodes[code]; ok {
		code = mapped
	}
	xmlutil.Text(root, "CarrierCode", code)

	return serialize(doc)
}

// totalWeight sums package weights in the selected system, rounded and
// floored the same way single-package weights are.
func totalWeight(packages []domain.Package, imperial bool) float64 {
	var sum float64
	for _, pkg := range packages {
		if imperial {
			sum += units.Pounds(pkg.Weight)
		} else {
			sum += units.Kilograms(pkg.Weight)
		}
	}
	return math.Max(units.Round3(sum), 0.1)
}

func (a *Adapter) buildShippingRequest(req ports.ShippingRequest, o ports.RequestOptions) []byte {
	doc, root := newRequestDocument("ProcessShipmentRequest", shipNS, true)
	a.appendRequestHeader(root)
	appendVersionNode(root, "ship", 10, 0, 0)

	ship := root.CreateElement("RequestedShipment")
	xmlutil.Text(ship, "ShipTimestamp", req.ShipTimestamp.Format(timestampLayout))
	xmlutil.Text(ship, "DropoffType", dropoffCode(req.DropoffType))
	xmlutil.Text(ship, "ServiceType", req.ServiceType)
	xmlutil.Text(ship, "PackagingType", packagingCode(req.PackagingType))

	shipper := ship.CreateElement("Shipper")
	appendContact(shipper, req.ShipperContact)
	appendFullAddress(shipper, "Address", req.ShipperLocation, nil)

	residential := req.RecipientLocation.Residential()
	recipient := ship.CreateElement("Recipient")
	appendContact(recipient, req.RecipientContact)
	appendFullAddress(recipient, "Address", req.RecipientLocation, &residential)

	charges := ship.CreateElement("ShippingChargesPayment")
	xmlutil.Text(charges, "PaymentType", paymentTypes["third_party"])
	payor := charges.CreateElement("Payor")
	xmlutil.Text(payor, "AccountNumber", a.creds.Account)
	payorCountry := req.PayorCountryCode
	if payorCountry == "" {
		payorCountry = "US"
	}
	xmlutil.Text(payor, "CountryCode", payorCountry)

	label := ship.CreateElement("LabelSpecification")
	format := o.LabelFormatType
	if format == "" {
		format = "COMMON2D"
	}
	xmlutil.Text(label, "LabelFormatType", format)
	image := o.ImageType
	if image == "" {
		image = "PDF"
	}
	xmlutil.Text(label, "ImageType", image)
	csd := label.CreateElement("CustomerSpecifiedDetail")
	dtc := csd.CreateElement("DocTabContent")
	xmlutil.Text(dtc, "DocTabContentType", "STANDARD")

	xmlutil.Text(ship, "RateRequestTypes", "ACCOUNT")
	xmlutil.Text(ship, "PackageCount", len(req.PackageLineItems))

	imperial := units.ImperialOrigin(req.ShipperLocation.CountryCode)
	for i, item := range req.PackageLineItems {
		line := ship.CreateElement("RequestedPackageLineItems")
		xmlutil.Text(line, "SequenceNumber", i+1)

		insured := line.CreateElement("InsuredValue")
		currency := item.InsuredCurrency
		if currency == "" {
			currency = "USD"
		}
		xmlutil.Text(insured, "Currency", currency)
		xmlutil.Text(insured, "Amount", item.InsuredAmount)

		weight := line.CreateElement("Weight")
		if imperial {
			xmlutil.Text(weight, "Units", "LB")
		} else {
			xmlutil.Text(weight, "Units", "KG")
		}
		xmlutil.Text(weight, "Value", units.WeightValue(item.Package, imperial))

		xmlutil.TextIf(line, "ItemDescription", item.Description)

		refs := line.CreateElement("CustomerReferences")
		refType := item.ReferenceType
		if refType == "" {
			refType = customerReferenceTypes["customer_reference"]
		}
		xmlutil.Text(refs, "CustomerReferenceType", refType)
		xmlutil.Text(refs, "Value", item.ReferenceValue)
	}

	return serialize(doc)
}

// dropoffCode maps a logical dropoff name to its FedEx code, passing raw
// codes through and defaulting to regular pickup.
func dropoffCode(v string) string {
	if v == "" {
		return "REGULAR_PICKUP"
	}
	if code, ok := dropoffTypes[v]; ok {
		return code
	}
	return v
}

// packagingCode maps a logical packaging name to its FedEx code, passing
// raw codes through and defaulting to own packaging.
func packagingCode(v string) string {
	if v == "" {
		return "YOUR_PACKAGING"
	}
	if code, ok := packageTypes[v]; ok {
		return code
	}
	return v
}

func serialize(doc *etree.Document) []byte {
	out, err := doc.WriteToBytes()
	if err != nil {
		// etree only fails on writer errors, which a byte buffer never has
		return nil
	}
	return out
}
