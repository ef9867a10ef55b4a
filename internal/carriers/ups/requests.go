package ups

import (
	"math"
	"strings"

	"github.com/beevik/etree"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
	"github.com/99minutos/carrier-gateway/internal/units"
	"github.com/99minutos/carrier-gateway/internal/xmlutil"
)

// Namespaces used by the web-service (SOAP) endpoints.
const (
	authNS   = "http://www.ups.com/schema/xpci/1.0/auth"
	upssNS   = "http://www.ups.com/XMLSchema/XOLTWS/UPSS/v1.0"
	soapNS   = "http://schemas.xmlsoap.org/soap/envelope/"
	commonNS = "http://www.ups.com/XMLSchema/XOLTWS/Common/v1.0"
	wsfNS    = "http://www.ups.com/schema/wsf"
	shipNS   = "http://www.ups.com/XMLSchema/XOLTWS/Ship/v1.0"
	voidNS   = "http://www.ups.com/XMLSchema/XOLTWS/Void/v1.1"
	pickupNS = "http://www.ups.com/XMLSchema/XOLTWS/Pickup/v1.1"
	xavNS    = "http://www.ups.com/XMLSchema/XOLTWS/xav/v1.0"
	xsdNS    = "http://www.w3.org/2001/XMLSchema"
	xsiNS    = "http://www.w3.org/2001/XMLSchema-instance"
)

// buildAccessRequest emits the AccessRequest document prefixed to every
// legacy-XML call.
func (a *Adapter) buildAccessRequest() []byte {
	doc := etree.NewDocument()
	root := doc.CreateElement("AccessRequest")
	xmlutil.Text(root, "AccessLicenseNumber", a.creds.AccessLicenseKey)
	xmlutil.Text(root, "UserId", a.creds.UserID)
	xmlutil.Text(root, "Password", a.creds.Password)
	return serialize(doc)
}

// soapEnvelope wraps a body payload in the UPS SOAP envelope with the
// UPSSecurity header.
func (a *Adapter) soapEnvelope(buildBody func(body *etree.Element)) []byte {
	doc := etree.NewDocument()
	env := doc.CreateElement("envr:Envelope")
	env.CreateAttr("xmlns:auth", authNS)
	env.CreateAttr("xmlns:upss", upssNS)
	env.CreateAttr("xmlns:envr", soapNS)
	env.CreateAttr("xmlns:xsd", xsdNS)
	env.CreateAttr("xmlns:common", commonNS)
	env.CreateAttr("xmlns:xsi", xsiNS)
	env.CreateAttr("xmlns:wsf", wsfNS)

	header := env.CreateElement("envr:Header")
	security := header.CreateElement("upss:UPSSecurity")
	token := security.CreateElement("upss:UsernameToken")
	xmlutil.Text(token, "upss:Username", a.creds.UserID)
	xmlutil.Text(token, "upss:Password", a.creds.Password)
	sat := security.CreateElement("upss:ServiceAccessToken")
	xmlutil.Text(sat, "upss:AccessLicenseNumber", a.creds.AccessLicenseKey)

	buildBody(env.CreateElement("envr:Body"))
	return serialize(doc)
}

// wsPayloadRoot creates the body payload root with the schema attrs every
// web-service request repeats.
func wsPayloadRoot(body *etree.Element, name, namespace string) *etree.Element {
	root := body.CreateElement(name)
	root.CreateAttr("xmlns", namespace)
	root.CreateAttr("xmlns:xsd", xsdNS)
	root.CreateAttr("xmlns:xsi", xsiNS)
	root.CreateAttr("xmlns:common", commonNS)
	return root
}

func (a *Adapter) buildRateRequest(origin, destination domain.Location, packages []domain.Package, o ports.RequestOptions) []byte {
	doc := etree.NewDocument()
	root := doc.CreateElement("RatingServiceSelectionRequest")

	request := root.CreateElement("Request")
	xmlutil.Text(request, "RequestAction", "Rate")
	// "Shop" returns every available service in one reply
	xmlutil.Text(request, "RequestOption", "Shop")

	if o.PickupType != "" {
		pick, ok := pickupCodes[o.PickupType]
		if !ok {
			pick = o.PickupType
		}
		pt := root.CreateElement("PickupType")
		xmlutil.Text(pt, "Code", pick)

		classification := o.CustomerClassification
		if classification == "" {
			classification = defaultCustomerClassification(o.PickupType)
		}
		if code, ok := customerClassifications[classification]; ok {
			classification = code
		}
		cc := root.CreateElement("CustomerClassification")
		xmlutil.Text(cc, "Code", classification)
	}

	shipment := root.CreateElement("Shipment")
	appendRateLocation(shipment, "Shipper", origin)
	appendRateLocation(shipment, "ShipTo", destination)

	imperial := units.ImperialOrigin(origin.CountryCode)
	for _, pkg := range packages {
		packageNode := shipment.CreateElement("Package")

		packCode := "02" // Package
		if strings.EqualFold(o.PackagingType, "Envelope") {
			packCode = packagingCodeFor("UPS Letter")
		}
		packaging := packageNode.CreateElement("PackagingType")
		xmlutil.Text(packaging, "Code", packCode)

		// letters travel without dimensions
		if packCode != "01" {
			dims := packageNode.CreateElement("Dimensions")
			uom := dims.CreateElement("UnitOfMeasurement")
			if imperial {
				xmlutil.Text(uom, "Code", "IN")
			} else {
				xmlutil.Text(uom, "Code", "CM")
			}
			length, width, height := units.DimensionValues(pkg, imperial)
			xmlutil.Text(dims, "Length", length)
			xmlutil.Text(dims, "Width", width)
			xmlutil.Text(dims, "Height", height)
		}

		weightNode := packageNode.CreateElement("PackageWeight")
		uom := weightNode.CreateElement("UnitOfMeasurement")
		if imperial {
			xmlutil.Text(uom, "Code", "LBS")
		} else {
			xmlutil.Text(uom, "Code", "KGS")
		}
		xmlutil.Text(weightNode, "Weight", units.WeightValue(pkg, imperial))
	}

	return serialize(doc)
}

// appendRateLocation emits a Shipper/ShipTo node in the legacy rate shape.
// UPS returns residential rates for destinations it cannot classify, so the
// residential indicator is emitted unless the address is known commercial.
func appendRateLocation(parent *etree.Element, name string, loc domain.Location) {
	node := parent.CreateElement(name)
	xmlutil.TextIf(node, "PhoneNumber", digits(loc.Phone))
	xmlutil.TextIf(node, "FaxNumber", digits(loc.Fax))

	address := node.CreateElement("Address")
	xmlutil.TextIf(address, "AddressLine1", loc.StreetLine(0))
	xmlutil.TextIf(address, "AddressLine2", loc.StreetLine(1))
	xmlutil.TextIf(address, "AddressLine3", loc.StreetLine(2))
	xmlutil.TextIf(address, "City", loc.City)
	// two-letter codes only; longer values break negotiated rates
	if len(loc.Province) == 2 {
		xmlutil.Text(address, "StateProvinceCode", loc.Province)
	}
	xmlutil.TextIf(address, "PostalCode", loc.PostalCode)
	xmlutil.TextIf(address, "CountryCode", loc.CountryCode)
	if loc.Residential() {
		xmlutil.Text(address, "ResidentialAddressIndicator", true)
	}
}

func (a *Adapter) buildTrackingRequest(trackingNumber string) []byte {
	doc := etree.NewDocument()
	root := doc.CreateElement("TrackRequest")
	request := root.CreateElement("Request")
	xmlutil.Text(request, "RequestAction", "Track")
	xmlutil.Text(request, "RequestOption", "1")
	xmlutil.Text(root, "TrackingNumber", trackingNumber)
	return serialize(doc)
}

func (a *Adapter) buildShippingRequest(req ports.ShippingRequest, o ports.RequestOptions) []byte {
	return a.soapEnvelope(func(body *etree.Element) {
		root := wsPayloadRoot(body, "ShipmentRequest", shipNS)

		request := root.CreateElement("Request")
		request.CreateAttr("xmlns", commonNS)
		xmlutil.Text(request, "RequestOption", "nonvalidate")

		shipment := root.CreateElement("Shipment")
		shipment.CreateAttr("xmlns", shipNS)

		var item domain.PackageLineItem
		if len(req.PackageLineItems) > 0 {
			item = req.PackageLineItems[0]
		}
		xmlutil.TextIf(shipment, "Description", item.Description)

		appendShipParty(shipment, "Shipper", req.ShipperContact, req.ShipperLocation, true)
		appendShipParty(shipment, "ShipTo", req.RecipientContact, req.RecipientLocation, false)
		appendShipParty(shipment, "ShipFrom", req.ShipperContact, req.ShipperLocation, false)

		payment := shipment.CreateElement("PaymentInformation")
		charge := payment.CreateElement("ShipmentCharge")
		xmlutil.Text(charge, "Type", "01")
		bill := charge.CreateElement("BillShipper")
		xmlutil.Text(bill, "AccountNumber", req.ShipperContact.ShipperNumber)

		serviceCode := o.ServiceCode
		if serviceCode == "" {
			serviceCode = req.ServiceType
		}
		if serviceCode == "" {
			serviceCode = "01"
		}
		service := shipment.CreateElement("Service")
		xmlutil.Text(service, "Code", serviceCode)
		description := defaultServices[serviceCode]
		if description == "" {
			description = defaultServices["01"]
		}
		xmlutil.Text(service, "Description", description)

		packageNode := shipment.CreateElement("Package")
		xmlutil.TextIf(packageNode, "Description", item.Description)
		packaging := packageNode.CreateElement("Packaging")
		packagingCode := o.PackagingType
		if packagingCode == "" {
			packagingCode = req.PackagingType
		}
		if packagingCode == "" {
			packagingCode = "02"
		}
		xmlutil.Text(packaging, "Code", packagingCode)

		imperial := units.ImperialOrigin(req.ShipperLocation.CountryCode)
		weightNode := packageNode.CreateElement("PackageWeight")
		uom := weightNode.CreateElement("UnitOfMeasurement")
		if imperial {
			xmlutil.Text(uom, "Code", "LBS")
		} else {
			xmlutil.Text(uom, "Code", "KGS")
		}
		xmlutil.Text(weightNode, "Weight", units.WeightValue(item.Package, imperial))

		serviceOpts := shipment.CreateElement("PackageServiceOptions")
		declared := serviceOpts.CreateElement("DeclaredValue")
		currency := item.Currency
		if currency == "" {
			currency = "USD"
		}
		xmlutil.Text(declared, "CurrencyCode", currency)
		declaredValue := item.DeclaredValue
		if declaredValue == 0 {
			declaredValue = 100
		}
		xmlutil.Text(declared, "MonetaryValue", declaredValue)

		label := root.CreateElement("LabelSpecification")
		label.CreateAttr("xmlns", shipNS)
		format := label.CreateElement("LabelImageFormat")
		imageType := o.ImageType
		if imageType == "" {
			imageType = "GIF"
		}
		xmlutil.Text(format, "Code", imageType)
	})
}

// appendShipParty emits a Shipper/ShipTo/ShipFrom node in the web-service
// shipping shape.
func appendShipParty(parent *etree.Element, name string, contact domain.Contact, loc domain.Location, shipper bool) {
	node := parent.CreateElement(name)
	xmlutil.Text(node, "Name", contact.PersonName)
	if contact.PhoneNumber != "" {
		phone := node.CreateElement("Phone")
		xmlutil.Text(phone, "Number", digits(contact.PhoneNumber))
		if contact.PhoneExt != "" {
			xmlutil.Text(phone, "Extension", digits(contact.PhoneExt))
		}
	}
	if shipper {
		xmlutil.TextIf(node, "ShipperNumber", contact.ShipperNumber)
		xmlutil.TextIf(node, "FaxNumber", contact.FaxNumber)
	}
	xmlutil.TextIf(node, "EMailAddress", contact.Email)

	address := node.CreateElement("Address")
	xmlutil.TextIf(address, "AddressLine", loc.StreetLine(0))
	xmlutil.TextIf(address, "AddressLine", loc.StreetLine(1))
	xmlutil.TextIf(address, "AddressLine", loc.StreetLine(2))
	xmlutil.TextIf(address, "City", loc.City)
	xmlutil.TextIf(address, "StateProvinceCode", loc.Province)
	xmlutil.TextIf(address, "PostalCode", loc.PostalCode)
	xmlutil.TextIf(address, "CountryCode", loc.CountryCode)
	if loc.Residential() {
		xmlutil.Text(address, "ResidentialAddressIndicator", true)
	}
}

func (a *Adapter) buildCourierDispatchRequest(req ports.DispatchRequest) []byte {
	return a.soapEnvelope(func(body *etree.Element) {
		root := wsPayloadRoot(body, "PickupCreationRequest", pickupNS)

		request := root.CreateElement("common:Request")
		request.CreateAttr("xmlns", commonNS)

		xmlutil.Text(root, "RatePickupIndicator", "Y")

		shipper := root.CreateElement("Shipper")
		shipper.CreateAttr("xmlns", pickupNS)
		account := shipper.CreateElement("Account")
		xmlutil.Text(account, "AccountNumber", a.creds.AccountNumber)
		xmlutil.Text(account, "AccountCountryCode", a.creds.AccountCountryCode)

		dateInfo := root.CreateElement("PickupDateInfo")
		dateInfo.CreateAttr("xmlns", pickupNS)
		xmlutil.Text(dateInfo, "CloseTime", req.CloseTime.Format("1504"))
		xmlutil.Text(dateInfo, "ReadyTime", req.ReadyTime.Format("1504"))
		xmlutil.Text(dateInfo, "PickupDate", req.PickupDate.Format("20060102"))

		address := root.CreateElement("PickupAddress")
		address.CreateAttr("xmlns", pickupNS)
		xmlutil.TextIf(address, "CompanyName", req.Location.CompanyName)
		xmlutil.TextIf(address, "ContactName", req.Location.Name)
		// only one address line is allowed here
		xmlutil.Text(address, "AddressLine", req.Location.StreetLine(0))
		xmlutil.Text(address, "City", req.Location.City)
		xmlutil.Text(address, "StateProvince", req.Location.Province)
		xmlutil.Text(address, "PostalCode", req.Location.PostalCode)
		xmlutil.Text(address, "CountryCode", req.Location.CountryCode)
		residential := "Y"
		if req.Residential != nil && !*req.Residential {
			residential = "N"
		}
		xmlutil.Text(address, "ResidentialIndicator", residential)
		phone := address.CreateElement("Phone")
		xmlutil.Text(phone, "Number", digits(req.Location.Phone))

		xmlutil.Text(root, "AlternateAddressIndicator", "Y")

		piece := root.CreateElement("PickupPiece")
		piece.CreateAttr("xmlns", pickupNS)
		xmlutil.Text(piece, "ServiceCode", req.CarrierOrServiceCode)
		xmlutil.Text(piece, "Quantity", req.PackageCount)
		xmlutil.Text(piece, "DestinationCountryCode", req.DestinationCountryCode)
		xmlutil.Text(piece, "ContainerCode", req.ContainerCode)

		imperial := units.ImperialOrigin(req.Location.CountryCode)
		weight := root.CreateElement("TotalWeight")
		weight.CreateAttr("xmlns", pickupNS)
		xmlutil.Text(weight, "Weight", totalWeight(req.Packages, imperial))
		if imperial {
			xmlutil.Text(weight, "UnitOfMeasurement", "LBS")
		} else {
			xmlutil.Text(weight, "UnitOfMeasurement", "KGS")
		}

		over := root.CreateElement("OverweightIndicator")
		over.CreateAttr("xmlns", pickupNS)
		over.SetText("N")
		pay := root.CreateElement("PaymentMethod")
		pay.CreateAttr("xmlns", pickupNS)
		pay.SetText("01")
	})
}

func (a *Adapter) buildCourierDispatchCancelRequest(prn string) []byte {
	return a.soapEnvelope(func(body *etree.Element) {
		root := wsPayloadRoot(body, "PickupCancelRequest", pickupNS)

		request := root.CreateElement("common:Request")
		request.CreateAttr("xmlns", commonNS)

		cancelBy := root.CreateElement("CancelBy")
		cancelBy.CreateAttr("xmlns", pickupNS)
		cancelBy.SetText("02") // cancel by PRN

		xmlutil.Text(root, "PRN", prn)
	})
}

func (a *Adapter) buildCancelShipmentRequest(shipmentID string) []byte {
	return a.soapEnvelope(func(body *etree.Element) {
		root := wsPayloadRoot(body, "VoidShipmentRequest", voidNS)

		request := root.CreateElement("Request")
		request.CreateAttr("xmlns", commonNS)

		void := root.CreateElement("VoidShipment")
		void.CreateAttr("xmlns", voidNS)
		xmlutil.Text(void, "ShipmentIdentificationNumber", shipmentID)
	})
}

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

// digits strips everything but digits from a phone-style value.
func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func serialize(doc *etree.Document) []byte {
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil
	}
	return out
}
