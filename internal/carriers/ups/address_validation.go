package ups

import (
	"context"

	"github.com/beevik/etree"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
	"github.com/99minutos/carrier-gateway/internal/xmlutil"
)

// ValidateAddress implements ports.AddressVerifier. The flow is two-phase:
// a city-level check on the legacy AV endpoint, then, only when that
// succeeds, a street-level check on the XAV web service. StreetLevelStatus
// stays nil whenever the street call was never issued.
func (a *Adapter) ValidateAddress(ctx context.Context, loc domain.Location, opts *ports.RequestOptions) (*domain.AddressVerificationResponse, error) {
	o := opts.Get()

	request := a.buildCityValidationRequest(loc)
	body, err := a.commit(ctx, "address_validation", request, o.Test)
	if err != nil {
		return nil, err
	}

	verification, ok := a.parseCityValidationResponse(body)
	if !ok {
		return &domain.AddressVerificationResponse{
			Response: domain.Response{
				Success: false,
				Message: verification.Message,
				RawBody: body,
			},
			Verification: verification,
		}, nil
	}

	// The sandbox host does not know every state, so the street-level
	// call always goes to production.
	streetBody, err := a.commit(ctx, "address_validation_street", a.buildStreetValidationRequest(loc), false)
	if err != nil {
		return nil, err
	}
	a.parseStreetValidationResponse(streetBody, verification)

	return &domain.AddressVerificationResponse{
		Response: domain.Response{
			Success: verification.Valid,
			Message: verification.Message,
			RawBody: streetBody,
		},
		Verification: verification,
	}, nil
}

// buildCityValidationRequest emits the legacy AV payload. Unlike the other
// legacy calls, each concatenated document carries its own declaration.
func (a *Adapter) buildCityValidationRequest(loc domain.Location) []byte {
	const preamble = "<?xml version='1.0'?>"

	doc := etree.NewDocument()
	root := doc.CreateElement("AddressValidationRequest")
	request := root.CreateElement("Request")
	xmlutil.Text(request, "RequestAction", "AV")
	address := root.CreateElement("Address")
	xmlutil.TextIf(address, "City", loc.City)
	xmlutil.TextIf(address, "StateProvinceCode", loc.Province)
	xmlutil.TextIf(address, "CountryCode", loc.CountryCode)
	xmlutil.TextIf(address, "PostalCode", loc.PostalCode)

	out := append([]byte(preamble), a.buildAccessRequest()...)
	out = append(out, preamble...)
	return append(out, serialize(doc)...)
}

func (a *Adapter) buildStreetValidationRequest(loc domain.Location) []byte {
	return a.soapEnvelope(func(body *etree.Element) {
		root := wsPayloadRoot(body, "XAVRequest", xavNS)

		request := root.CreateElement("Request")
		request.CreateAttr("xmlns", commonNS)
		// option 3: validation plus classification
		xmlutil.Text(request, "RequestOption", "3")

		key := root.CreateElement("AddressKeyFormat")
		key.CreateAttr("xmlns", xavNS)
		xmlutil.TextIf(key, "AddressLine", loc.StreetLine(0))
		xmlutil.TextIf(key, "PoliticalDivision2", loc.City)
		xmlutil.TextIf(key, "PoliticalDivision1", loc.Province)
		xmlutil.TextIf(key, "PostcodePrimaryLow", loc.PostalCode)
		xmlutil.TextIf(key, "CountryCode", loc.CountryCode)
	})
}

// parseCityValidationResponse reports the city-level verdict. On failure the
// carrier's structured error payload is preserved.
func (a *Adapter) parseCityValidationResponse(body []byte) (*domain.AddressVerification, bool) {
	verification := &domain.AddressVerification{}

	doc := xmlutil.Parse(body)
	if doc == nil {
		verification.Message = "malformed carrier response: not well-formed XML"
		return verification, false
	}

	if !responseSuccess(doc) {
		verification.Message = responseMessage(doc)
		if errNode := doc.FindElement("/AddressValidationResponse/Response/Error"); errNode != nil {
			verification.Err = &domain.CarrierError{
				Code:        xmlutil.FindText(errNode, "ErrorCode"),
				Severity:    xmlutil.FindText(errNode, "ErrorSeverity"),
				Description: xmlutil.FindText(errNode, "ErrorDescription"),
			}
		}
		return verification, false
	}

	verification.CityLevelStatus = true
	return verification, true
}

func (a *Adapter) parseStreetValidationResponse(body []byte, verification *domain.AddressVerification) {
	doc := xmlutil.Parse(body)
	if doc == nil {
		verification.Message = "malformed carrier response: not well-formed XML"
		streetOK := false
		verification.StreetLevelStatus = &streetOK
		return
	}

	streetOK := responseSuccess(doc)
	verification.StreetLevelStatus = &streetOK
	verification.Valid = verification.CityLevelStatus && streetOK
	if msg := responseMessage(doc); msg != "" {
		verification.Message = msg
	}

	root := doc.FindElement("/Envelope/Body/XAVResponse")
	if root == nil {
		return
	}

	verification.ValidAddress = root.FindElement("ValidAddressIndicator") != nil
	if class := root.FindElement("AddressClassification"); class != nil {
		verification.Classification = &domain.AddressClassification{
			Code:        xmlutil.FindText(class, "Code"),
			Description: xmlutil.FindText(class, "Description"),
		}
	}

	for _, candidate := range root.FindElements("Candidate") {
		parsed := domain.AddressCandidate{}
		if class := candidate.FindElement("AddressClassification"); class != nil {
			parsed.Classification = domain.AddressClassification{
				Code:        xmlutil.FindText(class, "Code"),
				Description: xmlutil.FindText(class, "Description"),
			}
		}
		if key := candidate.FindElement("AddressKeyFormat"); key != nil {
			loc := domain.Location{
				City:        xmlutil.FindText(key, "PoliticalDivision2"),
				Province:    xmlutil.FindText(key, "PoliticalDivision1"),
				PostalCode:  xmlutil.FindText(key, "PostcodePrimaryLow"),
				CountryCode: xmlutil.FindText(key, "CountryCode"),
			}
			for _, line := range key.FindElements("AddressLine") {
				if v := line.Text(); v != "" {
					loc.StreetLines = append(loc.StreetLines, v)
				}
			}
			parsed.Location = loc
		}
		verification.Candidates = append(verification.Candidates, parsed)
	}
}
