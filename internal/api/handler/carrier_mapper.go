package handler

import (
	"time"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
)

// --- Request mapping ---

func toLocation(req locationRequest) domain.Location {
	return domain.Location{
		StreetLines: req.StreetLines,
		City:        req.City,
		Province:    req.Province,
		PostalCode:  req.PostalCode,
		CountryCode: req.CountryCode,
		Commercial:  req.Commercial,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Fax:         req.Fax,
	}
}

func toPackage(req packageRequest) domain.Package {
	return domain.Package{
		Weight:        domain.Measurement{Value: req.Weight.Value, Unit: req.Weight.Unit},
		Length:        toDimension(req.Length),
		Width:         toDimension(req.Width),
		Height:        toDimension(req.Height),
		DeclaredValue: req.DeclaredValue,
		Currency:      req.Currency,
		Description:   req.Description,
	}
}

// toDimension defaults a blank unit to inches; adapters convert per origin
// country anyway.
func toDimension(req dimensionRequest) domain.Measurement {
	unit := req.Unit
	if unit == "" {
		unit = domain.UnitInches
	}
	return domain.Measurement{Value: req.Value, Unit: unit}
}

func toPackages(reqs []packageRequest) []domain.Package {
	out := make([]domain.Package, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toPackage(r))
	}
	return out
}

func toContact(req contactRequest) domain.Contact {
	return domain.Contact{
		PersonName:    req.PersonName,
		CompanyName:   req.CompanyName,
		PhoneNumber:   req.PhoneNumber,
		PhoneExt:      req.PhoneExt,
		Email:         req.Email,
		ShipperNumber: req.ShipperNumber,
		FaxNumber:     req.FaxNumber,
	}
}

func toOptions(req *optionsRequest, test bool) *ports.RequestOptions {
	opts := &ports.RequestOptions{Test: test}
	if req == nil {
		return opts
	}
	opts.ServiceCode = req.ServiceCode
	opts.PackagingType = req.PackagingType
	opts.DropoffType = req.DropoffType
	opts.PickupType = req.PickupType
	opts.CustomerClassification = req.CustomerClassification
	opts.LabelFormatType = req.LabelFormatType
	opts.ImageType = req.ImageType
	opts.MaxAddressMatches = req.MaxAddressMatches
	opts.StreetAccuracy = req.StreetAccuracy
	return opts
}

// --- Response mapping ---

func fromEnvelope(r domain.Response) envelopeResponse {
	return envelopeResponse{Success: r.Success, Message: r.Message}
}

func fromLocation(loc *domain.Location) *locationResponse {
	if loc == nil {
		return nil
	}
	return &locationResponse{
		StreetLines: loc.StreetLines,
		City:        loc.City,
		Province:    loc.Province,
		PostalCode:  loc.PostalCode,
		CountryCode: loc.CountryCode,
	}
}

func fromRates(resp *domain.RateResponse) rateResponse {
	out := rateResponse{envelopeResponse: fromEnvelope(resp.Response)}
	for _, rate := range resp.Rates {
		estimate := rateEstimateResponse{
			Carrier:     rate.Carrier,
			ServiceName: rate.ServiceName,
			ServiceCode: rate.ServiceCode,
			TotalPrice:  rate.TotalPrice,
			Currency:    rate.Currency,
		}
		for _, t := range rate.DeliveryRange {
			estimate.DeliveryRange = append(estimate.DeliveryRange, t.UTC().Format(time.RFC3339))
		}
		for _, s := range rate.Surcharges {
			estimate.Surcharges = append(estimate.Surcharges, surchargeResponse{
				Name:     s.Name,
				Code:     s.Code,
				Currency: s.Currency,
				Amount:   s.Amount,
			})
		}
		out.Rates = append(out.Rates, estimate)
	}
	return out
}

func fromTracking(resp *domain.TrackingResponse) trackingResponse {
	out := trackingResponse{envelopeResponse: fromEnvelope(resp.Response)}
	tr := resp.Tracking
	if tr == nil {
		return out
	}
	out.TrackingNumber = tr.TrackingNumber
	out.Status = string(tr.Status)
	out.StatusCode = tr.StatusCode
	out.StatusDescription = tr.StatusDescription
	out.Origin = fromLocation(tr.Origin)
	out.Destination = fromLocation(tr.Destination)
	if tr.ScheduledDelivery != nil {
		out.ScheduledDelivery = tr.ScheduledDelivery.UTC().Format(time.RFC3339)
	}
	for _, ev := range tr.Events {
		loc := ev.Location
		out.Events = append(out.Events, shipmentEventResponse{
			Description: ev.Description,
			Time:        ev.Time.UTC().Format(time.RFC3339),
			Location:    *fromLocation(&loc),
		})
	}
	out.Delivered = tr.Delivered
	out.Exception = tr.Exception
	return out
}

func fromBatchValidation(resp *domain.BatchAddressValidationResponse) addressValidationResponse {
	out := addressValidationResponse{envelopeResponse: fromEnvelope(resp.Response)}
	if resp.Result == nil {
		return out
	}
	for id, details := range resp.Result.Addresses {
		out.Addresses = append(out.Addresses, validatedAddressResponse{
			AddressID:   id,
			Score:       details.Score,
			Changes:     details.Changes,
			Deliverable: details.Deliverable(),
			Verdict:     details.DeliveryPointValidation,
			Location:    *fromLocation(&details.Location),
		})
	}
	// map iteration order is random; keep output stable
	sortValidatedAddresses(out.Addresses)
	return out
}

func sortValidatedAddresses(addresses []validatedAddressResponse) {
	for i := 1; i < len(addresses); i++ {
		for j := i; j > 0 && addresses[j].AddressID < addresses[j-1].AddressID; j-- {
			addresses[j], addresses[j-1] = addresses[j-1], addresses[j]
		}
	}
}

func fromVerification(resp *domain.AddressVerificationResponse) addressVerificationResponse {
	out := addressVerificationResponse{envelopeResponse: fromEnvelope(resp.Response)}
	v := resp.Verification
	if v == nil {
		return out
	}
	out.CityLevelStatus = v.CityLevelStatus
	out.StreetLevelStatus = v.StreetLevelStatus
	out.Valid = v.Valid
	out.ValidAddress = v.ValidAddress
	if v.Classification != nil {
		out.Classification = &classificationResponse{
			Code:        v.Classification.Code,
			Description: v.Classification.Description,
		}
	}
	for _, c := range v.Candidates {
		loc := c.Location
		out.Candidates = append(out.Candidates, candidateResponse{
			Classification: classificationResponse{
				Code:        c.Classification.Code,
				Description: c.Classification.Description,
			},
			Location: *fromLocation(&loc),
		})
	}
	return out
}

func fromPickupAvailability(resp *domain.PickupAvailabilityResponse) pickupAvailabilityResponse {
	out := pickupAvailabilityResponse{envelopeResponse: fromEnvelope(resp.Response)}
	for _, opt := range resp.Options {
		mapped := pickupOptionResponse{
			Carrier:              opt.Carrier,
			ScheduleDay:          string(opt.ScheduleDay),
			Available:            opt.Available,
			CutoffTime:           opt.CutoffTime,
			AccessTime:           opt.AccessTime,
			ResidentialAvailable: opt.ResidentialAvailable,
		}
		if !opt.PickupDate.IsZero() {
			mapped.PickupDate = opt.PickupDate.UTC().Format("2006-01-02")
		}
		out.Options = append(out.Options, mapped)
	}
	return out
}

func fromCharge(c *domain.Charge) *chargeResponse {
	if c == nil {
		return nil
	}
	return &chargeResponse{Currency: c.Currency, Amount: c.Amount}
}

func fromDispatch(resp *domain.DispatchResponse) dispatchResponse {
	out := dispatchResponse{envelopeResponse: fromEnvelope(resp.Response)}
	if resp.Confirmation == nil {
		return out
	}
	out.ConfirmationNumber = resp.Confirmation.ConfirmationNumber
	out.PickupLocation = resp.Confirmation.PickupLocation
	out.TotalCharge = fromCharge(resp.Confirmation.TotalCharge)
	return out
}

func fromShipping(resp *domain.ShippingResponse) shippingResponse {
	out := shippingResponse{envelopeResponse: fromEnvelope(resp.Response)}
	s := resp.Shipment
	if s == nil {
		return out
	}
	out.ShipmentID = s.ShipmentID
	out.Transportation = chargeResponse{Currency: s.Charges.Transportation.Currency, Amount: s.Charges.Transportation.Amount}
	out.ServiceOptions = chargeResponse{Currency: s.Charges.ServiceOptions.Currency, Amount: s.Charges.ServiceOptions.Amount}
	out.Total = chargeResponse{Currency: s.Charges.Total.Currency, Amount: s.Charges.Total.Amount}
	if s.BillingWeight.Weight != "" {
		out.BillingWeight = s.BillingWeight.Weight + " " + s.BillingWeight.UnitCode
	}
	for _, pkg := range s.PackageResults {
		out.Packages = append(out.Packages, packageShippingResponse{
			TrackingNumber:        pkg.TrackingNumber,
			ServiceOptionsCharges: chargeResponse{Currency: pkg.ServiceOptionsCharges.Currency, Amount: pkg.ServiceOptionsCharges.Amount},
			Label: labelResponse{
				ImageFormat:        pkg.Label.ImageFormat,
				GraphicImageBase64: pkg.Label.GraphicImageBase64,
				HTMLImageBase64:    pkg.Label.HTMLImageBase64,
			},
		})
	}
	return out
}

func fromVoid(resp *domain.VoidResponse) voidResponse {
	out := voidResponse{envelopeResponse: fromEnvelope(resp.Response)}
	if resp.Void == nil {
		return out
	}
	out.Status = statusPairResponse{Code: resp.Void.Status.Code, Description: resp.Void.Status.Description}
	out.SummaryResult = statusPairResponse{Code: resp.Void.SummaryResult.Code, Description: resp.Void.SummaryResult.Description}
	return out
}
