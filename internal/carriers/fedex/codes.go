package fedex

import (
	"strings"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
)

// carrierCodes maps logical carrier names to FedEx carrier codes.
var carrierCodes = map[string]string{
	"fedex_ground":  "FDXG",
	"fedex_express": "FDXE",
}

// carrierNameForCode is the inverse lookup used when parsing pickup options.
func carrierNameForCode(code string) string {
	for name, c := range carrierCodes {
		if c == code {
			return name
		}
	}
	return code
}

// serviceTypes maps FedEx service codes to display names.
var serviceTypes = map[string]string{
	"PRIORITY_OVERNIGHT":                        "FedEx Priority Overnight",
	"PRIORITY_OVERNIGHT_SATURDAY_DELIVERY":      "FedEx Priority Overnight Saturday Delivery",
	"FEDEX_2_DAY":                               "FedEx 2 Day",
	"FEDEX_2_DAY_SATURDAY_DELIVERY":             "FedEx 2 Day Saturday Delivery",
	"STANDARD_OVERNIGHT":                        "FedEx Standard Overnight",
	"FIRST_OVERNIGHT":                           "FedEx First Overnight",
	"FIRST_OVERNIGHT_SATURDAY_DELIVERY":         "FedEx First Overnight Saturday Delivery",
	"FEDEX_EXPRESS_SAVER":                       "FedEx Express Saver",
	"FEDEX_1_DAY_FREIGHT":                       "FedEx 1 Day Freight",
	"FEDEX_1_DAY_FREIGHT_SATURDAY_DELIVERY":     "FedEx 1 Day Freight Saturday Delivery",
	"FEDEX_2_DAY_FREIGHT":                       "FedEx 2 Day Freight",
	"FEDEX_2_DAY_FREIGHT_SATURDAY_DELIVERY":     "FedEx 2 Day Freight Saturday Delivery",
	"FEDEX_3_DAY_FREIGHT":                       "FedEx 3 Day Freight",
	"FEDEX_3_DAY_FREIGHT_SATURDAY_DELIVERY":     "FedEx 3 Day Freight Saturday Delivery",
	"INTERNATIONAL_PRIORITY":                    "FedEx International Priority",
	"INTERNATIONAL_PRIORITY_SATURDAY_DELIVERY":  "FedEx International Priority Saturday Delivery",
	"INTERNATIONAL_ECONOMY":                     "FedEx International Economy",
	"INTERNATIONAL_FIRST":                       "FedEx International First",
	"INTERNATIONAL_PRIORITY_FREIGHT":            "FedEx International Priority Freight",
	"INTERNATIONAL_ECONOMY_FREIGHT":             "FedEx International Economy Freight",
	"GROUND_HOME_DELIVERY":                      "FedEx Ground Home Delivery",
	"FEDEX_GROUND":                              "FedEx Ground",
	"INTERNATIONAL_GROUND":                      "FedEx International Ground",
}

// ServiceNameForCode resolves a service code to its display name. Codes
// missing from the table get a readable fallback derived from the code.
func ServiceNameForCode(code string) string {
	if name, ok := serviceTypes[code]; ok {
		return name
	}
	words := strings.Split(strings.ToLower(code), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	name := strings.Join(words, " ")
	name = strings.TrimPrefix(name, "Fedex ")
	return "FedEx " + name
}

// packageTypes maps logical packaging names to FedEx packaging codes.
var packageTypes = map[string]string{
	"fedex_envelope":  "FEDEX_ENVELOPE",
	"fedex_pak":       "FEDEX_PAK",
	"fedex_box":       "FEDEX_BOX",
	"fedex_tube":      "FEDEX_TUBE",
	"fedex_10_kg_box": "FEDEX_10KG_BOX",
	"fedex_25_kg_box": "FEDEX_25KG_BOX",
	"your_packaging":  "YOUR_PACKAGING",
}

// dropoffTypes maps logical dropoff names to FedEx dropoff codes.
var dropoffTypes = map[string]string{
	"regular_pickup":          "REGULAR_PICKUP",
	"request_courier":         "REQUEST_COURIER",
	"dropbox":                 "DROP_BOX",
	"business_service_center": "BUSINESS_SERVICE_CENTER",
	"station":                 "STATION",
}

// paymentTypes maps logical payment names to FedEx payment codes.
var paymentTypes = map[string]string{
	"sender":      "SENDER",
	"recipient":   "RECIPIENT",
	"third_party": "THIRDPARTY",
	"collect":     "COLLECT",
}

// packageIdentifierTypes maps tracking identifier kinds to FedEx identifier
// type codes.
var packageIdentifierTypes = map[string]string{
	"tracking_number":           "TRACKING_NUMBER_OR_DOORTAG",
	"door_tag":                  "TRACKING_NUMBER_OR_DOORTAG",
	"rma":                       "RMA",
	"ground_shipment_id":        "GROUND_SHIPMENT_ID",
	"ground_invoice_number":     "GROUND_INVOICE_NUMBER",
	"ground_customer_reference": "GROUND_CUSTOMER_REFERENCE",
	"ground_po":                 "GROUND_PO",
	"express_reference":         "EXPRESS_REFERENCE",
	"express_mps_master":        "EXPRESS_MPS_MASTER",
}

// trackingStatusCodes maps the two-letter FedEx scan codes from the Tracking
// Service WSDL guide to the normalized vocabulary. Delay codes are treated
// as exceptions.
var trackingStatusCodes = map[string]domain.TrackingStatus{
	"AA": domain.StatusAtAirport,
	"AD": domain.StatusAtDelivery,
	"AF": domain.StatusAtFacility,
	"AR": domain.StatusAtFacility,
	"AP": domain.StatusAtPickup,
	"CA": domain.StatusCanceled,
	"CH": domain.StatusLocationChanged,
	"DE": domain.StatusException,
	"DL": domain.StatusDelivered,
	"DP": domain.StatusDeparted,
	"DR": domain.StatusVehicleFurnishedNotUsed,
	"DS": domain.StatusVehicleDispatched,
	"DY": domain.StatusException,
	"EA": domain.StatusException,
	"ED": domain.StatusEnrouteToDelivery,
	"EO": domain.StatusEnrouteToOriginAirport,
	"EP": domain.StatusEnrouteToPickup,
	"FD": domain.StatusAtDestination,
	"HL": domain.StatusHeldAtLocation,
	"IT": domain.StatusInTransit,
	"LO": domain.StatusLeftOrigin,
	"OC": domain.StatusOrderCreated,
	"OD": domain.StatusOutForDelivery,
	"PF": domain.StatusPlaneInFlight,
	"PL": domain.StatusPlaneLanded,
	"PU": domain.StatusPickedUp,
	"RS": domain.StatusReturnedToShipper,
	"SE": domain.StatusException,
	"SF": domain.StatusAtSortFacility,
	"SP": domain.StatusSplit,
	"TR": domain.StatusTransfer,
}

// normalizeTrackingStatus is total over all inputs: unknown codes map to
// StatusUnknown instead of failing the parse.
func normalizeTrackingStatus(code string) domain.TrackingStatus {
	if status, ok := trackingStatusCodes[code]; ok {
		return status
	}
	return domain.StatusUnknown
}

// pickupRequestTypes maps schedule-day kinds to FedEx pickup request codes.
var pickupRequestTypes = map[domain.ScheduleDay]string{
	domain.ScheduleSameDay:   "SAME_DAY",
	domain.ScheduleFutureDay: "FUTURE_DAY",
}

func scheduleDayForCode(code string) domain.ScheduleDay {
	for day, c := range pickupRequestTypes {
		if c == code {
			return day
		}
	}
	return domain.ScheduleDay(strings.ToLower(code))
}

// customerReferenceTypes maps reference kinds to FedEx reference type codes.
var customerReferenceTypes = map[string]string{
	"bill":               "BILL_OR_LADING",
	"customer_reference": "CUSTOMER_REFERENCE",
	"invoice":            "INVOICE_NUMBER",
	"po_number":          "P_O_NUMBER",
	"shipment_integrity": "SHIPMENT_INTEGRITY",
	"store":              "STORE_NUMBER",
}
