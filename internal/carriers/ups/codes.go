package ups

import "github.com/99minutos/carrier-gateway/internal/core/domain"

// pickupCodes maps logical pickup-type names to UPS pickup codes.
var pickupCodes = map[string]string{
	"daily_pickup":           "01",
	"customer_counter":       "03",
	"one_time_pickup":        "06",
	"on_call_air":            "07",
	"suggested_retail_rates": "11",
	"letter_center":          "19",
	"air_service_center":     "20",
}

// customerClassifications maps classification names to UPS codes.
var customerClassifications = map[string]string{
	"wholesale":  "01",
	"occasional": "03",
	"retail":     "04",
}

// defaultCustomerClassification returns the classification UPS documents as
// the default for a pickup type. The API does not apply these reliably, so
// the adapter sets them explicitly.
func defaultCustomerClassification(pickupType string) string {
	switch pickupType {
	case "daily_pickup":
		return "wholesale"
	case "customer_counter":
		return "retail"
	default:
		return "occasional"
	}
}

// defaultServices maps UPS service codes to their US-origin display names.
var defaultServices = map[string]string{
	"01": "UPS Next Day Air",
	"02": "UPS Second Day Air",
	"03": "UPS Ground",
	"07": "UPS Worldwide Express",
	"08": "UPS Worldwide Expedited",
	"11": "UPS Standard",
	"12": "UPS Three-Day Select",
	"13": "UPS Next Day Air Saver",
	"14": "UPS Next Day Air Early A.M.",
	"54": "UPS Worldwide Express Plus",
	"59": "UPS Second Day Air A.M.",
	"65": "UPS Saver",
	"82": "UPS Today Standard",
	"83": "UPS Today Dedicated Courier",
	"84": "UPS Today Intercity",
	"85": "UPS Today Express",
	"86": "UPS Today Express Saver",
}

// Origin-specific service names. UPS renames the same service code per
// origin market.
var (
	canadaOriginServices = map[string]string{
		"01": "UPS Express",
		"02": "UPS Expedited",
		"14": "UPS Express Early A.M.",
	}
	mexicoOriginServices = map[string]string{
		"07": "UPS Express",
		"08": "UPS Expedited",
		"54": "UPS Express Plus",
	}
	euOriginServices = map[string]string{
		"07": "UPS Express",
		"08": "UPS Expedited",
	}
	otherNonUSOriginServices = map[string]string{
		"07": "UPS Express",
	}
)

// euCountryCodes is the EU membership list the service-name tables key on.
var euCountryCodes = map[string]struct{}{
	"GB": {}, "AT": {}, "BE": {}, "BG": {}, "CY": {}, "CZ": {}, "DK": {},
	"EE": {}, "FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {},
	"IT": {}, "LV": {}, "LT": {}, "LU": {}, "MT": {}, "NL": {}, "PL": {},
	"PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {},
}

// usTerritoriesTreatedAsCountries lists the US state codes UPS wants
// submitted as country codes instead.
var usTerritoriesTreatedAsCountries = map[string]struct{}{
	"AS": {}, "FM": {}, "GU": {}, "MH": {}, "MP": {}, "PW": {}, "PR": {}, "VI": {},
}

// serviceNameFor resolves a service code to its display name for the given
// origin country, falling back through the non-US and default tables.
func serviceNameFor(origin domain.Location, code string) string {
	country := origin.CountryCode

	var name string
	switch {
	case country == "CA":
		name = canadaOriginServices[code]
	case country == "MX":
		name = mexicoOriginServices[code]
	default:
		if _, eu := euCountryCodes[country]; eu {
			name = euOriginServices[code]
		}
	}
	if name == "" && country != "US" {
		name = otherNonUSOriginServices[code]
	}
	if name == "" {
		name = defaultServices[code]
	}
	return name
}

// trackingStatusCodes maps the single-letter UPS activity codes to the
// normalized vocabulary.
var trackingStatusCodes = map[string]domain.TrackingStatus{
	"I": domain.StatusInTransit,
	"D": domain.StatusDelivered,
	"X": domain.StatusException,
	"P": domain.StatusPickedUp,
	"M": domain.StatusManifestPickup,
}

// normalizeTrackingStatus is total over all inputs: unknown codes map to
// StatusUnknown instead of failing the parse.
func normalizeTrackingStatus(code string) domain.TrackingStatus {
	if status, ok := trackingStatusCodes[code]; ok {
		return status
	}
	return domain.StatusUnknown
}

// packagingTypes maps UPS packaging codes to display names.
var packagingTypes = map[string]string{
	"00": "Unknown",
	"01": "UPS Letter",
	"02": "Package",
	"03": "Tube",
	"04": "Pak",
	"21": "Express Box",
	"24": "25KG Box",
	"25": "10KG Box",
	"30": "Pallet",
	"2a": "Small Express Box",
	"2b": "Medium Express Box",
	"2c": "Large Express Box",
}

// packagingCodeFor is the inverse packaging lookup used when building rate
// requests.
func packagingCodeFor(name string) string {
	for code, n := range packagingTypes {
		if n == name {
			return code
		}
	}
	return "02"
}
