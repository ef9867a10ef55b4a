package domain

import "strings"

// Location is a carrier-agnostic postal address. It is a value object:
// construct it fully and never mutate it afterwards. Which fields must be
// populated depends on the operation and carrier, so presence checks live in
// the adapters, not here.
type Location struct {
	// StreetLines holds up to three ordered street lines. Adapters emit them
	// in source order and skip empty entries.
	StreetLines []string
	City        string
	Province    string
	PostalCode  string
	// CountryCode is the ISO 3166-1 alpha-2 code, e.g. "US".
	CountryCode string
	// Commercial marks the address as a business destination. Unknown
	// addresses default to residential because that is how both carriers
	// price destinations they cannot classify.
	Commercial bool

	// Contact fields used by pickup and shipping operations.
	Name        string
	CompanyName string
	Phone       string
	Fax         string
}

// Residential reports whether the address should be treated as residential.
func (l Location) Residential() bool {
	return !l.Commercial
}

// StreetLine returns the street line at index i, or "" when absent.
func (l Location) StreetLine(i int) string {
	if i < 0 || i >= len(l.StreetLines) {
		return ""
	}
	return l.StreetLines[i]
}

// HasCountry reports whether a 2-letter country code is present.
func (l Location) HasCountry() bool {
	return len(strings.TrimSpace(l.CountryCode)) == 2
}

// Contact identifies the person requesting a pickup or shipment. Adapters
// render the populated fields only.
type Contact struct {
	PersonName  string
	CompanyName string
	PhoneNumber string
	PhoneExt    string
	Email       string
	// ShipperNumber is the UPS account number attached to the shipper
	// contact on shipping requests.
	ShipperNumber string
	FaxNumber     string
}
