package domain

// Unit names accepted on package measurements.
const (
	UnitPounds      = "lb"
	UnitOunces      = "oz"
	UnitKilograms   = "kg"
	UnitGrams       = "g"
	UnitInches      = "in"
	UnitCentimeters = "cm"
)

// Measurement is a magnitude with its unit ("lb", "kg", "in", "cm", ...).
type Measurement struct {
	Value float64
	Unit  string
}

// Package describes one physical parcel. The unit system used on the wire
// (imperial vs. metric) is derived from the origin country at request-build
// time, never stored here.
type Package struct {
	Weight Measurement
	Length Measurement
	Width  Measurement
	Height Measurement

	DeclaredValue float64
	Currency      string

	// Description travels on shipping requests that accept a per-package
	// item description.
	Description string
}

// PackageLineItem carries the per-package fields of a shipping request that
// go beyond the physical Package: insured value and a customer reference.
type PackageLineItem struct {
	Package
	InsuredAmount   float64
	InsuredCurrency string
	// ReferenceType is a carrier reference-type code; adapters fall back to
	// their customer-reference default when empty.
	ReferenceType  string
	ReferenceValue string
}
