// Package units converts package measurements between the imperial and
// metric systems and corrects currency codes the carriers are known to
// mis-report.
package units

import (
	"math"
	"strings"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
)

const (
	kilogramsPerPound   = 0.45359237
	centimetersPerInch  = 2.54
	gramsPerKilogram    = 1000.0
	ouncesPerPound      = 16.0
	minSubmittableValue = 0.1
)

// imperialOrigins are the origin countries rendered in pounds/inches. Both
// carriers use the same set.
var imperialOrigins = map[string]struct{}{
	"US": {},
	"LR": {},
	"MM": {},
}

// ImperialOrigin reports whether packages from this origin country are
// rendered in pounds and inches.
func ImperialOrigin(countryCode string) bool {
	_, ok := imperialOrigins[strings.ToUpper(countryCode)]
	return ok
}

// Pounds converts a weight measurement to pounds.
func Pounds(m domain.Measurement) float64 {
	switch m.Unit {
	case domain.UnitPounds:
		return m.Value
	case domain.UnitOunces:
		return m.Value / ouncesPerPound
	case domain.UnitGrams:
		return m.Value / gramsPerKilogram / kilogramsPerPound
	default: // kg
		return m.Value / kilogramsPerPound
	}
}

// Kilograms converts a weight measurement to kilograms.
func Kilograms(m domain.Measurement) float64 {
	switch m.Unit {
	case domain.UnitKilograms:
		return m.Value
	case domain.UnitGrams:
		return m.Value / gramsPerKilogram
	case domain.UnitOunces:
		return m.Value / ouncesPerPound * kilogramsPerPound
	default: // lb
		return m.Value * kilogramsPerPound
	}
}

// Inches converts a dimension measurement to inches.
func Inches(m domain.Measurement) float64 {
	if m.Unit == domain.UnitCentimeters {
		return m.Value / centimetersPerInch
	}
	return m.Value
}

// Centimeters converts a dimension measurement to centimeters.
func Centimeters(m domain.Measurement) float64 {
	if m.Unit == domain.UnitInches {
		return m.Value * centimetersPerInch
	}
	return m.Value
}

// Round3 rounds to 3 decimal places, the precision both carriers accept.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// WeightValue renders a package weight for the wire: converted to the
// selected system, rounded to 3 decimals and floored at 0.1 so a zero-weight
// package is never submitted.
func WeightValue(p domain.Package, imperial bool) float64 {
	var v float64
	if imperial {
		v = Pounds(p.Weight)
	} else {
		v = Kilograms(p.Weight)
	}
	return math.Max(Round3(v), minSubmittableValue)
}

// DimensionValues renders length, width and height in the selected system,
// rounded to 3 decimals and floored at 0.1.
func DimensionValues(p domain.Package, imperial bool) (length, width, height float64) {
	conv := func(m domain.Measurement) float64 {
		var v float64
		if imperial {
			v = Inches(m)
		} else {
			v = Centimeters(m)
		}
		return math.Max(Round3(v), minSubmittableValue)
	}
	return conv(p.Length), conv(p.Width), conv(p.Height)
}

// currency substitutions for codes the carriers are known to report wrong.
var currencyFixes = map[string]string{
	"UKL": "GBP",
	"SID": "SGD",
}

// CorrectCurrency maps known-incorrect carrier currency codes to their ISO
// equivalents; every other code passes through unchanged.
func CorrectCurrency(code string) string {
	if fixed, ok := currencyFixes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return fixed
	}
	return code
}
