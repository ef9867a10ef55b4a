package units

import (
	"testing"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
)

func TestImperialOrigin(t *testing.T) {
	for _, code := range []string{"US", "us", "LR", "MM"} {
		if !ImperialOrigin(code) {
			t.Fatalf("%s should be imperial", code)
		}
	}
	for _, code := range []string{"CA", "GB", "MX", ""} {
		if ImperialOrigin(code) {
			t.Fatalf("%s should not be imperial", code)
		}
	}
}

func TestWeightValue_ConvertsAndRounds(t *testing.T) {
	pkg := domain.Package{Weight: domain.Measurement{Value: 1, Unit: domain.UnitKilograms}}

	if got := WeightValue(pkg, true); got != 2.205 {
		t.Fatalf("1 kg in pounds: expected 2.205, got %v", got)
	}
	if got := WeightValue(pkg, false); got != 1.0 {
		t.Fatalf("1 kg in kilograms: expected 1, got %v", got)
	}
}

func TestWeightValue_FlooredAtMinimum(t *testing.T) {
	pkg := domain.Package{Weight: domain.Measurement{Value: 1, Unit: domain.UnitGrams}}
	if got := WeightValue(pkg, false); got != 0.1 {
		t.Fatalf("tiny weight should floor at 0.1, got %v", got)
	}

	zero := domain.Package{}
	if got := WeightValue(zero, true); got != 0.1 {
		t.Fatalf("zero weight should floor at 0.1, got %v", got)
	}
}

func TestDimensionValues(t *testing.T) {
	pkg := domain.Package{
		Length: domain.Measurement{Value: 2.54, Unit: domain.UnitCentimeters},
		Width:  domain.Measurement{Value: 10, Unit: domain.UnitInches},
		Height: domain.Measurement{Value: 0, Unit: domain.UnitInches},
	}

	length, width, height := DimensionValues(pkg, true)
	if length != 1.0 {
		t.Fatalf("2.54 cm should be 1 in, got %v", length)
	}
	if width != 10.0 {
		t.Fatalf("inches pass through, got %v", width)
	}
	if height != 0.1 {
		t.Fatalf("zero dimension floors at 0.1, got %v", height)
	}

	_, width, _ = DimensionValues(pkg, false)
	if width != 25.4 {
		t.Fatalf("10 in should be 25.4 cm, got %v", width)
	}
}

func TestCorrectCurrency(t *testing.T) {
	cases := map[string]string{
		"UKL": "GBP",
		"SID": "SGD",
		"USD": "USD",
		"EUR": "EUR",
	}
	for in, want := range cases {
		if got := CorrectCurrency(in); got != want {
			t.Fatalf("%s: expected %s, got %s", in, want, got)
		}
	}
}
