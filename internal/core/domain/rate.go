package domain

import "time"

// Surcharge is one named charge component inside a rate. UPS reports three
// per rated shipment (transportation, service options, total); FedEx folds
// everything into the total.
type Surcharge struct {
	Name     string
	Code     string
	Currency string
	Amount   string
}

// RateEstimate is a single priced shipping option. Created only by a
// successful rate parse; treat as immutable.
type RateEstimate struct {
	Origin      Location
	Destination Location
	Carrier     string

	ServiceName string
	ServiceCode string

	TotalPrice float64
	Currency   string

	// Packages are the packages this estimate priced, as submitted.
	Packages []Package

	// DeliveryRange holds one or two timestamps bounding the estimated
	// delivery. Empty when the carrier gave no commitment.
	DeliveryRange []time.Time

	// Surcharges preserves carrier insertion order.
	Surcharges []Surcharge
}
