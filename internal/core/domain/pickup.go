package domain

import "time"

// ScheduleDay tells whether a pickup option is for the dispatch day itself
// or a later day.
type ScheduleDay string

const (
	ScheduleSameDay   ScheduleDay = "same_day"
	ScheduleFutureDay ScheduleDay = "future_day"
)

// PickupOption is one courier pickup slot offered by a carrier.
type PickupOption struct {
	Carrier     string
	ScheduleDay ScheduleDay
	Available   bool
	PickupDate  time.Time
	// CutoffTime and AccessTime are carrier-local clock strings
	// ("17:00:00" / "PT1H20M"); they are surfaced raw.
	CutoffTime string
	AccessTime string

	ResidentialAvailable bool
}

// DispatchConfirmation is the receipt for a scheduled courier pickup. The
// caller must persist ConfirmationNumber to cancel the dispatch later; this
// layer keeps no state between the two calls.
type DispatchConfirmation struct {
	ConfirmationNumber string
	// PickupLocation is the carrier's station code, when reported.
	PickupLocation string
	// TotalCharge is set when the carrier rated the pickup in the same
	// reply.
	TotalCharge *Charge
}
