package domain

import "time"

// TrackingStatus is the shared normalized status vocabulary. Every carrier
// status code maps into one of these; codes missing from a carrier table map
// to StatusUnknown rather than failing the parse.
type TrackingStatus string

const (
	StatusAtAirport               TrackingStatus = "at_airport"
	StatusAtDelivery              TrackingStatus = "at_delivery"
	StatusAtFacility              TrackingStatus = "at_facility"
	StatusAtPickup                TrackingStatus = "at_pickup"
	StatusCanceled                TrackingStatus = "canceled"
	StatusLocationChanged         TrackingStatus = "location_changed"
	StatusException               TrackingStatus = "exception"
	StatusDelivered               TrackingStatus = "delivered"
	StatusDeparted                TrackingStatus = "departed_facility"
	StatusVehicleFurnishedNotUsed TrackingStatus = "vehicle_furnished_not_used"
	StatusVehicleDispatched       TrackingStatus = "vehicle_dispatched"
	StatusEnrouteToDelivery       TrackingStatus = "enroute_to_delivery"
	StatusEnrouteToOriginAirport  TrackingStatus = "enroute_to_origin_airport"
	StatusEnrouteToPickup         TrackingStatus = "enroute_to_pickup"
	StatusAtDestination           TrackingStatus = "at_destination"
	StatusHeldAtLocation          TrackingStatus = "held_at_location"
	StatusInTransit               TrackingStatus = "in_transit"
	StatusLeftOrigin              TrackingStatus = "left_origin"
	StatusOrderCreated            TrackingStatus = "order_created"
	StatusOutForDelivery          TrackingStatus = "out_for_delivery"
	StatusPlaneInFlight           TrackingStatus = "plane_in_flight"
	StatusPlaneLanded             TrackingStatus = "plane_landed"
	StatusPickedUp                TrackingStatus = "picked_up"
	StatusReturnedToShipper       TrackingStatus = "returned_to_shipper"
	StatusSplit                   TrackingStatus = "split_status"
	StatusAtSortFacility          TrackingStatus = "at_sort_facility"
	StatusTransfer                TrackingStatus = "transfer"
	StatusManifestPickup          TrackingStatus = "manifest_pickup"
	StatusUnknown                 TrackingStatus = "unknown"
)

// ShipmentEvent is one scan in a package's travel history. Time is stored as
// UTC; carrier feeds carry no reliable zone, so input is taken as already UTC.
type ShipmentEvent struct {
	Description string
	Time        time.Time
	Location    Location
}

// TrackingResult is the unified view of one tracked shipment.
type TrackingResult struct {
	TrackingNumber string

	Status            TrackingStatus
	StatusCode        string
	StatusDescription string

	Origin      *Location
	Destination *Location

	// ScheduledDelivery is nil once the shipment has been delivered.
	ScheduledDelivery *time.Time

	// Events is ordered by event time, oldest first.
	Events []ShipmentEvent

	Delivered bool
	Exception bool
}
