package models

import "time"

// Booking lifecycle states. PENDING is set at creation, PAID after the
// checkout return. CANCELLED exists in the schema but no flow sets it.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusPaid      = "PAID"
	BookingStatusCancelled = "CANCELLED"
)

// Enumerated physical handoff points for a rental. Wire-exact.
const (
	PickupDowntown   = "DOWNTOWN"
	PickupCMHAirport = "CMH_AIRPORT"
	PickupEaston     = "EASTON"
	PickupPolaris    = "POLARIS"
	PickupDelivery   = "DELIVERY"
)

var pickupLocations = map[string]struct{}{
	PickupDowntown:   {},
	PickupCMHAirport: {},
	PickupEaston:     {},
	PickupPolaris:    {},
	PickupDelivery:   {},
}

// ValidPickupLocation reports whether s is one of the enumerated
// pickup locations.
func ValidPickupLocation(s string) bool {
	_, ok := pickupLocations[s]
	return ok
}

// Booking is a reservation of one car by one user for a date range.
// TotalPrice is in integer minor currency units (cents).
type Booking struct {
	UUID           string
	CarUID         string
	UserUID        string
	StartDate      time.Time
	EndDate        time.Time
	PickupLocation string
	TotalPrice     int64
	Status         string
	CreatedAt      time.Time
}

// BookingView is a booking joined with the car attributes the account and
// admin listings render.
type BookingView struct {
	Booking
	CarTitle      string
	CarCity       string
	CustomerEmail string
}

// BookingPaidEvent is the message published to the notifications exchange
// when a booking transitions to PAID. The notification-sender consumes it.
type BookingPaidEvent struct {
	BookingUID     string    `json:"booking_uid"`
	CarTitle       string    `json:"car_title"`
	CarCity        string    `json:"car_city"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	PickupLocation string    `json:"pickup_location"`
	TotalPrice     int64     `json:"total_price"`
	CustomerEmail  string    `json:"customer_email"`
}
