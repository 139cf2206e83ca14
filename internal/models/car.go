package models

import "time"

// Car body types. Display-only, but stored as spelled.
const (
	CarTypeSedan  = "SEDAN"
	CarTypeSUV    = "SUV"
	CarTypeLuxury = "LUXURY"
	CarTypeVan    = "VAN"
	CarTypeTruck  = "TRUCK"
)

// Transmission kinds.
const (
	TransmissionAutomatic = "AUTOMATIC"
	TransmissionManual    = "MANUAL"
)

// Car is a rentable vehicle owned by exactly one OwnerProfile.
// PricePerDay is in integer minor currency units (cents); a car is
// bookable only while IsActive.
type Car struct {
	UUID           string
	OwnerUID       string
	Title          string
	Brand          string
	Model          string
	Year           int
	Type           string
	Seats          int
	Transmission   string
	PricePerDay    int64
	City           string
	IsActive       bool
	IsCompanyOwned bool
	MainImageURL   string
	ImageURLs      []string
	Description    string
	CreatedAt      time.Time
}
