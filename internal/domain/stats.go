package domain

import (
	"context"
	"time"
)

// Bucket is a count with its share of the total, formatted with two decimals
// ("43.75"). Percentage is "0.00" when the total is zero.
// swagger:model Bucket
type Bucket struct {
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// GenderStats breaks registered persons down by gender.
// swagger:model GenderStats
type GenderStats struct {
	Total  int    `json:"total"`
	Male   Bucket `json:"male"`
	Female Bucket `json:"female"`
	Other  Bucket `json:"other"`
}

// CityBucket is one free-text address bucket. Addresses are trimmed but not
// case-folded, so distinct spellings form distinct buckets.
// swagger:model CityBucket
type CityBucket struct {
	City       string `json:"city"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// CityStats groups registered persons by address, sorted by count descending.
// swagger:model CityStats
type CityStats struct {
	Total  int          `json:"total"`
	Cities []CityBucket `json:"cities"`
}

// HourBucket is a check-in count for one hour-of-day bin ("15:00"),
// server-local time.
// swagger:model HourBucket
type HourBucket struct {
	Hour       string `json:"hour"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// CheckInStats bins check-ins for the active event by hour of day, sorted by
// hour ascending.
// swagger:model CheckInStats
type CheckInStats struct {
	Total  int          `json:"total"`
	Hourly []HourBucket `json:"hourly"`
}

// RegistrationMethodStats breaks registered persons down by how they first
// registered.
// swagger:model RegistrationMethodStats
type RegistrationMethodStats struct {
	Total  int    `json:"total"`
	Self   Bucket `json:"self"`
	OnSpot Bucket `json:"on_spot"`
	Admin  Bucket `json:"admin"`
}

// DashboardStats is the aggregate summary for the active event.
// swagger:model DashboardStats
type DashboardStats struct {
	Event struct {
		Name  string    `json:"name"`
		Date  time.Time `json:"date"`
		Venue string    `json:"venue"`
	} `json:"event"`
	Registration struct {
		Total             int    `json:"total"`
		CheckedIn         int    `json:"checked_in"`
		CheckInPercentage string `json:"check_in_percentage"`
		Pending           int    `json:"pending"`
		NamdharakCount    int    `json:"namdharak_count"`
	} `json:"registration"`
	Gender struct {
		Male   int `json:"male"`
		Female int `json:"female"`
		Other  int `json:"other"`
	} `json:"gender"`
	RegistrationMethod struct {
		Self   int `json:"self"`
		OnSpot int `json:"on_spot"`
		Admin  int `json:"admin"`
	} `json:"registration_method"`
}

// StatsService is read-only aggregation over persons registered for the
// active event. Every method fails with ErrNoActiveEvent when no event is
// active.
type StatsService interface {
	Gender(ctx context.Context) (*GenderStats, error)
	City(ctx context.Context) (*CityStats, error)
	CheckIn(ctx context.Context) (*CheckInStats, error)
	RegistrationMethod(ctx context.Context) (*RegistrationMethodStats, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
}
