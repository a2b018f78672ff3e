package domain

import (
	"slices"
	"time"
)

// RiskLevel is the operational risk of a NOTAM.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// RiskLevels lists the risk levels in display order.
var RiskLevels = []RiskLevel{RiskHigh, RiskMedium, RiskLow}

// Valid reports whether r is one of the known risk levels.
func (r RiskLevel) Valid() bool {
	return slices.Contains(RiskLevels, r)
}

// Priority is informational and independent of RiskLevel.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Category classifies what a NOTAM affects.
type Category string

const (
	CategoryRunway     Category = "runway"
	CategoryAirspace   Category = "airspace"
	CategoryNavigation Category = "navigation"
	CategoryWeather    Category = "weather"
	CategoryMilitary   Category = "military"
	CategoryObstacles  Category = "obstacles"
)

// Categories lists every known category.
var Categories = []Category{
	CategoryRunway,
	CategoryAirspace,
	CategoryNavigation,
	CategoryWeather,
	CategoryMilitary,
	CategoryObstacles,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Notam is a single aeronautical notice. Records are immutable once loaded.
type Notam struct {
	ID               string    `json:"id"`
	ICAO             string    `json:"icao"`
	AirportName      string    `json:"airport_name"`
	Country          string    `json:"country"`
	EffectiveFrom    time.Time `json:"effective_from"`
	EffectiveUntil   time.Time `json:"effective_until"`
	Category         Category  `json:"category"`
	Priority         Priority  `json:"priority"`
	RawText          string    `json:"raw_text"`
	Interpreted      string    `json:"interpreted"`
	RiskLevel        RiskLevel `json:"risk_level"`
	AffectedElements []string  `json:"affected_elements"`
	Source           string    `json:"source"`
}

// clone returns a copy of n that shares no mutable state with it.
func (n Notam) clone() Notam {
	n.AffectedElements = slices.Clone(n.AffectedElements)
	return n
}

// Store is the in-memory Record Store. It is never mutated after construction.
type Store struct {
	records []Notam
}

// NewStore copies records into a new Store, preserving their order.
func NewStore(records []Notam) *Store {
	s := &Store{records: make([]Notam, len(records))}
	for i := range records {
		s.records[i] = records[i].clone()
	}
	return s
}

// Records returns a copy of the stored records in load order.
func (s *Store) Records() []Notam {
	out := make([]Notam, len(s.records))
	for i := range s.records {
		out[i] = s.records[i].clone()
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int { return len(s.records) }

// Get looks up a record by ID.
func (s *Store) Get(id string) (Notam, bool) {
	for i := range s.records {
		if s.records[i].ID == id {
			return s.records[i].clone(), true
		}
	}
	return Notam{}, false
}
