package itinerary_models

import "strings"

type Pace string

const (
	PaceRelaxed  Pace = "Relaxed"
	PaceBalanced Pace = "Balanced"
	PaceIntense  Pace = "Intense"
)

var (
	slotTimes     = []string{"09:00", "12:00", "15:00", "18:00", "20:30"}
	slotDurations = []string{"2h", "1.5h", "2.5h", "2h", "1.5h"}
)

// ParsePace resolves a pace label case-insensitively. Unknown labels are Balanced.
func ParsePace(label string) Pace {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "relaxed":
		return PaceRelaxed
	case "intense":
		return PaceIntense
	default:
		return PaceBalanced
	}
}

func (p Pace) PlacesPerDay() int {
	switch p {
	case PaceRelaxed:
		return 3
	case PaceIntense:
		return 5
	default:
		return 4
	}
}

// SlotTimes returns the canonical start time for each slot of a day.
func (p Pace) SlotTimes() []string {
	out := make([]string, p.PlacesPerDay())
	copy(out, slotTimes)
	return out
}

func (p Pace) SlotDurations() []string {
	out := make([]string, p.PlacesPerDay())
	copy(out, slotDurations)
	return out
}

type DiningVibe string

// SearchQuery is the restaurant search keyword for the vibe.
func (v DiningVibe) SearchQuery() string {
	switch strings.ToLower(strings.TrimSpace(string(v))) {
	case "local":
		return "local restaurant"
	case "casual":
		return "casual restaurant"
	case "fine dining":
		return "fine dining restaurant"
	case "street food":
		return "street food"
	case "vegetarian":
		return "vegetarian restaurant"
	case "cafe":
		return "cafe"
	default:
		return "restaurant"
	}
}

const (
	MinBudgetLevel     = 1
	MaxBudgetLevel     = 4
	DefaultBudgetLevel = 2
)
