package itinerary_models

import (
	"strconv"
	"strings"
	"time"
)

type TransportInfo struct {
	Mode     string `json:"mode"`
	Duration string `json:"duration"`
	Detail   string `json:"detail"`
}

type ItineraryActivity struct {
	ID         string         `json:"id"`
	PlaceID    *int64         `json:"place_id,omitempty"`
	PlaceName  string         `json:"place_name"`
	StartTime  string         `json:"start_time"`
	Duration   string         `json:"duration"`
	Coordinate *Coordinate    `json:"coordinate,omitempty"`
	Transport  *TransportInfo `json:"transport,omitempty"`
	Notes      string         `json:"notes,omitempty"`
}

// StartHour parses the hour of StartTime ("HH:MM"). ok is false for malformed values.
func (a ItineraryActivity) StartHour() (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(a.StartTime), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	if m, err := strconv.Atoi(parts[1]); err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h, true
}

func (a ItineraryActivity) Clone() ItineraryActivity {
	out := a
	if a.PlaceID != nil {
		id := *a.PlaceID
		out.PlaceID = &id
	}
	if a.Coordinate != nil {
		c := *a.Coordinate
		out.Coordinate = &c
	}
	if a.Transport != nil {
		t := *a.Transport
		out.Transport = &t
	}
	return out
}

type TripDay struct {
	Index      int                 `json:"index"`
	Activities []ItineraryActivity `json:"activities"`
	Lunch      *MealSuggestion     `json:"lunch,omitempty"`
	Dinner     *MealSuggestion     `json:"dinner,omitempty"`
}

func (d TripDay) Clone() TripDay {
	out := TripDay{Index: d.Index}
	out.Activities = make([]ItineraryActivity, len(d.Activities))
	for i, a := range d.Activities {
		out.Activities[i] = a.Clone()
	}
	out.Lunch = cloneMeal(d.Lunch)
	out.Dinner = cloneMeal(d.Dinner)
	return out
}

func cloneMeal(m *MealSuggestion) *MealSuggestion {
	if m == nil {
		return nil
	}
	c := *m
	c.Restaurants = append([]RestaurantSuggestion(nil), m.Restaurants...)
	return &c
}

// IndexOf returns the position of the activity with the given id, or -1.
func (d TripDay) IndexOf(activityID string) int {
	for i, a := range d.Activities {
		if a.ID == activityID {
			return i
		}
	}
	return -1
}

type TripPlan struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"owner_id,omitempty"`
	Destination    string     `json:"destination"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Categories     []string   `json:"categories,omitempty"`
	Pace           Pace       `json:"pace"`
	DiningVibe     DiningVibe `json:"dining_vibe,omitempty"`
	BudgetLevel    int        `json:"budget_level"`
	LodgingAddress string     `json:"lodging_address,omitempty"`
	Days           []TripDay  `json:"days"`
}

// NumberOfDays is max(1, daysBetween(start, end) + 1).
func (t TripPlan) NumberOfDays() int {
	return DayCount(t.StartDate, t.EndDate)
}

// DateOf returns the calendar date of a 1-based day index.
func (t TripPlan) DateOf(dayIndex int) time.Time {
	return truncateDay(t.StartDate).AddDate(0, 0, dayIndex-1)
}

// Day returns a pointer into Days for the 1-based index, or nil.
func (t *TripPlan) Day(dayIndex int) *TripDay {
	for i := range t.Days {
		if t.Days[i].Index == dayIndex {
			return &t.Days[i]
		}
	}
	return nil
}

func (t TripPlan) Clone() TripPlan {
	out := t
	out.Categories = append([]string(nil), t.Categories...)
	out.Days = make([]TripDay, len(t.Days))
	for i, d := range t.Days {
		out.Days[i] = d.Clone()
	}
	return out
}

func DayCount(start, end time.Time) int {
	diff := int(truncateDay(end).Sub(truncateDay(start)).Hours() / 24)
	if diff+1 < 1 {
		return 1
	}
	return diff + 1
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
