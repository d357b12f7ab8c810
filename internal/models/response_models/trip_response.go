package response_models

import (
	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

type TripResponse struct {
	ID             string            `json:"id"`
	Destination    string            `json:"destination"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	NumberOfDays   int               `json:"number_of_days"`
	Categories     []string          `json:"categories"`
	Pace           string            `json:"pace"`
	DiningVibe     string            `json:"dining_vibe,omitempty"`
	BudgetLevel    int               `json:"budget_level"`
	LodgingAddress string            `json:"lodging_address,omitempty"`
	Days           []TripDayResponse `json:"days,omitempty"`
}

type TripDayResponse struct {
	Index      int                                  `json:"index"`
	Date       string                               `json:"date"`
	Activities []itinerary_models.ItineraryActivity `json:"activities"`
	Lunch      *itinerary_models.MealSuggestion     `json:"lunch,omitempty"`
	Dinner     *itinerary_models.MealSuggestion     `json:"dinner,omitempty"`
}

func NewTripResponse(plan itinerary_models.TripPlan) TripResponse {
	resp := TripResponse{
		ID:             plan.ID,
		Destination:    plan.Destination,
		StartDate:      utils.FormatDate(plan.StartDate),
		EndDate:        utils.FormatDate(plan.EndDate),
		NumberOfDays:   plan.NumberOfDays(),
		Categories:     plan.Categories,
		Pace:           string(plan.Pace),
		DiningVibe:     string(plan.DiningVibe),
		BudgetLevel:    plan.BudgetLevel,
		LodgingAddress: plan.LodgingAddress,
	}
	if resp.Categories == nil {
		resp.Categories = []string{}
	}
	for _, d := range plan.Days {
		acts := d.Activities
		if acts == nil {
			acts = []itinerary_models.ItineraryActivity{}
		}
		resp.Days = append(resp.Days, TripDayResponse{
			Index:      d.Index,
			Date:       utils.FormatDate(plan.DateOf(d.Index)),
			Activities: acts,
			Lunch:      d.Lunch,
			Dinner:     d.Dinner,
		})
	}
	return resp
}

// ScheduleEntryResponse renders the activity/meal union with a "kind" tag.
type ScheduleEntryResponse struct {
	Kind     itinerary_models.ScheduleKind       `json:"kind"`
	Index    *int                                `json:"index,omitempty"`
	Activity *itinerary_models.ItineraryActivity `json:"activity,omitempty"`
	Meal     *itinerary_models.MealSuggestion    `json:"meal,omitempty"`
}

func NewScheduleResponse(entries []itinerary_models.ScheduleEntry) []ScheduleEntryResponse {
	out := make([]ScheduleEntryResponse, 0, len(entries))
	for _, e := range entries {
		switch v := e.(type) {
		case itinerary_models.ActivityEntry:
			idx, act := v.Index, v.Activity
			out = append(out, ScheduleEntryResponse{Kind: v.Kind(), Index: &idx, Activity: &act})
		case itinerary_models.MealSlotEntry:
			meal := v.Meal
			out = append(out, ScheduleEntryResponse{Kind: v.Kind(), Meal: &meal})
		}
	}
	return out
}
