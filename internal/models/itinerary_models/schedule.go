package itinerary_models

type ScheduleKind string

const (
	ScheduleActivity ScheduleKind = "activity"
	ScheduleMeal     ScheduleKind = "meal"
)

// ScheduleEntry is one row of a day's timeline: either an ActivityEntry or a
// MealSlotEntry.
type ScheduleEntry interface {
	Kind() ScheduleKind
}

type ActivityEntry struct {
	Index    int               `json:"index"`
	Activity ItineraryActivity `json:"activity"`
}

func (ActivityEntry) Kind() ScheduleKind { return ScheduleActivity }

type MealSlotEntry struct {
	Meal MealSuggestion `json:"meal"`
}

func (MealSlotEntry) Kind() ScheduleKind { return ScheduleMeal }

// Timeline lists the day's activities with each meal slot placed right after
// its anchor activity.
func (d TripDay) Timeline() []ScheduleEntry {
	out := make([]ScheduleEntry, 0, len(d.Activities)+2)
	for i, a := range d.Activities {
		out = append(out, ActivityEntry{Index: i, Activity: a})
		for _, m := range []*MealSuggestion{d.Lunch, d.Dinner} {
			if m != nil && m.AnchorIndex == i {
				out = append(out, MealSlotEntry{Meal: *m})
			}
		}
	}
	return out
}
