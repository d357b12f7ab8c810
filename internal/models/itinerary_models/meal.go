package itinerary_models

type MealType string

const (
	MealLunch  MealType = "lunch"
	MealDinner MealType = "dinner"
)

// SuggestedTime is the canonical time shown for the meal slot.
func (m MealType) SuggestedTime() string {
	if m == MealDinner {
		return "19:30"
	}
	return "12:30"
}

// Window returns the inclusive start-hour range that qualifies an activity as
// the meal's anchor.
func (m MealType) Window() (int, int) {
	if m == MealDinner {
		return 18, 21
	}
	return 11, 13
}

type RestaurantSuggestion struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Coordinate     Coordinate `json:"coordinate"`
	DistanceMeters float64    `json:"distance_meters"`
	Phone          string     `json:"phone,omitempty"`
	URL            string     `json:"url,omitempty"`
	PriceLevel     *int       `json:"price_level,omitempty"`
}

// MealSuggestion is attached after the activity at AnchorIndex. AnchorActivityID
// lets edits relocate or drop the suggestion when activities move.
type MealSuggestion struct {
	AnchorIndex      int                    `json:"anchor_index"`
	AnchorActivityID string                 `json:"anchor_activity_id"`
	Type             MealType               `json:"type"`
	SuggestedTime    string                 `json:"suggested_time"`
	Restaurants      []RestaurantSuggestion `json:"restaurants"`
	UnfilteredBudget bool                   `json:"unfiltered_budget,omitempty"`
}

const MaxRestaurantsPerMeal = 3
