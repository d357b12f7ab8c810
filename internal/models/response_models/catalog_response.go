package response_models

import "iter/internal/models/itinerary_models"

type CategoryResponse struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func NewCategoryResponses(groups []itinerary_models.CategoryGroup) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, CategoryResponse{Key: g.Key, Name: g.Name, Icon: g.Icon, Color: g.Color})
	}
	return out
}

// PlaceResponse lists the keys of the category groups the place's tags fall into.
type PlaceResponse struct {
	ID          int64                        `json:"id"`
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	Tags        string                       `json:"tags,omitempty"`
	City        string                       `json:"city,omitempty"`
	Coordinate  *itinerary_models.Coordinate `json:"coordinate,omitempty"`
	Categories  []string                     `json:"categories"`
}
