package itinerary_models

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceRecord is a place as returned by the catalog. Records are never
// mutated by the engine.
type PlaceRecord struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	TagsTitle   *string     `json:"tags_title,omitempty"`
	City        string      `json:"city,omitempty"`
	Coordinate  *Coordinate `json:"coordinate,omitempty"`
}

// Tags returns the raw tag string, or "" when the record has none.
func (p PlaceRecord) Tags() string {
	if p.TagsTitle == nil {
		return ""
	}
	return *p.TagsTitle
}

type PlaceFilter struct {
	City  string
	Limit int
}
