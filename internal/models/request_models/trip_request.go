package request_models

type GenerateTripRequest struct {
	// TripID regenerates an existing trip in place.
	TripID         string   `json:"trip_id" binding:"omitempty,uuid"`
	Destination    string   `json:"destination" binding:"required"`
	StartDate      string   `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate        string   `json:"end_date"`
	Categories     []string `json:"categories"`
	Pace           string   `json:"pace"`
	DiningVibe     string   `json:"dining_vibe"`
	BudgetLevel    int      `json:"budget_level" binding:"omitempty,min=1,max=4"`
	LodgingAddress string   `json:"lodging_address"`
}

// EditTripRequest carries one edit. reorder reads from/to, swap reads
// index/place_id/notes and time reads index/start_time.
type EditTripRequest struct {
	Type      string  `json:"type" binding:"required,oneof=reorder swap time"`
	Day       int     `json:"day" binding:"required,min=1"`
	From      *int    `json:"from"`
	To        *int    `json:"to"`
	Index     *int    `json:"index"`
	PlaceID   *int64  `json:"place_id"`
	Notes     *string `json:"notes"`
	StartTime string  `json:"start_time"`
}
