package itinerary_models

type EditType string

const (
	EditReorder EditType = "reorder"
	EditSwap    EditType = "swap"
	EditTime    EditType = "time"
)

// EditCommand is a single user edit against one day of a plan. Only the fields
// relevant to Type are read.
type EditCommand struct {
	Type EditType
	Day  int

	// reorder
	From int
	To   int

	// swap, time
	Index int

	// swap
	Replacement *PlaceRecord
	Notes       *string

	// time
	StartTime string
}

// NeedsTransport reports whether the edit changes stop positions or places and
// therefore the day's transport segments.
func (c EditCommand) NeedsTransport() bool {
	return c.Type == EditReorder || c.Type == EditSwap
}
