package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"iter/internal/models/itinerary_models"
)

type Trip struct {
	BaseModel
	OwnerID        string `gorm:"index"`
	Destination    string
	StartDate      time.Time `gorm:"type:date"`
	EndDate        time.Time `gorm:"type:date"`
	Categories     pq.StringArray `gorm:"type:text[]"`
	Pace           string
	DiningVibe     string
	BudgetLevel    int
	LodgingAddress string

	Days []TripDay `gorm:"constraint:OnDelete:CASCADE"`
}

// TripDay stores only the day index; its date derives from Trip.StartDate.
type TripDay struct {
	BaseModel
	TripID   uuid.UUID `gorm:"type:uuid;index"`
	DayIndex int

	Activities []TripActivity `gorm:"constraint:OnDelete:CASCADE"`
	Meals      []TripMeal     `gorm:"constraint:OnDelete:CASCADE"`
}

type TripActivity struct {
	BaseModel
	TripDayID         uuid.UUID `gorm:"type:uuid;index"`
	Position          int
	PlaceID           *int64
	PlaceName         string
	StartTime         string
	Duration          string
	Latitude          *float64
	Longitude         *float64
	TransportMode     string
	TransportDuration string
	TransportDetail   string
	Notes             string
}

type TripMeal struct {
	BaseModel
	TripDayID        uuid.UUID `gorm:"type:uuid;index"`
	MealType         string
	AnchorIndex      int
	AnchorActivityID string
	SuggestedTime    string
	UnfilteredBudget bool
	Restaurants      []itinerary_models.RestaurantSuggestion `gorm:"serializer:json"`
}
