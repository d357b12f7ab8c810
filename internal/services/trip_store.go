package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"iter/internal/models/db_models"
	"iter/internal/models/itinerary_models"
	"iter/internal/repositories"
	"iter/pkg/utils"
)

// TripStoreInterface persists whole plans.
type TripStoreInterface interface {
	Save(ctx context.Context, plan itinerary_models.TripPlan) error
	// Load returns ErrTripNotFound for unknown ids.
	Load(ctx context.Context, id string) (itinerary_models.TripPlan, error)
	// List returns the owner's trips newest first, without their days.
	List(ctx context.Context, ownerID string, page, pageSize int) ([]itinerary_models.TripPlan, error)
	Delete(ctx context.Context, id string) error
}

type GormTripStore struct {
	tripRepo repositories.TripRepository
}

func NewGormTripStore(tripRepo repositories.TripRepository) TripStoreInterface {
	return &GormTripStore{tripRepo: tripRepo}
}

func (s *GormTripStore) Save(ctx context.Context, plan itinerary_models.TripPlan) error {
	row, err := tripToRow(plan)
	if err != nil {
		return err
	}
	if err := s.tripRepo.ReplaceTrip(ctx, row); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (s *GormTripStore) Load(ctx context.Context, id string) (itinerary_models.TripPlan, error) {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return itinerary_models.TripPlan{}, fmt.Errorf("%w: %s", utils.ErrTripNotFound, id)
	}
	row, err := s.tripRepo.GetTripByID(ctx, tripID)
	if err != nil {
		return itinerary_models.TripPlan{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if row == nil {
		return itinerary_models.TripPlan{}, fmt.Errorf("%w: %s", utils.ErrTripNotFound, id)
	}
	return tripFromRow(*row), nil
}

func (s *GormTripStore) List(ctx context.Context, ownerID string, page, pageSize int) ([]itinerary_models.TripPlan, error) {
	rows, err := s.tripRepo.ListTripsByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]itinerary_models.TripPlan, 0, len(rows))
	for _, r := range rows {
		out = append(out, tripFromRow(r))
	}
	return out, nil
}

func (s *GormTripStore) Delete(ctx context.Context, id string) error {
	tripID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %s", utils.ErrTripNotFound, id)
	}
	if err := s.tripRepo.DeleteTrip(ctx, tripID); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func tripToRow(plan itinerary_models.TripPlan) (*db_models.Trip, error) {
	tripID, err := uuid.Parse(plan.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: trip id %q is not a uuid", utils.ErrInvalidInput, plan.ID)
	}
	row := &db_models.Trip{
		OwnerID:        plan.OwnerID,
		Destination:    plan.Destination,
		StartDate:      plan.StartDate,
		EndDate:        plan.EndDate,
		Categories:     plan.Categories,
		Pace:           string(plan.Pace),
		DiningVibe:     string(plan.DiningVibe),
		BudgetLevel:    plan.BudgetLevel,
		LodgingAddress: plan.LodgingAddress,
	}
	row.ID = tripID

	for _, d := range plan.Days {
		dayRow := db_models.TripDay{DayIndex: d.Index}
		for pos, a := range d.Activities {
			actRow := db_models.TripActivity{
				Position:  pos,
				PlaceID:   a.PlaceID,
				PlaceName: a.PlaceName,
				StartTime: a.StartTime,
				Duration:  a.Duration,
				Notes:     a.Notes,
			}
			if id, err := uuid.Parse(a.ID); err == nil {
				actRow.ID = id
			}
			if a.Coordinate != nil {
				lat, lng := a.Coordinate.Lat, a.Coordinate.Lng
				actRow.Latitude, actRow.Longitude = &lat, &lng
			}
			if a.Transport != nil {
				actRow.TransportMode = a.Transport.Mode
				actRow.TransportDuration = a.Transport.Duration
				actRow.TransportDetail = a.Transport.Detail
			}
			dayRow.Activities = append(dayRow.Activities, actRow)
		}
		for _, m := range []*itinerary_models.MealSuggestion{d.Lunch, d.Dinner} {
			if m == nil {
				continue
			}
			dayRow.Meals = append(dayRow.Meals, db_models.TripMeal{
				MealType:         string(m.Type),
				AnchorIndex:      m.AnchorIndex,
				AnchorActivityID: m.AnchorActivityID,
				SuggestedTime:    m.SuggestedTime,
				UnfilteredBudget: m.UnfilteredBudget,
				Restaurants:      m.Restaurants,
			})
		}
		row.Days = append(row.Days, dayRow)
	}
	return row, nil
}

func tripFromRow(row db_models.Trip) itinerary_models.TripPlan {
	plan := itinerary_models.TripPlan{
		ID:             row.ID.String(),
		OwnerID:        row.OwnerID,
		Destination:    row.Destination,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		Categories:     []string(row.Categories),
		Pace:           itinerary_models.ParsePace(row.Pace),
		DiningVibe:     itinerary_models.DiningVibe(row.DiningVibe),
		BudgetLevel:    row.BudgetLevel,
		LodgingAddress: row.LodgingAddress,
	}
	for _, d := range row.Days {
		day := itinerary_models.TripDay{Index: d.DayIndex, Activities: []itinerary_models.ItineraryActivity{}}
		for _, a := range d.Activities {
			act := itinerary_models.ItineraryActivity{
				ID:        a.ID.String(),
				PlaceID:   a.PlaceID,
				PlaceName: a.PlaceName,
				StartTime: a.StartTime,
				Duration:  a.Duration,
				Notes:     a.Notes,
			}
			if a.Latitude != nil && a.Longitude != nil {
				act.Coordinate = &itinerary_models.Coordinate{Lat: *a.Latitude, Lng: *a.Longitude}
			}
			if a.TransportMode != "" || a.TransportDuration != "" || a.TransportDetail != "" {
				act.Transport = &itinerary_models.TransportInfo{
					Mode:     a.TransportMode,
					Duration: a.TransportDuration,
					Detail:   a.TransportDetail,
				}
			}
			day.Activities = append(day.Activities, act)
		}
		for _, m := range d.Meals {
			meal := &itinerary_models.MealSuggestion{
				AnchorIndex:      m.AnchorIndex,
				AnchorActivityID: m.AnchorActivityID,
				Type:             itinerary_models.MealType(m.MealType),
				SuggestedTime:    m.SuggestedTime,
				Restaurants:      m.Restaurants,
				UnfilteredBudget: m.UnfilteredBudget,
			}
			if meal.Type == itinerary_models.MealDinner {
				day.Dinner = meal
			} else {
				day.Lunch = meal
			}
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

// MemoryTripStore keeps plans in process memory; used by the CLI and tests.
type MemoryTripStore struct {
	mu    sync.RWMutex
	trips map[string]itinerary_models.TripPlan
}

func NewMemoryTripStore() *MemoryTripStore {
	return &MemoryTripStore{trips: make(map[string]itinerary_models.TripPlan)}
}

func (s *MemoryTripStore) Save(_ context.Context, plan itinerary_models.TripPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[plan.ID] = plan.Clone()
	return nil
}

func (s *MemoryTripStore) Load(_ context.Context, id string) (itinerary_models.TripPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.trips[id]
	if !ok {
		return itinerary_models.TripPlan{}, fmt.Errorf("%w: %s", utils.ErrTripNotFound, id)
	}
	return plan.Clone(), nil
}

func (s *MemoryTripStore) List(_ context.Context, ownerID string, page, pageSize int) ([]itinerary_models.TripPlan, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	s.mu.RLock()
	var owned []itinerary_models.TripPlan
	for _, p := range s.trips {
		if p.OwnerID == ownerID {
			summary := p.Clone()
			summary.Days = nil
			owned = append(owned, summary)
		}
	}
	s.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].StartDate.Equal(owned[j].StartDate) {
			return owned[i].StartDate.After(owned[j].StartDate)
		}
		return owned[i].ID < owned[j].ID
	})
	start := (page - 1) * pageSize
	if start >= len(owned) {
		return []itinerary_models.TripPlan{}, nil
	}
	end := min(start+pageSize, len(owned))
	return owned[start:end], nil
}

func (s *MemoryTripStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trips, id)
	return nil
}
