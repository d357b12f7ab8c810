package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"iter/internal/models/db_models"
)

type TripRepository interface {
	// ReplaceTrip upserts the trip row and replaces its days, activities and meals.
	ReplaceTrip(ctx context.Context, trip *db_models.Trip) error
	GetTripByID(ctx context.Context, id uuid.UUID) (*db_models.Trip, error)
	ListTripsByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]db_models.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) ReplaceTrip(ctx context.Context, trip *db_models.Trip) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		days := trip.Days
		trip.Days = nil
		defer func() { trip.Days = days }()

		var existing db_models.Trip
		err := tx.Select("created_at").First(&existing, "id = ?", trip.ID).Error
		switch {
		case err == nil:
			trip.CreatedAt = existing.CreatedAt
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("load trip: %w", err)
		}

		if err := tx.Save(trip).Error; err != nil {
			return fmt.Errorf("save trip: %w", err)
		}

		dayIDs := tx.Model(&db_models.TripDay{}).Select("id").Where("trip_id = ?", trip.ID)
		if err := tx.Where("trip_day_id IN (?)", dayIDs).Delete(&db_models.TripActivity{}).Error; err != nil {
			return fmt.Errorf("clear activities: %w", err)
		}
		if err := tx.Where("trip_day_id IN (?)", dayIDs).Delete(&db_models.TripMeal{}).Error; err != nil {
			return fmt.Errorf("clear meals: %w", err)
		}
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&db_models.TripDay{}).Error; err != nil {
			return fmt.Errorf("clear days: %w", err)
		}

		for i := range days {
			days[i].ID = uuid.Nil
			days[i].TripID = trip.ID
			for j := range days[i].Meals {
				days[i].Meals[j].ID = uuid.Nil
			}
		}
		if len(days) > 0 {
			// gorm fills the day foreign keys on the nested rows
			if err := tx.Create(&days).Error; err != nil {
				return fmt.Errorf("insert days: %w", err)
			}
		}
		return nil
	})
}

func (r *tripRepository) GetTripByID(ctx context.Context, id uuid.UUID) (*db_models.Trip, error) {
	var trip db_models.Trip
	err := r.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("day_index") }).
		Preload("Days.Activities", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Days.Meals").
		First(&trip, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListTripsByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]db_models.Trip, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	var trips []db_models.Trip
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Delete(&db_models.Trip{}, "id = ?", id).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
