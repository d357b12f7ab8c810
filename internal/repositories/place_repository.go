package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"iter/internal/models/db_models"
)

const defaultPlaceLimit = 500

type PlaceRepository interface {
	ListPlaces(ctx context.Context, city string, limit int) ([]db_models.Place, error)
	GetPlaceByID(ctx context.Context, id int64) (*db_models.Place, error)
}

type placeRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

// ListPlaces filters by city case-insensitively; an empty city lists everything.
func (r *placeRepository) ListPlaces(ctx context.Context, city string, limit int) ([]db_models.Place, error) {
	if limit <= 0 {
		limit = defaultPlaceLimit
	}

	q := r.db.WithContext(ctx).Model(&db_models.Place{})
	if city != "" {
		q = q.Where("LOWER(city) = LOWER(?)", city)
	}

	var places []db_models.Place
	if err := q.Order("id").Limit(limit).Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *placeRepository) GetPlaceByID(ctx context.Context, id int64) (*db_models.Place, error) {
	var place db_models.Place
	err := r.db.WithContext(ctx).First(&place, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}
