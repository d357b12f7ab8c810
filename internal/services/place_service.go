package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"iter/internal/models/db_models"
	"iter/internal/models/itinerary_models"
	"iter/internal/repositories"
	"iter/pkg/utils"
)

// PlaceCatalogInterface is the read side of the place catalog.
type PlaceCatalogInterface interface {
	FetchPlaces(ctx context.Context, filter itinerary_models.PlaceFilter) ([]itinerary_models.PlaceRecord, error)
	// FetchPlaceByID returns nil, nil when the place does not exist.
	FetchPlaceByID(ctx context.Context, id int64) (*itinerary_models.PlaceRecord, error)
}

type PlaceService struct {
	placeRepo repositories.PlaceRepository
	log       *zap.Logger
}

func NewPlaceService(placeRepo repositories.PlaceRepository, log *zap.Logger) PlaceCatalogInterface {
	return &PlaceService{placeRepo: placeRepo, log: log}
}

func (p *PlaceService) FetchPlaces(ctx context.Context, filter itinerary_models.PlaceFilter) ([]itinerary_models.PlaceRecord, error) {
	rows, err := p.placeRepo.ListPlaces(ctx, filter.City, filter.Limit)
	if err != nil {
		p.log.Error("list places failed", zap.String("city", filter.City), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	out := make([]itinerary_models.PlaceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, placeFromRow(r))
	}
	return out, nil
}

func (p *PlaceService) FetchPlaceByID(ctx context.Context, id int64) (*itinerary_models.PlaceRecord, error) {
	row, err := p.placeRepo.GetPlaceByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if row == nil {
		return nil, nil
	}
	rec := placeFromRow(*row)
	return &rec, nil
}

func placeFromRow(r db_models.Place) itinerary_models.PlaceRecord {
	rec := itinerary_models.PlaceRecord{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		TagsTitle:   r.TagsTitle,
		City:        r.City,
	}
	if r.Latitude != nil && r.Longitude != nil {
		rec.Coordinate = &itinerary_models.Coordinate{Lat: *r.Latitude, Lng: *r.Longitude}
	}
	return rec
}

// StaticPlaceCatalog serves a fixed list of places, e.g. loaded from a JSON file.
type StaticPlaceCatalog struct {
	places []itinerary_models.PlaceRecord
	byID   map[int64]int
}

func NewStaticPlaceCatalog(places []itinerary_models.PlaceRecord) *StaticPlaceCatalog {
	c := &StaticPlaceCatalog{places: places, byID: make(map[int64]int, len(places))}
	for i, p := range places {
		c.byID[p.ID] = i
	}
	return c
}

func (c *StaticPlaceCatalog) FetchPlaces(_ context.Context, filter itinerary_models.PlaceFilter) ([]itinerary_models.PlaceRecord, error) {
	var out []itinerary_models.PlaceRecord
	for _, p := range c.places {
		if filter.City != "" && p.City != "" && !strings.EqualFold(p.City, filter.City) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (c *StaticPlaceCatalog) FetchPlaceByID(_ context.Context, id int64) (*itinerary_models.PlaceRecord, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, nil
	}
	p := c.places[i]
	return &p, nil
}
