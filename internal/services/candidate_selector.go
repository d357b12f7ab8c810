package services

import (
	"math/rand/v2"
	"sort"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

type SelectionRequest struct {
	Places        []itinerary_models.PlaceRecord
	Groups        []itinerary_models.CategoryGroup
	Anchor        *itinerary_models.Coordinate
	MaxDistanceKm float64
	TargetCount   int
}

type CandidateSelectorInterface interface {
	Select(req SelectionRequest) []itinerary_models.PlaceRecord
}

type CandidateSelector struct {
	classifier CategoryClassifierInterface
	shuffle    func(n int, swap func(i, j int))
}

func NewCandidateSelector(classifier CategoryClassifierInterface) CandidateSelectorInterface {
	return &CandidateSelector{classifier: classifier, shuffle: rand.Shuffle}
}

// TargetCandidateCount sizes the pool handed to the composer.
func TargetCandidateCount(days int, pace itinerary_models.Pace, oversample int) int {
	if oversample < 1 {
		oversample = 1
	}
	return days * pace.PlacesPerDay() * oversample
}

// Select filters by category, orders by distance to the anchor (or shuffles
// without one), keeps places within MaxDistanceKm of the first place and
// truncates to TargetCount. An empty result means nothing matched.
func (s *CandidateSelector) Select(req SelectionRequest) []itinerary_models.PlaceRecord {
	pool := make([]itinerary_models.PlaceRecord, 0, len(req.Places))
	for _, p := range req.Places {
		if s.classifier.AnyMatch(req.Groups, p.TagsTitle) {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	if req.Anchor != nil {
		anchor := *req.Anchor
		sort.SliceStable(pool, func(i, j int) bool {
			return distanceOrInf(anchor, pool[i].Coordinate) < distanceOrInf(anchor, pool[j].Coordinate)
		})
	} else {
		s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	if req.MaxDistanceKm > 0 {
		pool = containWithin(pool, req.MaxDistanceKm*1000)
	}

	if req.TargetCount > 0 && len(pool) > req.TargetCount {
		pool = pool[:req.TargetCount]
	}
	return pool
}

// containWithin keeps the first place as the center plus every place whose
// direct distance to the center is within maxMeters. Places without a
// coordinate cannot be checked and are dropped; a center without one
// disables the check.
func containWithin(pool []itinerary_models.PlaceRecord, maxMeters float64) []itinerary_models.PlaceRecord {
	center := pool[0].Coordinate
	if center == nil {
		return pool
	}
	out := []itinerary_models.PlaceRecord{pool[0]}
	for _, p := range pool[1:] {
		if p.Coordinate == nil {
			continue
		}
		if utils.HaversineMeters(*center, *p.Coordinate) <= maxMeters {
			out = append(out, p)
		}
	}
	return out
}

func distanceOrInf(anchor itinerary_models.Coordinate, c *itinerary_models.Coordinate) float64 {
	if c == nil {
		return 1e18
	}
	return utils.HaversineMeters(anchor, *c)
}
