package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/pgvector/pgvector-go"

	"iter/internal/models/db_models"
	"iter/internal/models/itinerary_models"
	"iter/internal/repositories"
	"iter/pkg/utils"
)

type fakeAI struct {
	mu       sync.Mutex
	compose  func(prompt string) (string, error)
	suggest  func(prompt string) (string, error)
	prompts  []string
	composes int
}

var _ utils.ItineraryAIClient = (*fakeAI)(nil)

func (f *fakeAI) ComposeItinerary(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.composes++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.compose(prompt)
}

func (f *fakeAI) SuggestNextPlaces(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.suggest == nil {
		return "", utils.ErrNetwork
	}
	return f.suggest(prompt)
}

type fakeRouting struct {
	mu    sync.Mutex
	route func(from, to itinerary_models.Coordinate) (*RouteLeg, error)
	calls int
}

var _ RoutingServiceInterface = (*fakeRouting)(nil)

func (f *fakeRouting) WalkingRoute(_ context.Context, from, to itinerary_models.Coordinate) (*RouteLeg, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.route(from, to)
}

type fakeSearch struct {
	mu      sync.Mutex
	nearby  func(at itinerary_models.Coordinate, radius int, query string) ([]itinerary_models.RestaurantSuggestion, error)
	queries []string
}

var _ RestaurantSearchInterface = (*fakeSearch)(nil)

func (f *fakeSearch) Nearby(_ context.Context, at itinerary_models.Coordinate, radius int, query string) ([]itinerary_models.RestaurantSuggestion, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.nearby(at, radius, query)
}

type fakeGeocoder struct {
	resolve func(address, city string) (itinerary_models.Coordinate, error)
}

var _ GeocoderInterface = (*fakeGeocoder)(nil)

func (f *fakeGeocoder) Resolve(_ context.Context, address, city string) (itinerary_models.Coordinate, error) {
	return f.resolve(address, city)
}

type fakeEmbeddingRepo struct {
	upserts []db_models.PlaceEmbedding
	similar func(city string, exclude []int64, limit int) ([]db_models.PlaceEmbedding, error)
}

var _ repositories.PlaceEmbeddingRepository = (*fakeEmbeddingRepo)(nil)

func (f *fakeEmbeddingRepo) UpsertEmbedding(_ context.Context, e *db_models.PlaceEmbedding) error {
	f.upserts = append(f.upserts, *e)
	return nil
}

func (f *fakeEmbeddingRepo) FindSimilar(_ context.Context, _ pgvector.Vector, city string, excludeIDs []int64, _ float64, limit int) ([]db_models.PlaceEmbedding, error) {
	if f.similar == nil {
		return nil, nil
	}
	return f.similar(city, excludeIDs, limit)
}

// sequentialIDs returns a deterministic id generator.
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }

func coord(lat, lng float64) *itinerary_models.Coordinate {
	return &itinerary_models.Coordinate{Lat: lat, Lng: lng}
}

func testGroups() []itinerary_models.CategoryGroup {
	return []itinerary_models.CategoryGroup{
		{Key: "nature", Name: "Nature", Keywords: []string{"park", "beach", "forest"}},
		{Key: "culture", Name: "Culture", Keywords: []string{"museum", "gallery", "theatre"}},
		{Key: "food", Name: "Food", Keywords: []string{"restaurant", "market"}},
		{Key: "other", Name: "Other", CatchAll: true},
	}
}

// rovinjPlaces returns n places spaced ~110 m apart northwards from the old town.
func rovinjPlaces(n int, tags string) []itinerary_models.PlaceRecord {
	out := make([]itinerary_models.PlaceRecord, n)
	for i := range out {
		out[i] = itinerary_models.PlaceRecord{
			ID:          int64(i + 1),
			Name:        fmt.Sprintf("Place %d", i+1),
			Description: "A spot in Rovinj",
			City:        "Rovinj",
			Coordinate:  coord(45.0810+float64(i)*0.001, 13.6380),
		}
		if tags != "" {
			out[i].TagsTitle = strPtr(tags)
		}
	}
	return out
}
