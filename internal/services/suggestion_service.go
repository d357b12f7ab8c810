package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"iter/internal/models/db_models"
	"iter/internal/models/itinerary_models"
	"iter/internal/repositories"
	"iter/pkg/utils"
)

const (
	maxSuggestionPool   = 30
	minVectorSimilarity = 0.5
)

type AlternativesRequest struct {
	Destination string
	Day         itinerary_models.TripDay
	Index       int
	Limit       int
	// Exclude holds place ids already scheduled anywhere in the trip.
	Exclude map[int64]bool
}

type SuggestionServiceInterface interface {
	// SuggestAlternatives proposes replacement places for one stop: AI first,
	// then vector similarity, then straight-line proximity.
	SuggestAlternatives(ctx context.Context, req AlternativesRequest) ([]itinerary_models.PlaceRecord, error)
	// IndexPlaces (re)computes embeddings for a city's places.
	IndexPlaces(ctx context.Context, city string) (int, error)
}

type SuggestionService struct {
	ai            utils.ItineraryAIClient
	catalog       PlaceCatalogInterface
	embedder      utils.EmbeddingClientInterface
	embeddingRepo repositories.PlaceEmbeddingRepository
	aiTimeout     time.Duration
	log           *zap.Logger
}

func NewSuggestionService(
	ai utils.ItineraryAIClient,
	catalog PlaceCatalogInterface,
	embedder utils.EmbeddingClientInterface,
	embeddingRepo repositories.PlaceEmbeddingRepository,
	aiTimeout time.Duration,
	log *zap.Logger,
) SuggestionServiceInterface {
	if aiTimeout <= 0 {
		aiTimeout = 30 * time.Second
	}
	return &SuggestionService{
		ai:            ai,
		catalog:       catalog,
		embedder:      embedder,
		embeddingRepo: embeddingRepo,
		aiTimeout:     aiTimeout,
		log:           log,
	}
}

func (s *SuggestionService) SuggestAlternatives(ctx context.Context, req AlternativesRequest) ([]itinerary_models.PlaceRecord, error) {
	ctx, span := tracer.Start(ctx, "itinerary.suggest_alternatives")
	defer span.End()

	if req.Index < 0 || req.Index >= len(req.Day.Activities) {
		return nil, fmt.Errorf("%w: index %d on day %d", utils.ErrActivityNotFound, req.Index, req.Day.Index)
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}
	current := req.Day.Activities[req.Index]

	places, err := s.catalog.FetchPlaces(ctx, itinerary_models.PlaceFilter{City: req.Destination})
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	pool := make([]itinerary_models.PlaceRecord, 0, len(places))
	for _, p := range places {
		if !req.Exclude[p.ID] {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return []itinerary_models.PlaceRecord{}, nil
	}
	sortByProximity(pool, current.Coordinate)

	if picked := s.fromAI(ctx, req, pool); len(picked) > 0 {
		return picked, nil
	}
	if picked := s.fromEmbeddings(ctx, req, current, pool); len(picked) > 0 {
		return picked, nil
	}

	if len(pool) > req.Limit {
		pool = pool[:req.Limit]
	}
	return pool, nil
}

func (s *SuggestionService) fromAI(ctx context.Context, req AlternativesRequest, pool []itinerary_models.PlaceRecord) []itinerary_models.PlaceRecord {
	if s.ai == nil {
		return nil
	}
	if len(pool) > maxSuggestionPool {
		pool = pool[:maxSuggestionPool]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Destination: %s\nDay %d stops:\n", req.Destination, req.Day.Index)
	for i, a := range req.Day.Activities {
		marker := ""
		if i == req.Index {
			marker = "  <- replace this stop"
		}
		fmt.Fprintf(&b, "%d. %s at %s%s\n", i+1, a.PlaceName, a.StartTime, marker)
	}
	b.WriteString("\nCandidates:\n")
	for _, p := range pool {
		fmt.Fprintf(&b, "id %d: %s | %s | %s\n", p.ID, p.Name, p.Tags(), shorten(p.Description, 100))
	}
	fmt.Fprintf(&b, "\nReturn up to %d ids.", req.Limit)

	actx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()
	raw, err := s.ai.SuggestNextPlaces(actx, b.String())
	if err != nil {
		s.log.Warn("ai suggestions failed", zap.Error(err))
		return nil
	}

	var parsed struct {
		PlaceIDs []int64 `json:"place_ids"`
	}
	if err := json.Unmarshal([]byte(utils.CleanJSONResponse(raw)), &parsed); err != nil {
		s.log.Warn("ai suggestions malformed", zap.Error(fmt.Errorf("%w: %v", utils.ErrMalformedResponse, err)))
		return nil
	}

	byID := make(map[int64]itinerary_models.PlaceRecord, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}
	var out []itinerary_models.PlaceRecord
	seen := make(map[int64]bool)
	for _, id := range parsed.PlaceIDs {
		p, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, p)
		if len(out) == req.Limit {
			break
		}
	}
	return out
}

func (s *SuggestionService) fromEmbeddings(ctx context.Context, req AlternativesRequest, current itinerary_models.ItineraryActivity, pool []itinerary_models.PlaceRecord) []itinerary_models.PlaceRecord {
	if s.embedder == nil || s.embeddingRepo == nil {
		return nil
	}

	text := current.PlaceName
	if current.PlaceID != nil {
		if p, err := s.catalog.FetchPlaceByID(ctx, *current.PlaceID); err == nil && p != nil {
			text = embeddingText(*p)
		}
	}
	vector, err := s.embedder.GetEmbedding(ctx, text)
	if err != nil {
		s.log.Warn("embedding failed", zap.Error(err))
		return nil
	}

	exclude := make([]int64, 0, len(req.Exclude))
	for id, ok := range req.Exclude {
		if ok {
			exclude = append(exclude, id)
		}
	}
	sort.Slice(exclude, func(i, j int) bool { return exclude[i] < exclude[j] })

	rows, err := s.embeddingRepo.FindSimilar(ctx, vector, req.Destination, exclude, minVectorSimilarity, req.Limit)
	if err != nil {
		s.log.Warn("vector search failed", zap.Error(err))
		return nil
	}

	byID := make(map[int64]itinerary_models.PlaceRecord, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}
	var out []itinerary_models.PlaceRecord
	for _, r := range rows {
		if p, ok := byID[r.PlaceID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *SuggestionService) IndexPlaces(ctx context.Context, city string) (int, error) {
	if s.embedder == nil || s.embeddingRepo == nil {
		return 0, fmt.Errorf("%w: embeddings are not configured", utils.ErrInvalidInput)
	}
	places, err := s.catalog.FetchPlaces(ctx, itinerary_models.PlaceFilter{City: city})
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, p := range places {
		vector, err := s.embedder.GetEmbedding(ctx, embeddingText(p))
		if err != nil {
			return indexed, fmt.Errorf("embed place %d: %w", p.ID, err)
		}
		row := &db_models.PlaceEmbedding{
			PlaceID:     p.ID,
			Name:        p.Name,
			Description: p.Description,
			City:        p.City,
			Tags:        splitTags(p.Tags()),
			Embedding:   vector,
		}
		if err := s.embeddingRepo.UpsertEmbedding(ctx, row); err != nil {
			return indexed, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		indexed++
	}
	s.log.Info("place embeddings indexed", zap.String("city", city), zap.Int("count", indexed))
	return indexed, nil
}

func embeddingText(p itinerary_models.PlaceRecord) string {
	return strings.TrimSpace(p.Name + ". " + p.Description + ". " + p.Tags())
}

func splitTags(raw string) []string {
	out := []string{}
	for _, t := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || r == '|' }) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// sortByProximity orders places by distance to at; places without a
// coordinate go last. A nil at keeps the catalog order.
func sortByProximity(places []itinerary_models.PlaceRecord, at *itinerary_models.Coordinate) {
	if at == nil {
		return
	}
	sort.SliceStable(places, func(i, j int) bool {
		return distanceOrInf(*at, places[i].Coordinate) < distanceOrInf(*at, places[j].Coordinate)
	})
}
