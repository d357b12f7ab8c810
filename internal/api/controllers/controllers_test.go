package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iter/internal/config"
	"iter/internal/models/itinerary_models"
	"iter/internal/services"
	"iter/pkg/middleware"
	"iter/pkg/utils"
)

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

func testPlaces() []itinerary_models.PlaceRecord {
	tags := []string{"Beach", "Museum", "Old town fortress", ""}
	var out []itinerary_models.PlaceRecord
	for i := 0; i < 16; i++ {
		p := itinerary_models.PlaceRecord{
			ID:          int64(i + 1),
			Name:        fmt.Sprintf("Place %d", i+1),
			Description: "A spot in Rovinj",
			City:        "Rovinj",
			Coordinate:  &itinerary_models.Coordinate{Lat: 45.0810 + float64(i)*0.001, Lng: 13.6380},
		}
		if t := tags[i%len(tags)]; t != "" {
			p.TagsTitle = &t
		}
		out = append(out, p)
	}
	return out
}

func newTestRouter(t *testing.T, jwtSecret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	groups, err := config.CategoryGroups()
	require.NoError(t, err)
	classifier := services.NewCategoryClassifier(groups)
	catalog := services.NewStaticPlaceCatalog(testPlaces())
	augmenter := services.NewTransportAugmenter(nil, catalog, log)
	meals := services.NewMealPlanner(nil, catalog, 800, log)

	svc := services.NewItineraryService(services.ItineraryServiceDeps{
		Catalog:     catalog,
		Classifier:  classifier,
		Selector:    services.NewCandidateSelector(classifier),
		Composer:    services.NewItineraryComposer(nil, log, services.ComposerOptions{}),
		Augmenter:   augmenter,
		Meals:       meals,
		Optimizer:   services.NewRouteOptimizer(catalog, augmenter, meals, log),
		Editor:      services.NewInteractiveEditor(augmenter),
		Suggestions: services.NewSuggestionService(nil, catalog, nil, nil, 0, log),
		Store:       services.NewMemoryTripStore(),
	}, services.PipelineOptions{}, log)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	RegisterRoutes(r, jwtSecret,
		NewHealthController(nil, log),
		NewCatalogController(classifier, catalog, log),
		NewTripController(svc, log))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func generateBody() map[string]any {
	return map[string]any{
		"destination": "Rovinj",
		"start_date":  "2025-06-01",
		"end_date":    "2025-06-02",
		"categories":  []string{"nature", "culture"},
		"pace":        "relaxed",
	}
}

type tripPayload struct {
	ID           string `json:"id"`
	NumberOfDays int    `json:"number_of_days"`
	Pace         string `json:"pace"`
	Days         []struct {
		Index      int    `json:"index"`
		Date       string `json:"date"`
		Activities []struct {
			ID        string                          `json:"id"`
			PlaceID   *int64                          `json:"place_id"`
			StartTime string                          `json:"start_time"`
			Transport *itinerary_models.TransportInfo `json:"transport"`
		} `json:"activities"`
	} `json:"days"`
}

func generate(t *testing.T, r *gin.Engine) tripPayload {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/trips/generate", generateBody(), nil)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var trip tripPayload
	require.NoError(t, json.Unmarshal(env.Data, &trip))
	return trip
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, "")
	w, env := do(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, env.TraceID)
	assert.Equal(t, env.TraceID, w.Header().Get(middleware.TraceHeader))
}

func TestListCategories(t *testing.T) {
	r := newTestRouter(t, "")
	_, env := do(t, r, http.MethodGet, "/categories", nil, nil)

	var cats []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	require.NotEmpty(t, cats)
	assert.Equal(t, "nature", cats[0].Key)
}

func TestListPlaces(t *testing.T) {
	r := newTestRouter(t, "")

	w, _ := do(t, r, http.MethodGet, "/places", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := do(t, r, http.MethodGet, "/places?city=rovinj&category=culture", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var places []struct {
		ID         int64    `json:"id"`
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &places))
	// museums plus untagged places
	assert.Len(t, places, 8)
	for _, p := range places {
		assert.NotEmpty(t, p.Categories)
	}

	w, _ = do(t, r, http.MethodGet, "/places?city=rovinj&category=skiing", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateTrip(t *testing.T) {
	r := newTestRouter(t, "")
	trip := generate(t, r)

	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, 2, trip.NumberOfDays)
	assert.Equal(t, "Relaxed", trip.Pace)
	require.Len(t, trip.Days, 2)
	assert.Equal(t, "2025-06-02", trip.Days[1].Date)
	for _, d := range trip.Days {
		require.Len(t, d.Activities, 3)
		assert.Nil(t, d.Activities[0].Transport)
		assert.NotNil(t, d.Activities[1].Transport)
	}

	w, env := do(t, r, http.MethodGet, "/trips/"+trip.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched tripPayload
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, trip.ID, fetched.ID)

	w, env = do(t, r, http.MethodGet, "/trips", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []tripPayload
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Days)
}

func TestListTripsPaging(t *testing.T) {
	r := newTestRouter(t, "")
	generate(t, r)
	generate(t, r)

	w, env := do(t, r, http.MethodGet, "/trips?page=1&page_size=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []tripPayload
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	w, env = do(t, r, http.MethodGet, "/trips?page=2&page_size=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var second []tripPayload
	require.NoError(t, json.Unmarshal(env.Data, &second))
	require.Len(t, second, 1)
	assert.NotEqual(t, list[0].ID, second[0].ID)

	w, _ = do(t, r, http.MethodGet, "/trips?page_size=0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodGet, "/trips?page_size=101", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateTripErrors(t *testing.T) {
	r := newTestRouter(t, "")

	w, _ := do(t, r, http.MethodPost, "/trips/generate", map[string]any{"destination": "Rovinj"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := generateBody()
	body["start_date"] = "01/06/2025"
	w, _ = do(t, r, http.MethodPost, "/trips/generate", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = generateBody()
	body["end_date"] = "2025-05-01"
	w, env := do(t, r, http.MethodPost, "/trips/generate", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "end date")

	body = generateBody()
	body["destination"] = "Zagreb"
	w, env = do(t, r, http.MethodPost, "/trips/generate", body, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Message, "No places match")
}

func TestTripNotFound(t *testing.T) {
	r := newTestRouter(t, "")
	w, env := do(t, r, http.MethodGet, "/trips/3f1c1a52-6a4e-4b55-9a7a-0d5b2a4c8e11", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", env.Status)
}

func TestEditTrip(t *testing.T) {
	r := newTestRouter(t, "")
	trip := generate(t, r)
	day1 := trip.Days[0].Activities

	w, env := do(t, r, http.MethodPost, "/trips/"+trip.ID+"/edits",
		map[string]any{"type": "reorder", "day": 1, "from": 2, "to": 0}, nil)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var edited tripPayload
	require.NoError(t, json.Unmarshal(env.Data, &edited))
	got := edited.Days[0].Activities
	assert.Equal(t, []string{day1[2].ID, day1[0].ID, day1[1].ID}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Nil(t, got[0].Transport)

	w, env = do(t, r, http.MethodPost, "/trips/"+trip.ID+"/edits",
		map[string]any{"type": "time", "day": 1, "index": 1, "start_time": "10:15"}, nil)
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	w, _ = do(t, r, http.MethodPost, "/trips/"+trip.ID+"/edits", map[string]any{"type": "reorder", "day": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/trips/"+trip.ID+"/edits", map[string]any{"type": "delete", "day": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/trips/"+trip.ID+"/edits",
		map[string]any{"type": "swap", "day": 1, "index": 0, "place_id": 999}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDayRoutes(t *testing.T) {
	r := newTestRouter(t, "")
	trip := generate(t, r)
	base := "/trips/" + trip.ID + "/days/1"

	w, env := do(t, r, http.MethodPost, base+"/optimize", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	w, env = do(t, r, http.MethodGet, base+"/schedule", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var entries []struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	assert.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, "activity", e.Kind)
	}

	w, env = do(t, r, http.MethodGet, base+"/activities/0/alternatives?limit=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var alts []itinerary_models.PlaceRecord
	require.NoError(t, json.Unmarshal(env.Data, &alts))
	assert.Len(t, alts, 2)

	w, _ = do(t, r, http.MethodGet, "/trips/"+trip.ID+"/days/zero/schedule", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/trips/"+trip.ID+"/days/9/schedule", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/trips/"+trip.ID, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, "/trips/"+trip.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTripRoutesRequireToken(t *testing.T) {
	secret := "test-secret"
	r := newTestRouter(t, secret)

	w, _ := do(t, r, http.MethodPost, "/trips/generate", generateBody(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.CreateToken([]byte(secret), "traveler-7", time.Hour)
	require.NoError(t, err)
	auth := http.Header{"Authorization": []string{"Bearer " + token}}

	w, env := do(t, r, http.MethodPost, "/trips/generate", generateBody(), auth)
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var trip tripPayload
	require.NoError(t, json.Unmarshal(env.Data, &trip))

	other, err := utils.CreateToken([]byte(secret), "someone-else", time.Hour)
	require.NoError(t, err)
	w, _ = do(t, r, http.MethodGet, "/trips/"+trip.ID, nil, http.Header{"Authorization": []string{"Bearer " + other}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/categories", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
