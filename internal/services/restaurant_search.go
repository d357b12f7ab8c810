package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

type RestaurantSearchInterface interface {
	Nearby(ctx context.Context, at itinerary_models.Coordinate, radiusMeters int, query string) ([]itinerary_models.RestaurantSuggestion, error)
}

// GooglePlacesSearch queries the Places Nearby Search endpoint. Results are
// sorted by distance to the search point.
type GooglePlacesSearch struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewGooglePlacesSearch(apiKey string, timeout time.Duration) *GooglePlacesSearch {
	return &GooglePlacesSearch{
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		BaseURL: "https://maps.googleapis.com",
		APIKey:  apiKey,
		Timeout: timeout,
	}
}

type placesNearbyResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID  string   `json:"place_id"`
		Name     string   `json:"name"`
		Types    []string `json:"types"`
		Vicinity string   `json:"vicinity"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		PriceLevel *int `json:"price_level"`
	} `json:"results"`
}

func (s *GooglePlacesSearch) Nearby(ctx context.Context, at itinerary_models.Coordinate, radiusMeters int, query string) ([]itinerary_models.RestaurantSuggestion, error) {
	if s.APIKey == "" {
		return nil, nil
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("places base url: %w", err)
	}
	u.Path = "/maps/api/place/nearbysearch/json"
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", at.Lat, at.Lng))
	q.Set("radius", strconv.Itoa(radiusMeters))
	q.Set("type", "restaurant")
	if query != "" {
		q.Set("keyword", query)
	}
	q.Set("key", s.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("places request: %w", err)
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: places nearby: %v", utils.ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: places bad status: %s", utils.ErrNetwork, resp.Status)
	}

	var payload placesNearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: places decode: %v", utils.ErrMalformedResponse, err)
	}
	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: places status %s: %s", utils.ErrNetwork, payload.Status, payload.ErrorMessage)
	}

	out := make([]itinerary_models.RestaurantSuggestion, 0, len(payload.Results))
	for _, r := range payload.Results {
		coord := itinerary_models.Coordinate{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}
		category := "restaurant"
		if len(r.Types) > 0 {
			category = r.Types[0]
		}
		out = append(out, itinerary_models.RestaurantSuggestion{
			ID:             r.PlaceID,
			Name:           r.Name,
			Category:       category,
			Coordinate:     coord,
			DistanceMeters: utils.HaversineMeters(at, coord),
			URL:            "https://www.google.com/maps/place/?q=place_id:" + r.PlaceID,
			PriceLevel:     r.PriceLevel,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	return out, nil
}
