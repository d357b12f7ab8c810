package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"iter/internal/models/itinerary_models"
	mem "iter/pkg/memcache"
	"iter/pkg/utils"
)

type GeocoderInterface interface {
	// Resolve returns ErrUnresolvedAnchor when the address cannot be located.
	Resolve(ctx context.Context, address, cityHint string) (itinerary_models.Coordinate, error)
}

type MapboxGeocoder struct {
	HTTP        *http.Client
	BaseURL     string
	AccessToken string
	Cache       *mem.TTLCache[string, itinerary_models.Coordinate]
	TTL         time.Duration
	Timeout     time.Duration
}

func NewMapboxGeocoder(accessToken string, timeout time.Duration, cache *mem.TTLCache[string, itinerary_models.Coordinate]) *MapboxGeocoder {
	if cache == nil {
		cache = mem.NewTTLCache[string, itinerary_models.Coordinate]()
	}
	return &MapboxGeocoder{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		BaseURL:     "https://api.mapbox.com",
		AccessToken: accessToken,
		Cache:       cache,
		TTL:         24 * time.Hour,
		Timeout:     timeout,
	}
}

func geocodeQuery(address, cityHint string) string {
	address = strings.TrimSpace(address)
	cityHint = strings.TrimSpace(cityHint)
	if cityHint != "" && !strings.Contains(strings.ToLower(address), strings.ToLower(cityHint)) {
		return address + ", " + cityHint
	}
	return address
}

func (g *MapboxGeocoder) Resolve(ctx context.Context, address, cityHint string) (itinerary_models.Coordinate, error) {
	query := geocodeQuery(address, cityHint)
	if query == "" {
		return itinerary_models.Coordinate{}, fmt.Errorf("%w: empty address", utils.ErrUnresolvedAnchor)
	}
	if g.AccessToken == "" {
		return itinerary_models.Coordinate{}, fmt.Errorf("%w: geocoding not configured", utils.ErrUnresolvedAnchor)
	}

	key := strings.ToLower(query)
	if c, ok := g.Cache.Get(key); ok {
		return c, nil
	}

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	u, err := url.Parse(g.BaseURL)
	if err != nil {
		return itinerary_models.Coordinate{}, fmt.Errorf("mapbox base url: %w", err)
	}
	u = u.JoinPath("geocoding", "v5", "mapbox.places", query+".json")
	q := url.Values{}
	q.Set("limit", "1")
	q.Set("access_token", g.AccessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return itinerary_models.Coordinate{}, fmt.Errorf("geocoding request: %w", err)
	}
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return itinerary_models.Coordinate{}, fmt.Errorf("%w: %w: %v", utils.ErrUnresolvedAnchor, utils.ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return itinerary_models.Coordinate{}, fmt.Errorf("%w: %w: geocoding bad status: %s", utils.ErrUnresolvedAnchor, utils.ErrNetwork, resp.Status)
	}

	var payload struct {
		Features []struct {
			Center []float64 `json:"center"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return itinerary_models.Coordinate{}, fmt.Errorf("%w: %w: %v", utils.ErrUnresolvedAnchor, utils.ErrMalformedResponse, err)
	}
	if len(payload.Features) == 0 || len(payload.Features[0].Center) < 2 {
		return itinerary_models.Coordinate{}, fmt.Errorf("%w: no match for %q", utils.ErrUnresolvedAnchor, query)
	}

	c := itinerary_models.Coordinate{Lat: payload.Features[0].Center[1], Lng: payload.Features[0].Center[0]}
	g.Cache.Set(key, c, g.TTL)
	return c, nil
}
