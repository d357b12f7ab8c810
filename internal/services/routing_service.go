package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"iter/internal/models/itinerary_models"
	mem "iter/pkg/memcache"
	"iter/pkg/utils"
)

type RouteLeg struct {
	DistanceMeters  float64
	DurationSeconds float64
}

type RoutingServiceInterface interface {
	// WalkingRoute returns nil, nil when the provider finds no route.
	WalkingRoute(ctx context.Context, from, to itinerary_models.Coordinate) (*RouteLeg, error)
}

// pairKey identifies a directed leg; coordinates are rounded to ~1 m.
type pairKey struct {
	Mode string
	A    string
	B    string
}

func newPairKey(mode string, a, b itinerary_models.Coordinate) pairKey {
	return pairKey{
		Mode: mode,
		A:    fmt.Sprintf("%.5f,%.5f", a.Lat, a.Lng),
		B:    fmt.Sprintf("%.5f,%.5f", b.Lat, b.Lng),
	}
}

// -------------- Mapbox Directions client ---------------

type MapboxRoutingClient struct {
	HTTP        *http.Client
	BaseURL     string
	AccessToken string
	Cache       *mem.TTLCache[pairKey, RouteLeg]
	DefaultTTL  time.Duration
	Profile     string
	Timeout     time.Duration
}

func NewMapboxRoutingClient(accessToken string, timeout time.Duration) *MapboxRoutingClient {
	return &MapboxRoutingClient{
		HTTP:        &http.Client{Timeout: 15 * time.Second},
		BaseURL:     "https://api.mapbox.com",
		AccessToken: accessToken,
		Cache:       mem.NewTTLCache[pairKey, RouteLeg](),
		DefaultTTL:  7 * 24 * time.Hour,
		Profile:     "walking",
		Timeout:     timeout,
	}
}

func (c *MapboxRoutingClient) WalkingRoute(ctx context.Context, from, to itinerary_models.Coordinate) (*RouteLeg, error) {
	if c.AccessToken == "" {
		return nil, fmt.Errorf("%w: mapbox access token not configured", utils.ErrNetwork)
	}

	k := newPairKey(c.Profile, from, to)
	if leg, ok := c.Cache.Get(k); ok {
		return &leg, nil
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("mapbox base url: %w", err)
	}
	u.Path = fmt.Sprintf("/directions/v5/mapbox/%s/%f,%f;%f,%f", c.Profile, from.Lng, from.Lat, to.Lng, to.Lat)
	q := url.Values{}
	q.Set("overview", "false")
	q.Set("access_token", c.AccessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("mapbox directions request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: mapbox directions: %v", utils.ErrNetwork, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"routes"`
	}
	if resp.StatusCode/100 != 2 {
		// Mapbox answers 422 with code NoRoute / NoSegment when no path exists
		if resp.StatusCode == http.StatusUnprocessableEntity && json.NewDecoder(resp.Body).Decode(&payload) == nil &&
			(payload.Code == "NoRoute" || payload.Code == "NoSegment") {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: mapbox directions bad status: %s", utils.ErrNetwork, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: mapbox decode: %v", utils.ErrMalformedResponse, err)
	}
	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return nil, nil
	}

	leg := RouteLeg{DistanceMeters: payload.Routes[0].Distance, DurationSeconds: payload.Routes[0].Duration}
	c.Cache.Set(k, leg, c.DefaultTTL)
	return &leg, nil
}
