package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

type ComposeRequest struct {
	Destination    string
	Days           int
	Candidates     []itinerary_models.PlaceRecord
	LodgingAddress string
	Pace           itinerary_models.Pace
	DiningVibe     itinerary_models.DiningVibe
}

type ComposeResult struct {
	Days []itinerary_models.TripDay
	// FallbackReason is nil when the AI schedule was used.
	FallbackReason error
}

type ItineraryComposerInterface interface {
	Compose(ctx context.Context, req ComposeRequest) ComposeResult
}

type ComposerOptions struct {
	Timeout       time.Duration
	MaxAttempts   int
	MaxCandidates int
}

type ItineraryComposer struct {
	ai    utils.ItineraryAIClient
	log   *zap.Logger
	opts  ComposerOptions
	newID func() string
}

// NewItineraryComposer accepts a nil ai client, in which case every plan comes
// from the round-robin scheduler.
func NewItineraryComposer(ai utils.ItineraryAIClient, log *zap.Logger, opts ComposerOptions) ItineraryComposerInterface {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.MaxCandidates < 1 {
		opts.MaxCandidates = 20
	}
	return &ItineraryComposer{ai: ai, log: log, opts: opts, newID: uuid.NewString}
}

// Compose never fails: AI problems of any kind resolve to the fallback schedule.
func (c *ItineraryComposer) Compose(ctx context.Context, req ComposeRequest) ComposeResult {
	ctx, span := tracer.Start(ctx, "itinerary.compose")
	defer span.End()

	if req.Days < 1 {
		req.Days = 1
	}
	if len(req.Candidates) > c.opts.MaxCandidates {
		req.Candidates = req.Candidates[:c.opts.MaxCandidates]
	}
	span.SetAttributes(attribute.Int("days", req.Days), attribute.Int("candidates", len(req.Candidates)))

	fallback := RoundRobinSchedule(req.Destination, req.Days, req.Pace, req.Candidates, c.newID)

	if c.ai == nil {
		span.SetAttributes(attribute.Bool("fallback", true))
		return ComposeResult{Days: fallback, FallbackReason: utils.ErrAINotConfigured}
	}
	if len(req.Candidates) == 0 {
		return ComposeResult{Days: fallback, FallbackReason: utils.ErrNoCandidates}
	}

	days, err := c.generateWithRetry(ctx, req)
	if err != nil {
		c.log.Warn("ai composition failed, using round-robin schedule",
			zap.String("destination", req.Destination), zap.Error(err))
		span.SetAttributes(attribute.Bool("fallback", true))
		recordSpanError(span, err)
		return ComposeResult{Days: fallback, FallbackReason: err}
	}

	// days the model left empty are filled from the fallback for the same index
	for i := range days {
		if len(days[i].Activities) == 0 {
			days[i] = fallback[i]
		}
	}
	return ComposeResult{Days: days}
}

func (c *ItineraryComposer) generateWithRetry(ctx context.Context, req ComposeRequest) ([]itinerary_models.TripDay, error) {
	prompt := buildComposePrompt(req)

	var lastErr error
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		c.log.Debug("ai composition attempt", zap.Int("attempt", attempt), zap.Int("max_attempts", c.opts.MaxAttempts))

		raw, err := c.callAI(ctx, prompt)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		days, err := parseAISchedule(raw, req, c.newID)
		if err == nil {
			return days, nil
		}
		lastErr = err
		c.log.Debug("ai composition rejected", zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, lastErr
}

func (c *ItineraryComposer) callAI(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	raw, err := c.ai.ComposeItinerary(ctx, prompt)
	if err != nil {
		if errors.Is(err, utils.ErrNetwork) || errors.Is(err, utils.ErrMalformedResponse) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", utils.ErrNetwork, err)
	}
	return raw, nil
}

func buildComposePrompt(req ComposeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Destination: %s\n", req.Destination)
	fmt.Fprintf(&b, "Days: %d\n", req.Days)
	fmt.Fprintf(&b, "Pace: %s (%d stops per day, canonical times %s)\n",
		req.Pace, req.Pace.PlacesPerDay(), strings.Join(req.Pace.SlotTimes(), ", "))
	if req.DiningVibe != "" {
		fmt.Fprintf(&b, "Dining vibe: %s\n", req.DiningVibe)
	}
	if req.LodgingAddress != "" {
		fmt.Fprintf(&b, "Lodging: %s (start and end each day near it)\n", req.LodgingAddress)
	}

	b.WriteString("\nCandidate places:\n")
	for i, p := range req.Candidates {
		coord := "unknown"
		if p.Coordinate != nil {
			coord = fmt.Sprintf("%.5f,%.5f", p.Coordinate.Lat, p.Coordinate.Lng)
		}
		fmt.Fprintf(&b, "%d. %s | %s | %s\n", i+1, p.Name, coord, shorten(p.Description, 120))
	}

	fmt.Fprintf(&b, "\nReturn exactly %d entries in \"days\" numbered 1..%d. Group nearby places on the same day.", req.Days, req.Days)
	return b.String()
}

func shorten(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

type aiSchedule struct {
	Days []aiDay `json:"days"`
}

type aiDay struct {
	Day        int          `json:"day"`
	Activities []aiActivity `json:"activities"`
}

type aiActivity struct {
	PlaceIndex        int    `json:"place_index"`
	StartTime         string `json:"start_time"`
	Duration          string `json:"duration"`
	TransportMode     string `json:"transport_mode"`
	TransportDuration string `json:"transport_duration"`
	Notes             string `json:"notes"`
}

// parseAISchedule validates the model output. Out-of-range place indices are
// discarded; a wrong day count or no usable activity at all is malformed.
func parseAISchedule(raw string, req ComposeRequest, newID func() string) ([]itinerary_models.TripDay, error) {
	var sched aiSchedule
	if err := json.Unmarshal([]byte(utils.CleanJSONResponse(raw)), &sched); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrMalformedResponse, err)
	}
	if len(sched.Days) != req.Days {
		return nil, fmt.Errorf("%w: expected %d days, got %d", utils.ErrMalformedResponse, req.Days, len(sched.Days))
	}

	times := req.Pace.SlotTimes()
	durations := req.Pace.SlotDurations()
	days := make([]itinerary_models.TripDay, req.Days)
	seen := make([]bool, req.Days)
	valid := 0

	for pos, d := range sched.Days {
		idx := d.Day
		if idx == 0 {
			idx = pos + 1
		}
		if idx < 1 || idx > req.Days || seen[idx-1] {
			return nil, fmt.Errorf("%w: unexpected day number %d", utils.ErrMalformedResponse, d.Day)
		}
		seen[idx-1] = true

		day := itinerary_models.TripDay{Index: idx, Activities: []itinerary_models.ItineraryActivity{}}
		for _, a := range d.Activities {
			if a.PlaceIndex < 1 || a.PlaceIndex > len(req.Candidates) {
				continue
			}
			slot := len(day.Activities) % len(times)
			act := activityFromPlace(req.Candidates[a.PlaceIndex-1], newID)
			act.StartTime = times[slot]
			if t, ok := utils.NormalizeClock(a.StartTime); ok {
				act.StartTime = t
			}
			act.Duration = durations[slot]
			if dur, ok := utils.NormalizeDuration(a.Duration); ok {
				act.Duration = dur
			}
			act.Notes = strings.TrimSpace(a.Notes)
			if len(day.Activities) > 0 && (a.TransportMode != "" || a.TransportDuration != "") {
				act.Transport = &itinerary_models.TransportInfo{
					Mode:     strings.ToLower(strings.TrimSpace(a.TransportMode)),
					Duration: strings.TrimSpace(a.TransportDuration),
				}
			}
			day.Activities = append(day.Activities, act)
		}
		valid += len(day.Activities)
		days[idx-1] = day
	}

	if valid == 0 {
		return nil, fmt.Errorf("%w: no activity references a known place", utils.ErrMalformedResponse)
	}
	return days, nil
}

// RoundRobinSchedule assigns candidate (d*placesPerDay+s) mod n to slot s of
// day d, emitting a free-exploration placeholder once the index passes the
// candidate count.
func RoundRobinSchedule(destination string, days int, pace itinerary_models.Pace, candidates []itinerary_models.PlaceRecord, newID func() string) []itinerary_models.TripDay {
	if days < 1 {
		days = 1
	}
	perDay := pace.PlacesPerDay()
	times := pace.SlotTimes()
	durations := pace.SlotDurations()
	n := len(candidates)
	mod := n
	if mod < 1 {
		mod = 1
	}

	out := make([]itinerary_models.TripDay, days)
	for d := 0; d < days; d++ {
		day := itinerary_models.TripDay{Index: d + 1, Activities: make([]itinerary_models.ItineraryActivity, 0, perDay)}
		for s := 0; s < perDay; s++ {
			placeIndex := (d*perDay + s) % mod
			var act itinerary_models.ItineraryActivity
			if placeIndex < n {
				act = activityFromPlace(candidates[placeIndex], newID)
			} else {
				act = itinerary_models.ItineraryActivity{
					ID:        newID(),
					PlaceName: "Free exploration",
					Notes:     freeExplorationNote(destination),
				}
			}
			act.StartTime = times[s]
			act.Duration = durations[s]
			day.Activities = append(day.Activities, act)
		}
		out[d] = day
	}
	return out
}

func freeExplorationNote(destination string) string {
	if destination == "" {
		return "Explore the area at your own pace"
	}
	return "Explore " + destination + " at your own pace"
}

func activityFromPlace(p itinerary_models.PlaceRecord, newID func() string) itinerary_models.ItineraryActivity {
	id := p.ID
	act := itinerary_models.ItineraryActivity{
		ID:        newID(),
		PlaceID:   &id,
		PlaceName: p.Name,
	}
	if p.Coordinate != nil {
		c := *p.Coordinate
		act.Coordinate = &c
	}
	return act
}
