package utils

import (
	"context"
	"fmt"
	"strings"
)

// ItineraryAIClient is the AI suggestion service. Both calls return the raw
// model text; callers own parsing and validation.
type ItineraryAIClient interface {
	ComposeItinerary(ctx context.Context, prompt string) (string, error)
	SuggestNextPlaces(ctx context.Context, prompt string) (string, error)
}

const composeInstruction = `You are a travel itinerary planner. You receive a numbered list of candidate places and trip parameters.
Respond with JSON only, no markdown, matching:
{"days":[{"day":1,"activities":[{"place_index":1,"start_time":"09:00","duration":"2h","transport_mode":"walking","transport_duration":"10 min","notes":"..."}]}]}
Use only place_index values from the list (1-based). Times are HH:MM in 24h format.`

const suggestInstruction = `You suggest replacement stops for a travel itinerary. You receive the current day's stops and a numbered list of candidate places.
Respond with JSON only, no markdown, matching: {"place_ids":[12,34]}
Use only ids from the candidate list, best match first.`

// AIClientOptions selects and configures a provider.
type AIClientOptions struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
}

// NewItineraryAIClient builds the configured provider. It returns
// ErrAINotConfigured when the provider is "none" or its key is missing.
func NewItineraryAIClient(ctx context.Context, opts AIClientOptions) (ItineraryAIClient, error) {
	switch strings.ToLower(opts.Provider) {
	case "gemini":
		if opts.GeminiAPIKey == "" {
			return nil, ErrAINotConfigured
		}
		return NewGeminiClient(ctx, opts.GeminiAPIKey, opts.GeminiModel)
	case "openai":
		if opts.OpenAIAPIKey == "" {
			return nil, ErrAINotConfigured
		}
		return NewOpenAIClient(opts.OpenAIAPIKey, opts.OpenAIModel), nil
	case "", "none":
		return nil, ErrAINotConfigured
	default:
		return nil, fmt.Errorf("unsupported ai provider %q: %w", opts.Provider, ErrInvalidInput)
	}
}

// CleanJSONResponse strips markdown fences and surrounding prose from model
// output, returning the first balanced JSON object or array.
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.IndexByte(response, '{')
	arrStart := strings.IndexByte(response, '[')

	start := objStart
	if start == -1 || (arrStart != -1 && arrStart < objStart) {
		start = arrStart
	}
	if start == -1 {
		return response
	}
	if end := matchingClose(response, start); end != -1 {
		return response[start : end+1]
	}
	return response
}

// matchingClose returns the index of the bracket closing s[start], skipping
// string literals, or -1 when unbalanced.
func matchingClose(s string, start int) int {
	open := s[start]
	var closing byte = '}'
	if open == '[' {
		closing = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
