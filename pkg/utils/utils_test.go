package utils_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

func TestHaversineMeters(t *testing.T) {
	a := itinerary_models.Coordinate{Lat: 45.0, Lng: 13.0}
	assert.InDelta(t, 0, utils.HaversineMeters(a, a), 1e-9)

	// one degree of latitude is ~111.2 km
	b := itinerary_models.Coordinate{Lat: 46.0, Lng: 13.0}
	assert.InDelta(t, 111195, utils.HaversineMeters(a, b), 50)
	assert.InDelta(t, utils.HaversineMeters(a, b), utils.HaversineMeters(b, a), 1e-6)
}

func TestWalkingMinutes(t *testing.T) {
	assert.Equal(t, 1, utils.WalkingMinutes(0))
	assert.Equal(t, 1, utils.WalkingMinutes(20))
	assert.Equal(t, 12, utils.WalkingMinutes(1000))
	assert.Equal(t, 60, utils.WalkingMinutes(5000))
}

func TestNormalizeClock(t *testing.T) {
	got, ok := utils.NormalizeClock("9:05")
	require.True(t, ok)
	assert.Equal(t, "09:05", got)

	got, ok = utils.NormalizeClock(" 18:30 ")
	require.True(t, ok)
	assert.Equal(t, "18:30", got)

	for _, bad := range []string{"", "24:00", "9", "12:60", "noon", "12:3"} {
		_, ok := utils.NormalizeClock(bad)
		assert.False(t, ok, bad)
	}
}

func TestNormalizeDuration(t *testing.T) {
	cases := map[string]string{
		"2h":      "2h",
		"1.5h":    "1.5h",
		"2 hours": "2h",
		"45 min":  "45m",
		"90m":     "90m",
	}
	for in, want := range cases {
		got, ok := utils.NormalizeDuration(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "soon", "0h", "h"} {
		_, ok := utils.NormalizeDuration(bad)
		assert.False(t, ok, bad)
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "7 min", utils.FormatMinutes(7))
	assert.Equal(t, "1 h", utils.FormatMinutes(60))
	assert.Equal(t, "1 h 5 min", utils.FormatMinutes(65))
	assert.Equal(t, "850 m", utils.FormatDistance(850.2))
	assert.Equal(t, "1.2 km", utils.FormatDistance(1234))

	d, err := utils.ParseDate("2025-06-03")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03", utils.FormatDate(d))
	assert.Equal(t, "", utils.FormatDate(time.Time{}))
}

func TestCleanJSONResponse(t *testing.T) {
	raw := "Here's the plan:\n```json\n{\"days\":[{\"day\":1,\"notes\":\"a } inside\"}]}\n```\nEnjoy!"
	cleaned := utils.CleanJSONResponse(raw)
	assert.True(t, json.Valid([]byte(cleaned)), cleaned)
	assert.Equal(t, `{"days":[{"day":1,"notes":"a } inside"}]}`, cleaned)

	assert.Equal(t, "[1,2]", utils.CleanJSONResponse("ids: [1,2] done"))
	assert.Equal(t, "not json", utils.CleanJSONResponse("not json"))
}

func TestNewItineraryAIClient_NotConfigured(t *testing.T) {
	ctx := context.Background()

	_, err := utils.NewItineraryAIClient(ctx, utils.AIClientOptions{Provider: "none"})
	assert.ErrorIs(t, err, utils.ErrAINotConfigured)

	_, err = utils.NewItineraryAIClient(ctx, utils.AIClientOptions{Provider: "gemini"})
	assert.ErrorIs(t, err, utils.ErrAINotConfigured)

	_, err = utils.NewItineraryAIClient(ctx, utils.AIClientOptions{Provider: "openai"})
	assert.ErrorIs(t, err, utils.ErrAINotConfigured)

	client, err := utils.NewItineraryAIClient(ctx, utils.AIClientOptions{Provider: "openai", OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.NotNil(t, client)

	_, err = utils.NewItineraryAIClient(ctx, utils.AIClientOptions{Provider: "claude"})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestHashEmbedding_DeterministicAndNormalised(t *testing.T) {
	c := utils.NewHashEmbeddingClient()
	a, err := c.GetEmbedding(context.Background(), "Old Town Church")
	require.NoError(t, err)
	b, err := c.GetEmbedding(context.Background(), "old town church")
	require.NoError(t, err)

	assert.Len(t, a.Slice(), utils.EmbeddingDimensions)
	assert.Equal(t, a.Slice(), b.Slice())

	var sum float64
	for _, v := range a.Slice() {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-3)
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	token, err := utils.CreateToken(secret, "owner-1", time.Minute)
	require.NoError(t, err)

	claims, err := utils.ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.Subject)

	_, err = utils.ValidateToken([]byte("other"), token)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	expired, err := utils.CreateToken(secret, "owner-1", -time.Minute)
	require.NoError(t, err)
	_, err = utils.ValidateToken(secret, expired)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("generate: %w", utils.ErrNoCandidates), http.StatusUnprocessableEntity},
		{utils.ErrTripNotFound, http.StatusNotFound},
		{utils.ErrActivityNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: day must be >= 1", utils.ErrInvalidInput), http.StatusBadRequest},
		{utils.ErrStaleGeneration, http.StatusConflict},
		{fmt.Errorf("save: %w", utils.ErrDatabaseError), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("trace_id", "trace-1")

		utils.HandleServiceError(c, zap.NewNop(), tc.err)

		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		var body utils.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "trace-1", body.TraceID)
		assert.Equal(t, tc.code, body.Code)
	}
}
