package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"iter/internal/models/itinerary_models"
	"iter/internal/models/request_models"
	"iter/internal/models/response_models"
	"iter/internal/services"
	"iter/pkg/utils"
)

type TripController struct {
	itineraryService services.ItineraryServiceInterface
	log              *zap.Logger
}

func NewTripController(itineraryService services.ItineraryServiceInterface, log *zap.Logger) *TripController {
	return &TripController{itineraryService: itineraryService, log: log}
}

// GenerateTrip godoc
// @Summary Generate a trip itinerary
// @Description Select candidate places, compose a day-by-day plan, add walking transport and meal suggestions
// @Tags Trips
// @Accept json
// @Produce json
// @Param request body request_models.GenerateTripRequest true "Trip parameters"
// @Success 200 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Security BearerAuth
// @Example {json} Request Body Example:
//
//	{
//	  "destination": "Rovinj",
//	  "start_date": "2025-06-01",
//	  "end_date": "2025-06-03",
//	  "categories": ["nature", "history"],
//	  "pace": "Balanced",
//	  "dining_vibe": "Local",
//	  "budget_level": 2,
//	  "lodging_address": "Trg Maršala Tita 1"
//	}
//
// @Router /trips/generate [post]
func (t *TripController) GenerateTrip(c *gin.Context) {
	var req request_models.GenerateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "destination and start_date are required")
		return
	}

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end := start
	if req.EndDate != "" {
		if end, err = utils.ParseDate(req.EndDate); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
	}

	plan, err := t.itineraryService.GenerateTrip(c.Request.Context(), services.GenerateTripInput{
		TripID:         req.TripID,
		OwnerID:        c.GetString("user_id"),
		Destination:    req.Destination,
		StartDate:      start,
		EndDate:        end,
		Categories:     req.Categories,
		Pace:           itinerary_models.ParsePace(req.Pace),
		DiningVibe:     itinerary_models.DiningVibe(req.DiningVibe),
		BudgetLevel:    req.BudgetLevel,
		LodgingAddress: req.LodgingAddress,
	})
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}

	utils.RespondSuccess(c, response_models.NewTripResponse(plan), "Trip generated successfully")
}

// ListTrips godoc
// @Summary List the caller's trips
// @Tags Trips
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {array} response_models.TripResponse
// @Security BearerAuth
// @Router /trips [get]
func (t *TripController) ListTrips(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	trips, err := t.itineraryService.ListTrips(c.Request.Context(), c.GetString("user_id"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}

	out := make([]response_models.TripResponse, 0, len(trips))
	for _, p := range trips {
		out = append(out, response_models.NewTripResponse(p))
	}
	utils.RespondSuccess(c, out, "Trips fetched successfully")
}

// GetTrip godoc
// @Summary Get a trip
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.TripResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	plan, err := t.itineraryService.GetTrip(c.Request.Context(), c.GetString("user_id"), c.Param("tripId"))
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewTripResponse(plan), "Trip fetched successfully")
}

// DeleteTrip godoc
// @Summary Delete a trip
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId} [delete]
func (t *TripController) DeleteTrip(c *gin.Context) {
	if err := t.itineraryService.DeleteTrip(c.Request.Context(), c.GetString("user_id"), c.Param("tripId")); err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, nil, "Trip deleted successfully")
}

// EditTrip godoc
// @Summary Apply an edit to a trip day
// @Description Reorder stops, swap a stop for another place or change a start time
// @Tags Trips
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.EditTripRequest true "Edit"
// @Success 200 {object} response_models.TripResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/edits [post]
func (t *TripController) EditTrip(c *gin.Context) {
	var req request_models.EditTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "type (reorder, swap or time) and day are required")
		return
	}

	edit, msg := editFromRequest(req)
	if msg != "" {
		utils.RespondError(c, http.StatusBadRequest, msg)
		return
	}

	plan, err := t.itineraryService.ApplyEdit(c.Request.Context(), c.GetString("user_id"), c.Param("tripId"), edit)
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewTripResponse(plan), "Trip updated successfully")
}

// editFromRequest returns a non-empty message when a field the edit type
// needs is missing.
func editFromRequest(req request_models.EditTripRequest) (services.TripEdit, string) {
	edit := services.TripEdit{EditCommand: itinerary_models.EditCommand{
		Type: itinerary_models.EditType(req.Type),
		Day:  req.Day,
	}}

	switch edit.Type {
	case itinerary_models.EditReorder:
		if req.From == nil || req.To == nil {
			return edit, "reorder needs from and to"
		}
		edit.From, edit.To = *req.From, *req.To
	case itinerary_models.EditSwap:
		if req.Index == nil || req.PlaceID == nil {
			return edit, "swap needs index and place_id"
		}
		edit.Index, edit.PlaceID, edit.Notes = *req.Index, *req.PlaceID, req.Notes
	case itinerary_models.EditTime:
		if req.Index == nil || req.StartTime == "" {
			return edit, "time needs index and start_time"
		}
		edit.Index, edit.StartTime = *req.Index, req.StartTime
	}
	return edit, ""
}

// OptimizeDay godoc
// @Summary Reorder a day's stops to shorten walking
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param day path int true "Day index (1-based)"
// @Success 200 {object} response_models.TripResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/days/{day}/optimize [post]
func (t *TripController) OptimizeDay(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	plan, err := t.itineraryService.OptimizeDay(c.Request.Context(), c.GetString("user_id"), c.Param("tripId"), day)
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewTripResponse(plan), "Day optimized successfully")
}

// GetSchedule godoc
// @Summary Day timeline with meal slots
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param day path int true "Day index (1-based)"
// @Success 200 {array} response_models.ScheduleEntryResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/days/{day}/schedule [get]
func (t *TripController) GetSchedule(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	entries, err := t.itineraryService.Schedule(c.Request.Context(), c.GetString("user_id"), c.Param("tripId"), day)
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewScheduleResponse(entries), "Schedule fetched successfully")
}

// GetAlternatives godoc
// @Summary Suggest replacement places for a stop
// @Tags Trips
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param day path int true "Day index (1-based)"
// @Param index path int true "Activity index (0-based)"
// @Param limit query int false "Number of suggestions" default(5) minimum(1) maximum(20)
// @Success 200 {array} itinerary_models.PlaceRecord
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /trips/{tripId}/days/{day}/activities/{index}/alternatives [get]
func (t *TripController) GetAlternatives(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid activity index")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 || limit > 20 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-20)")
		return
	}

	places, err := t.itineraryService.SuggestAlternatives(c.Request.Context(), c.GetString("user_id"), c.Param("tripId"), day, index, limit)
	if err != nil {
		utils.HandleServiceError(c, t.log, err)
		return
	}
	utils.RespondSuccess(c, places, "Alternatives fetched successfully")
}

func dayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid day")
		return 0, false
	}
	return day, true
}
