package controllers

import (
	"github.com/gin-gonic/gin"

	"iter/pkg/middleware"
)

// RegisterRoutes mounts every handler. Trip routes sit behind JWT auth when
// jwtSecret is set; otherwise trips belong to the anonymous owner.
func RegisterRoutes(r *gin.Engine, jwtSecret string,
	healthController *HealthController,
	catalogController *CatalogController,
	tripController *TripController) {

	r.GET("/health", healthController.Health)
	r.GET("/categories", catalogController.ListCategories)
	r.GET("/places", catalogController.ListPlaces)

	trips := r.Group("/trips", middleware.JWTAuthMiddleware(jwtSecret))
	trips.GET("", tripController.ListTrips)
	trips.POST("/generate", tripController.GenerateTrip)
	trips.GET("/:tripId", tripController.GetTrip)
	trips.DELETE("/:tripId", tripController.DeleteTrip)
	trips.POST("/:tripId/edits", tripController.EditTrip)
	trips.POST("/:tripId/days/:day/optimize", tripController.OptimizeDay)
	trips.GET("/:tripId/days/:day/schedule", tripController.GetSchedule)
	trips.GET("/:tripId/days/:day/activities/:index/alternatives", tripController.GetAlternatives)
}
