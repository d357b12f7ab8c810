package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"iter/internal/models/itinerary_models"
	"iter/internal/models/response_models"
	"iter/internal/services"
	"iter/pkg/utils"
)

type CatalogController struct {
	classifier services.CategoryClassifierInterface
	catalog    services.PlaceCatalogInterface
	log        *zap.Logger
}

func NewCatalogController(classifier services.CategoryClassifierInterface, catalog services.PlaceCatalogInterface, log *zap.Logger) *CatalogController {
	return &CatalogController{classifier: classifier, catalog: catalog, log: log}
}

// ListCategories godoc
// @Summary List category groups
// @Description Category groups selectable when generating a trip
// @Tags Catalog
// @Produce json
// @Success 200 {array} response_models.CategoryResponse
// @Router /categories [get]
func (cc *CatalogController) ListCategories(c *gin.Context) {
	utils.RespondSuccess(c, response_models.NewCategoryResponses(cc.classifier.Groups()), "Categories fetched successfully")
}

// ListPlaces godoc
// @Summary List places of a city
// @Tags Catalog
// @Produce json
// @Param city query string true "City name"
// @Param limit query int false "Maximum number of places" default(100) minimum(1) maximum(500)
// @Param category query string false "Category key filter"
// @Success 200 {array} response_models.PlaceResponse
// @Failure 400 {object} utils.APIResponse
// @Router /places [get]
func (cc *CatalogController) ListPlaces(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		utils.RespondError(c, http.StatusBadRequest, "city is required")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 500 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-500)")
		return
	}

	var selected []itinerary_models.CategoryGroup
	if key := c.Query("category"); key != "" {
		selected, err = cc.classifier.ResolveKeys([]string{key})
		if err != nil {
			utils.HandleServiceError(c, cc.log, err)
			return
		}
	}

	places, err := cc.catalog.FetchPlaces(c.Request.Context(), itinerary_models.PlaceFilter{City: city, Limit: limit})
	if err != nil {
		utils.HandleServiceError(c, cc.log, err)
		return
	}

	out := make([]response_models.PlaceResponse, 0, len(places))
	for _, p := range places {
		if !cc.classifier.AnyMatch(selected, p.TagsTitle) {
			continue
		}
		keys := []string{}
		for _, g := range cc.classifier.GroupsFor(p.Tags()) {
			keys = append(keys, g.Key)
		}
		out = append(out, response_models.PlaceResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Tags:        p.Tags(),
			City:        p.City,
			Coordinate:  p.Coordinate,
			Categories:  keys,
		})
	}
	utils.RespondSuccess(c, out, "Places fetched successfully")
}
