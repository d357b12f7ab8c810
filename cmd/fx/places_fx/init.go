package places_fx

import (
	"go.uber.org/fx"

	"iter/internal/repositories"
	"iter/internal/services"
)

var Module = fx.Provide(
	repositories.NewPlaceRepository,
	services.NewPlaceService)
