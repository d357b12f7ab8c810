package controllers_fx

import (
	"go.uber.org/fx"

	"iter/internal/api/controllers"
)

var Module = fx.Provide(
	controllers.NewHealthController,
	controllers.NewCatalogController,
	controllers.NewTripController)
