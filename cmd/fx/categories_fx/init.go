package categories_fx

import (
	"go.uber.org/fx"

	"iter/internal/config"
	"iter/internal/services"
)

var Module = fx.Provide(
	config.CategoryGroups,
	services.NewCategoryClassifier)
