package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"iter/internal/models/itinerary_models"
)

//go:embed categories.yaml
var categoriesYAML []byte

type categoryFile struct {
	Groups []itinerary_models.CategoryGroup `yaml:"groups"`
}

// CategoryGroups returns the macro categories declared in categories.yaml.
func CategoryGroups() ([]itinerary_models.CategoryGroup, error) {
	return ParseCategoryGroups(categoriesYAML)
}

// ParseCategoryGroups decodes a category document and checks that keys are
// unique and exactly one group is the catch-all.
func ParseCategoryGroups(raw []byte) ([]itinerary_models.CategoryGroup, error) {
	var f categoryFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse category groups: %w", err)
	}
	if len(f.Groups) == 0 {
		return nil, fmt.Errorf("parse category groups: no groups declared")
	}

	seen := make(map[string]bool, len(f.Groups))
	catchAll := 0
	for _, g := range f.Groups {
		if g.Key == "" {
			return nil, fmt.Errorf("parse category groups: group %q has no key", g.Name)
		}
		if seen[g.Key] {
			return nil, fmt.Errorf("parse category groups: duplicate key %q", g.Key)
		}
		seen[g.Key] = true
		if g.CatchAll {
			catchAll++
		}
	}
	if catchAll != 1 {
		return nil, fmt.Errorf("parse category groups: want exactly one catch_all group, got %d", catchAll)
	}
	return f.Groups, nil
}
