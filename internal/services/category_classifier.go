package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"iter/internal/models/itinerary_models"
	"iter/pkg/utils"
)

type CategoryClassifierInterface interface {
	Groups() []itinerary_models.CategoryGroup
	Matches(group itinerary_models.CategoryGroup, tag string) bool
	GroupsFor(tag string) []itinerary_models.CategoryGroup
	AnyMatch(selected []itinerary_models.CategoryGroup, tag *string) bool
	ResolveKeys(keys []string) ([]itinerary_models.CategoryGroup, error)
}

type CategoryClassifier struct {
	groups   []itinerary_models.CategoryGroup
	folded   map[string][]string
	catchAll itinerary_models.CategoryGroup
}

// NewCategoryClassifier expects exactly one catch-all group, as validated by
// config.ParseCategoryGroups.
func NewCategoryClassifier(groups []itinerary_models.CategoryGroup) CategoryClassifierInterface {
	c := &CategoryClassifier{
		groups: groups,
		folded: make(map[string][]string, len(groups)),
	}
	for _, g := range groups {
		if g.CatchAll {
			c.catchAll = g
		}
		kws := make([]string, 0, len(g.Keywords))
		for _, kw := range g.Keywords {
			if f := fold(kw); f != "" {
				kws = append(kws, f)
			}
		}
		c.folded[g.Key] = kws
	}
	return c
}

// fold builds a fresh Caser per call; a Caser must not be shared across goroutines.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func (c *CategoryClassifier) Groups() []itinerary_models.CategoryGroup {
	return c.groups
}

// Matches reports whether the case-folded tag contains one of the group's
// keywords. A catch-all group without keywords never matches; it is only
// reached through GroupsFor.
func (c *CategoryClassifier) Matches(group itinerary_models.CategoryGroup, tag string) bool {
	folded := fold(tag)
	if folded == "" {
		return false
	}
	return c.containsKeyword(group, folded)
}

func (c *CategoryClassifier) containsKeyword(group itinerary_models.CategoryGroup, folded string) bool {
	kws, ok := c.folded[group.Key]
	if !ok {
		for _, kw := range group.Keywords {
			kws = append(kws, fold(kw))
		}
	}
	for _, kw := range kws {
		if kw != "" && strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// GroupsFor never returns an empty slice: unmatched or empty tags land in the catch-all group.
func (c *CategoryClassifier) GroupsFor(tag string) []itinerary_models.CategoryGroup {
	var out []itinerary_models.CategoryGroup
	for _, g := range c.groups {
		if c.Matches(g, tag) {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		return []itinerary_models.CategoryGroup{c.catchAll}
	}
	return out
}

// AnyMatch is vacuously true for an empty selection or an untagged place.
func (c *CategoryClassifier) AnyMatch(selected []itinerary_models.CategoryGroup, tag *string) bool {
	if len(selected) == 0 || tag == nil || strings.TrimSpace(*tag) == "" {
		return true
	}
	for _, g := range selected {
		if c.Matches(g, *tag) {
			return true
		}
	}
	return false
}

// ResolveKeys maps user supplied keys or display names onto groups.
func (c *CategoryClassifier) ResolveKeys(keys []string) ([]itinerary_models.CategoryGroup, error) {
	var out []itinerary_models.CategoryGroup
	seen := make(map[string]bool)
	for _, k := range keys {
		want := fold(k)
		if want == "" {
			continue
		}
		found := false
		for _, g := range c.groups {
			if fold(g.Key) == want || fold(g.Name) == want {
				if !seen[g.Key] {
					out = append(out, g)
					seen[g.Key] = true
				}
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: unknown category %q", utils.ErrInvalidInput, k)
		}
	}
	return out, nil
}
