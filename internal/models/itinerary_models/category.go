package itinerary_models

// CategoryGroup is a macro category with the keywords that identify it inside
// a place's tag string.
type CategoryGroup struct {
	Key      string   `yaml:"key" json:"key"`
	Name     string   `yaml:"name" json:"name"`
	Icon     string   `yaml:"icon" json:"icon"`
	Color    string   `yaml:"color" json:"color"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	CatchAll bool     `yaml:"catch_all" json:"catch_all"`
}
