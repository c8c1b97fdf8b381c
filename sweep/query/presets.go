package query

// Preset is a named quick-search expression
type Preset struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Query string `json:"query" yaml:"query"`
}

// DefaultPresets returns the built-in quick searches
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "temp", Label: "Temporary files", Query: ".tmp"},
		{Name: "large", Label: "Large files", Query: ">100MB"},
		{Name: "stale", Label: "Older than 30 days", Query: "older:30days"},
		{Name: "ds_store", Label: "Finder metadata", Query: ".DS_Store"},
	}
}

// LookupPreset finds a built-in preset by name
func LookupPreset(name string) (Preset, bool) {
	for _, p := range DefaultPresets() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
