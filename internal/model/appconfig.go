package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultScale     float64   `json:"default_scale"`      // pixels per real-world unit
	DefaultRoundMode RoundMode `json:"default_round_mode"` // used for new material nodes
	DefaultUnits     string    `json:"default_units"`      // label only, e.g. "ft"

	// Definition store location; empty means the default under the config dir
	CatalogPath string `json:"catalog_path"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	ShowWarnings   bool     `json:"show_warnings"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultScale:     1.0,
		DefaultRoundMode: RoundUp,
		DefaultUnits:     "ft",
		CatalogPath:      "",
		RecentProjects:   []string{},
		ShowWarnings:     false,
	}
}

// ApplyToProject fills project settings the user has not chosen yet from
// the configured defaults.
func (c AppConfig) ApplyToProject(p *Project) {
	if p.Global <= 0 {
		p.Global = c.DefaultScale
	}
	if p.Pages == nil {
		p.Pages = map[int]float64{}
	}
}

// AddRecentProject records path as the most recently used project, keeping
// at most limit entries without duplicates.
func (c *AppConfig) AddRecentProject(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentProjects = recent
}
