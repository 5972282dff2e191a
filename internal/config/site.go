package config

// SiteConfig holds per-host configuration for a single site.
// This allows customizing audit behavior per host in batch runs.
type SiteConfig struct {
	// CookieAccept is the label of a consent button to click after
	// navigation on this site (e.g., "Alle akzeptieren").
	CookieAccept string `yaml:"cookieAccept,omitempty"`

	// MaxPages overrides the global page budget for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// MaxLinksPerPage overrides the global per-page discovery cap.
	// If zero, the global MaxLinksPerPage is used.
	MaxLinksPerPage int `yaml:"maxLinksPerPage,omitempty"`
}

// File represents the structure of the .seolens configuration file.
type File struct {
	// Sites maps hosts to their site-specific configurations.
	// Keys should be the bare host (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.CookieAccept != "" {
			result.CookieAccept = siteConfig.CookieAccept
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.MaxLinksPerPage != 0 {
			result.MaxLinksPerPage = siteConfig.MaxLinksPerPage
		}
	}

	return result
}
