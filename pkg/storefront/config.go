package storefront

import "time"

// Config represents the configuration for the storefront API client
type Config struct {
	// BaseURL is the API base URL, including the version prefix
	// (e.g. http://localhost:8080/api/v1)
	BaseURL string

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is used when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	return nil
}
