package config

// CORSConfig controls cross-origin access to the HTTP surface.
// An empty AllowedOrigins list means "*".
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowedOrigins"`
}

func (c *CORSConfig) Validate() error {
	return nil
}

// Origins returns the configured origins, defaulting to all.
func (c *CORSConfig) Origins() []string {
	if len(c.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return c.AllowedOrigins
}
