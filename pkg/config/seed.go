package config

// SeedConfig controls the one-time insertion of the demo catalog into an
// empty store at startup.
type SeedConfig struct {
	Enabled bool `koanf:"enabled"`
}

func (c *SeedConfig) Validate() error {
	return nil
}
