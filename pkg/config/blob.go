package config

import "fmt"

// BlobConfig configures the S3-compatible blob store holding product images.
type BlobConfig struct {
	Region          string `koanf:"region"`
	Container       string `koanf:"container"`
	AccessKeyID     string `koanf:"accessKeyId"`
	SecretAccessKey string `koanf:"secretAccessKey"`
	Endpoint        string `koanf:"endpoint"`
	UsePathStyle    bool   `koanf:"usePathStyle"`
}

func (c *BlobConfig) Validate() error {
	if c.Container == "" {
		return fmt.Errorf("blob container name is not configured")
	}
	return nil
}
