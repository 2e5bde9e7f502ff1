// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"strings"
	"time"
)

const (
	BlobStoreS3     = "s3"
	BlobStoreMemory = "memory"
)

// Config holds runtime settings for the CloudSphere reference server.
//
// An empty DatabaseDSN keeps accounts and files in memory. BlobStore
// "memory" keeps file bytes in the process and serves upload URLs from the
// ops listener under PublicBaseURL.
type Config struct {
	EndpointAddrGRPC string
	OpsAddr          string
	PublicBaseURL    string
	DatabaseDSN      string

	SecretKey   string
	JWKSURL     string
	JWKSRefresh time.Duration
	Admins      []string

	DefaultStorageLimit uint64
	MaxSingleFileBytes  uint64
	UploadURLValidity   time.Duration
	DownloadURLValidity time.Duration

	BlobStore      string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string

	LogLevel string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.OpsAddr = ":8080"
	c.PublicBaseURL = "http://127.0.0.1:8080"
	c.SecretKey = "secretKey"
	c.JWKSRefresh = time.Hour
	c.DefaultStorageLimit = 15 << 30
	c.MaxSingleFileBytes = 2 << 30
	c.UploadURLValidity = 15 * time.Minute
	c.DownloadURLValidity = 15 * time.Minute
	c.BlobStore = BlobStoreMemory
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "cloudsphere"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// splitList parses a comma separated flag value.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
