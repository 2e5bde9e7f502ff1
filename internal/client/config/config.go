package config

import "time"

const (
	BlobTransportPresigned = "presigned"
	BlobTransportS3        = "s3"
)

// S3 holds the settings of the direct S3 blob transport.
type S3 struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// Config holds runtime settings for the CloudSphere CLI.
type Config struct {
	ServerEndpointAddr string
	DatabasePath       string
	TokenFile          string
	JWKSURL            string
	JWKSRefresh        time.Duration

	BlobTransport string
	S3            S3

	CacheSize int
	CacheTTL  time.Duration

	MaxSingleFileBytes  uint64
	DefaultStorageLimit uint64

	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "cloudsphere-client.db"
	c.JWKSRefresh = time.Hour
	c.BlobTransport = BlobTransportPresigned
	c.S3.Region = "us-east-1"
	c.CacheSize = 128
	c.CacheTTL = 30 * time.Second
	c.MaxSingleFileBytes = 2 << 30
	c.DefaultStorageLimit = 15 << 30
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 15 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
