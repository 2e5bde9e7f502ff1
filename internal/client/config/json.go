package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cloudsphere/internal/flagx"
	"github.com/dmitrijs2005/cloudsphere/internal/timex"
)

type jsonS3 struct {
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	PathStyle *bool  `json:"path_style"`
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DatabasePath        string         `json:"database_path"`
	TokenFile           string         `json:"token_file"`
	JWKSURL             string         `json:"jwks_url"`
	JWKSRefresh         timex.Duration `json:"jwks_refresh"`
	BlobTransport       string         `json:"blob_transport"`
	S3                  jsonS3         `json:"s3"`
	CacheSize           int            `json:"cache_size"`
	CacheTTL            timex.Duration `json:"cache_ttl"`
	MaxSingleFileBytes  uint64         `json:"max_single_file_bytes"`
	DefaultStorageLimit uint64         `json:"default_storage_limit"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with values from the JSON file named by -c or
// -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.TokenFile, jc.TokenFile)
	setString(&cfg.JWKSURL, jc.JWKSURL)
	setString(&cfg.BlobTransport, jc.BlobTransport)
	setString(&cfg.LogLevel, jc.LogLevel)

	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, jc.S3.SecretKey)
	if jc.S3.PathStyle != nil {
		cfg.S3.PathStyle = *jc.S3.PathStyle
	}

	if jc.CacheSize > 0 {
		cfg.CacheSize = jc.CacheSize
	}
	if jc.MaxSingleFileBytes > 0 {
		cfg.MaxSingleFileBytes = jc.MaxSingleFileBytes
	}
	if jc.DefaultStorageLimit > 0 {
		cfg.DefaultStorageLimit = jc.DefaultStorageLimit
	}
	if jc.JWKSRefresh.Duration > 0 {
		cfg.JWKSRefresh = jc.JWKSRefresh.Duration
	}
	if jc.CacheTTL.Duration > 0 {
		cfg.CacheTTL = jc.CacheTTL.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
