package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cloudsphere/internal/flagx"
	"github.com/dmitrijs2005/cloudsphere/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration,
// so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC    string         `json:"endpoint_addr_grpc"`
	OpsAddr             string         `json:"ops_addr"`
	PublicBaseURL       string         `json:"public_base_url"`
	DatabaseDSN         string         `json:"database_dsn"`
	SecretKey           string         `json:"secret_key"`
	JWKSURL             string         `json:"jwks_url"`
	JWKSRefresh         timex.Duration `json:"jwks_refresh"`
	Admins              []string       `json:"admins"`
	DefaultStorageLimit uint64         `json:"default_storage_limit"`
	MaxSingleFileBytes  uint64         `json:"max_single_file_bytes"`
	UploadURLValidity   timex.Duration `json:"upload_url_validity"`
	DownloadURLValidity timex.Duration `json:"download_url_validity"`
	BlobStore           string         `json:"blob_store"`
	S3RootUser          string         `json:"s3_root_user"`
	S3RootPassword      string         `json:"s3_root_password"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays config with the JSON file named by -c or -config.
// Keys missing from the file keep their value. Panics on read or unmarshal
// errors.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.OpsAddr, c.OpsAddr)
	set(&config.PublicBaseURL, c.PublicBaseURL)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.JWKSURL, c.JWKSURL)
	set(&config.BlobStore, c.BlobStore)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.LogLevel, c.LogLevel)

	if len(c.Admins) > 0 {
		config.Admins = c.Admins
	}
	if c.DefaultStorageLimit > 0 {
		config.DefaultStorageLimit = c.DefaultStorageLimit
	}
	if c.MaxSingleFileBytes > 0 {
		config.MaxSingleFileBytes = c.MaxSingleFileBytes
	}
	if c.JWKSRefresh.Duration > 0 {
		config.JWKSRefresh = c.JWKSRefresh.Duration
	}
	if c.UploadURLValidity.Duration > 0 {
		config.UploadURLValidity = c.UploadURLValidity.Duration
	}
	if c.DownloadURLValidity.Duration > 0 {
		config.DownloadURLValidity = c.DownloadURLValidity.Duration
	}
}
