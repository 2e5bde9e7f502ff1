// Package config loads runtime configuration for the CloudSphere CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string    address:port of the backend gRPC endpoint
//	-d string    path of the local preferences database
//	-t string    file holding the identity token
//	-jwks string JWKS URL used to verify identity tokens
//	-blob string blob transport: presigned or s3
//	-l string    log level: debug, info, warn, error
//	-rt int      per-request timeout (seconds)
//	-i int       online status check interval (seconds)
//
// # JSON schema
//
// Durations are timex.Duration values, so either strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "database_path": "cloudsphere-client.db",
//	  "jwks_url": "https://id.example/.well-known/jwks.json",
//	  "blob_transport": "s3",
//	  "s3": {"region": "us-east-1", "bucket": "files", "path_style": true},
//	  "cache_size": 128,
//	  "cache_ttl": "30s",
//	  "max_single_file_bytes": 2147483648,
//	  "request_timeout": "30s",
//	  "online_check_interval": "15s",
//	  "log_level": "info"
//	}
//
// Keys missing from the file keep their previous value.
package config
