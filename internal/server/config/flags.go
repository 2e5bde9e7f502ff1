package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     gRPC bind address (e.g., ":50051")
//	-o string     ops HTTP bind address (health, metrics, in-memory blobs)
//	-pub string   public base URL of the ops listener
//	-d string     PostgreSQL DSN; empty keeps data in memory
//	-s string     HMAC secret for identity tokens
//	-jwks string  JWKS URL for identity tokens
//	-admins string comma separated admin principals
//	-v int        upload URL validity, minutes
//	-blob string  blob store: s3 or memory
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-g string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l string     log level
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.OpsAddr, "o", config.OpsAddr, "address and port of the ops listener")
	fs.StringVar(&config.PublicBaseURL, "pub", config.PublicBaseURL, "public base URL of the ops listener")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.JWKSURL, "jwks", config.JWKSURL, "JWKS URL")
	admins := fs.String("admins", strings.Join(config.Admins, ","), "comma separated admin principals")
	uploadURLValidity := fs.Int("v", int(config.UploadURLValidity.Minutes()), "upload_url_validity (in minutes)")

	fs.StringVar(&config.BlobStore, "blob", config.BlobStore, "blob store (s3 or memory)")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := flagx.ParseOwn(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	config.Admins = splitList(*admins)
	config.UploadURLValidity = time.Duration(*uploadURLValidity) * time.Minute
}
