package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags. Only
// the flags defined here are looked at; see flagx.ParseOwn.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local preferences database")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "file holding the identity token")
	fs.StringVar(&cfg.JWKSURL, "jwks", cfg.JWKSURL, "JWKS URL for identity token verification")
	fs.StringVar(&cfg.BlobTransport, "blob", cfg.BlobTransport, "blob transport (presigned or s3)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	requestTimeout := fs.Int("rt", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := flagx.ParseOwn(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
