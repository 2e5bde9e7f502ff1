// Command issuer prints an HS256 access token accepted by a server running
// with the same secret key. It stands in for an external identity provider
// during development.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/cloudsphere/internal/server/auth"
)

func main() {
	principal := flag.String("p", "", "principal (token subject)")
	secret := flag.String("k", "secretKey", "signing secret")
	ttl := flag.Duration("t", 24*time.Hour, "token validity")
	flag.Parse()

	if *principal == "" {
		fmt.Fprintln(os.Stderr, "principal is required (-p)")
		os.Exit(2)
	}

	token, err := auth.GenerateToken(*principal, []byte(*secret), *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
