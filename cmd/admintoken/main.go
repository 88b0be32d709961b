// Command admintoken prints an ADMIN bearer token for the cache endpoints.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iliyamo/booksphere/internal/config"
	"github.com/iliyamo/booksphere/internal/middleware"
	"github.com/iliyamo/booksphere/internal/utils"
)

func main() {
	subject := flag.String("sub", "admin", "token subject")
	ttl := flag.Int("ttl", 0, "lifetime in minutes (default ACCESS_TOKEN_TTL_MIN)")
	flag.Parse()

	cfg := config.Load()
	if *ttl <= 0 {
		*ttl = cfg.AccessTTLMin
	}
	tok, err := utils.NewAccessToken(cfg.JWTSecret, *subject, middleware.RoleAdmin, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "admintoken:", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
}
