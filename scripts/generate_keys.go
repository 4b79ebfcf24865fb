//go:build ignore

// This script generates credentials for the print desk and, optionally, a
// signed admin token for local testing against JWT_SECRET_KEY.
//
//	go run scripts/generate_keys.go
//	go run scripts/generate_keys.go -secret "$JWT_SECRET_KEY" -user u-desk -ttl 8h
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/service"
)

func randomKey(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func main() {
	secret := flag.String("secret", "", "sign an admin token with this JWT secret instead of generating keys")
	issuer := flag.String("issuer", os.Getenv("JWT_ISSUER"), "iss claim of the signed token")
	user := flag.String("user", "print-desk", "user id of the signed token")
	role := flag.String("role", "admin", "role granted by the signed token")
	ttl := flag.Duration("ttl", 8*time.Hour, "lifetime of the signed token")
	flag.Parse()

	if *secret != "" {
		token, err := service.SignToken(*secret, dto.Claims{UserID: *user, Roles: []string{*role}}, *issuer, *ttl)
		if err != nil {
			fail(err)
		}
		fmt.Println(token)
		return
	}

	jwtSecret, err := randomKey(32)
	if err != nil {
		fail(err)
	}
	deskKey, err := randomKey(24)
	if err != nil {
		fail(err)
	}

	fmt.Println("# Add to .env")
	fmt.Println("AUTH_ENABLED=true")
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	fmt.Printf("API_KEYS=%s\n", deskKey)
	fmt.Println()
	fmt.Println("# Keep these out of version control and use one set per environment.")
}
