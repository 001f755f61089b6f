// Package main is a development utility for generating a shared API key for the
// tracker. It prints the raw key together with the environment variable and YAML
// snippets needed to wire it in, so developers can quickly configure a local
// deployment without inventing key material by hand. Treat generated keys like
// any other secret and rotate them per environment.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
)

func main() {
	// Generate random bytes
	randomBytes := make([]byte, 32)
	_, err := rand.Read(randomBytes)
	if err != nil {
		log.Fatal(err)
	}

	// Encode to base64
	randomPart := base64.RawURLEncoding.EncodeToString(randomBytes)

	// Create full key
	prefix := "tkt"
	fullKey := fmt.Sprintf("%s_%s", prefix, randomPart)

	fmt.Println("==========================================================")
	fmt.Println("API Key Generated")
	fmt.Println("==========================================================")
	fmt.Printf("\nFull Key: %s\n", fullKey)
	fmt.Println("\n==========================================================")
	fmt.Println("Environment:")
	fmt.Println("==========================================================")
	fmt.Printf("\nexport TKT_AUTH_API_KEY=%s\n", fullKey)
	fmt.Println("\n==========================================================")
	fmt.Println("config.yaml:")
	fmt.Println("==========================================================")
	fmt.Printf("\nauth:\n  enabled: true\n  api_key: %s\n", fullKey)
	fmt.Println("\n==========================================================")
	fmt.Printf("Request Header: X-API-Key: %s\n", fullKey)
	fmt.Println("==========================================================")
}
