//go:build ignore

// This script generates a secure random key for signing session cookies.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func main() {
	fmt.Println("=== Green Haven Key Generator ===")
	fmt.Println()

	// 32 bytes = 256 bits, the size of the derived HS256 key
	secret, err := generateSecureKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating session secret: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add this to your .env file:")
	fmt.Println()
	fmt.Println("# Session cookie signing")
	fmt.Printf("SESSION_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit this secret to version control")
	fmt.Println("- Every instance sharing a Redis session store needs the same secret")
	fmt.Println("- Rotating it starts every shopper on a new, empty cart")
}
