// keygen prints a fresh base64-encoded 32-byte key for ENCRYPTION_KEY.
package main

import (
	"fmt"
	"log"

	"vibe-finance/backend/internal/security"
)

func main() {
	key, err := security.GenerateKey()
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	fmt.Println(key)
}
