package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	NonceBytes        = 32 // 256 bits of entropy
	MaxClientSeedSize = 128
)

func GenerateBetID() string {
	return uuid.New().String()
}

// GenerateNonceValue returns NonceBytes of crypto/rand output as hex.
func GenerateNonceValue() (string, error) {
	bytes := make([]byte, NonceBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// ValidateClientSeed rejects seeds that are empty, oversized, not UTF-8 or
// contain non-printable runes.
func ValidateClientSeed(seed string) error {
	if seed == "" {
		return fmt.Errorf("client seed is required")
	}
	if len(seed) > MaxClientSeedSize {
		return fmt.Errorf("client seed exceeds %d bytes", MaxClientSeedSize)
	}
	if !utf8.ValidString(seed) {
		return fmt.Errorf("client seed must be valid UTF-8")
	}
	for _, r := range seed {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("client seed contains non-printable characters")
		}
	}
	return nil
}
