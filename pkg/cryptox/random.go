package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// CardCodeBytes is the entropy of a redemption code (32 hex characters).
const CardCodeBytes = 16

const lowerLetters = "abcdefghijklmnopqrstuvwxyz"

// GenerateCardCode returns a random upper case hex redemption code.
func GenerateCardCode() (string, error) {
	buf := make([]byte, CardCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate card code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// RandomLetters returns n random lower case ASCII letters.
func RandomLetters(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("letter count must be positive, got %d", n)
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	// 256 % 26 leaves a slight bias towards a-v; fine for subdomain labels.
	for i, b := range buf {
		buf[i] = lowerLetters[int(b)%len(lowerLetters)]
	}
	return string(buf), nil
}
