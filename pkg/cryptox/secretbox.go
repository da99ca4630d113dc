package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// secretBoxInfo binds derived keys to their purpose so the same master
// material can never decrypt data sealed for something else.
const secretBoxInfo = "hostpool/secretbox/v1"

var ErrCiphertextTooShort = errors.New("cryptox: ciphertext too short")

// SecretBox seals small secrets (provider API keys) with AES-256-GCM.
// Output format is [12-byte nonce][ciphertext][16-byte tag].
type SecretBox struct {
	aead cipher.AEAD
}

// NewSecretBox derives a 32-byte key from material with HKDF-SHA256.
func NewSecretBox(material []byte) (*SecretBox, error) {
	if len(material) == 0 {
		return nil, errors.New("cryptox: empty key material")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, material, nil, []byte(secretBoxInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return &SecretBox{aead: gcm}, nil
}

// Seal encrypts plaintext under a fresh random nonce.
func (b *SecretBox) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return b.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal and authenticates the ciphertext.
func (b *SecretBox) Open(sealed []byte) ([]byte, error) {
	n := b.aead.NonceSize()
	if len(sealed) < n+b.aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	plaintext, err := b.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

// LoadKeyMaterial reads the master key from path when set, otherwise uses
// inline. With neither, it returns a random ephemeral key and ephemeral=true;
// anything sealed with it is lost on restart.
func LoadKeyMaterial(path, inline string) (material []byte, ephemeral bool, err error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("read master key file: %w", err)
		}
		data = []byte(strings.TrimSpace(string(data)))
		if len(data) == 0 {
			return nil, false, fmt.Errorf("master key file %s is empty", path)
		}
		return data, false, nil
	}

	if inline != "" {
		return []byte(inline), false, nil
	}

	material = make([]byte, 32)
	if _, err := rand.Read(material); err != nil {
		return nil, false, fmt.Errorf("generate ephemeral master key: %w", err)
	}
	return material, true, nil
}
