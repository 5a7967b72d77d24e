package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecryption is returned when an envelope is malformed, was encrypted with
// a different key, or has been tampered with. No partial plaintext is ever
// returned alongside it.
var ErrDecryption = errors.New("decryption failed")

// fieldKeySize is the AES-256 key length.
const fieldKeySize = 32

// FieldCipher encrypts and decrypts individual string fields with AES-256-GCM
// before they reach the database. Instances are immutable; construct one per
// key, nothing is shared between them.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a FieldCipher from a base64-encoded 32-byte key.
func NewFieldCipher(base64Key string) (*FieldCipher, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("encryption key: invalid base64: %w", err)
	}
	if len(key) != fieldKeySize {
		return nil, fmt.Errorf("encryption key: got %d bytes but want %d", len(key), fieldKeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

// GenerateKey returns a fresh random base64-encoded 32-byte key.
func GenerateKey() (string, error) {
	key := make([]byte, fieldKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Encrypt encrypts one plaintext value into a self-contained envelope:
// base64(nonce || ciphertext || tag). The empty string passes through
// unchanged so optional columns stay empty rather than becoming ciphertext.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	// GCM requires a unique nonce per encryption under the same key.
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}

	ciphertext := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	payload := append(nonce, ciphertext...)
	return base64.RawStdEncoding.EncodeToString(payload), nil
}

// Decrypt is the inverse of Encrypt. The empty string passes through
// unchanged. Any tamper, truncation, or wrong-key envelope returns
// ErrDecryption; the integrity tag is verified before any plaintext is
// released.
func (c *FieldCipher) Decrypt(envelope string) (string, error) {
	if envelope == "" {
		return "", nil
	}

	payload, err := base64.RawStdEncoding.DecodeString(envelope)
	if err != nil {
		return "", ErrDecryption
	}
	nonceSize := c.aead.NonceSize()
	if len(payload) <= nonceSize {
		return "", ErrDecryption
	}
	plaintext, err := c.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(plaintext), nil
}
