// Package crypto provides the field-level cipher for sensitive patient data.
// Diagnosis, treatment, and notes are stored as AEAD ciphertext and decrypted
// only for restricted and emergency tier grants.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"medtrust/internal/patient"
)

// FieldCipher encrypts and decrypts individual record fields with
// ChaCha20-Poly1305. Ciphertexts are nonce-prefixed and base64-encoded so
// they can live in text columns.
type FieldCipher struct {
	key []byte
}

// NewFieldCipher validates the key length up front so a misconfigured key
// fails at startup, not on the first decrypt.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("field cipher key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &FieldCipher{key: append([]byte(nil), key...)}, nil
}

// EncryptField seals a plaintext field value.
func (c *FieldCipher) EncryptField(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("init field cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptField opens a sealed field value.
func (c *FieldCipher) DecryptField(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode field ciphertext: %w", err)
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("init field cipher: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("field ciphertext too short")
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("open field ciphertext: %w", err)
	}
	return string(plaintext), nil
}

// sensitivePointers maps each name in patient.SensitiveFields to its storage
// in rec. The cipher iterates the shared list so the two never drift apart.
func sensitivePointers(rec *patient.Record) map[string]*string {
	return map[string]*string{
		"diagnosis": &rec.Diagnosis,
		"treatment": &rec.Treatment,
		"notes":     &rec.Notes,
	}
}

// Decrypt returns a copy of the record with the sensitive fields decrypted.
// Empty fields pass through untouched.
func (c *FieldCipher) Decrypt(rec *patient.Record) (*patient.Record, error) {
	decrypted := *rec

	fields := sensitivePointers(&decrypted)
	for _, name := range patient.SensitiveFields {
		value, ok := fields[name]
		if !ok || *value == "" {
			continue
		}
		plain, err := c.DecryptField(*value)
		if err != nil {
			return nil, fmt.Errorf("decrypt %s: %w", name, err)
		}
		*value = plain
	}
	return &decrypted, nil
}

// Encrypt returns a copy of the record with the sensitive fields sealed.
// Used when seeding the dev directory.
func (c *FieldCipher) Encrypt(rec *patient.Record) (*patient.Record, error) {
	encrypted := *rec

	fields := sensitivePointers(&encrypted)
	for _, name := range patient.SensitiveFields {
		value, ok := fields[name]
		if !ok || *value == "" {
			continue
		}
		sealed, err := c.EncryptField(*value)
		if err != nil {
			return nil, fmt.Errorf("encrypt %s: %w", name, err)
		}
		*value = sealed
	}
	return &encrypted, nil
}
