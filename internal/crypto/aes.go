package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Encrypted config values are wrapped as ENC[AES256:<base64>] so they can
// sit next to plain values in the same YAML file.
const (
	Prefix = "ENC[AES256:"
	Suffix = "]"
)

// GenerateKey returns a fresh random AES-256 key as a hex string.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// Encrypt seals plaintext with AES-GCM under the hex-encoded key and
// returns the wrapped representation. The nonce is prepended to the
// ciphertext before encoding.
func Encrypt(plaintext, keyHex string) (string, error) {
	gcm, err := newGCM(keyHex)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return Prefix + base64.StdEncoding.EncodeToString(sealed) + Suffix, nil
}

// Decrypt unwraps a value produced by Encrypt.
func Decrypt(value, keyHex string) (string, error) {
	if !IsEncrypted(value) {
		return "", errors.New("value is not in ENC[AES256:...] format")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(strings.TrimPrefix(value, Prefix), Suffix))
	if err != nil {
		return "", fmt.Errorf("invalid encrypted value: %w", err)
	}

	gcm, err := newGCM(keyHex)
	if err != nil {
		return "", err
	}

	if len(raw) < gcm.NonceSize() {
		return "", errors.New("encrypted value too short")
	}

	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.New("decryption failed: wrong key or corrupted value")
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether a value carries the ENC wrapper.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, Prefix) && strings.HasSuffix(value, Suffix)
}

func newGCM(keyHex string) (cipher.AEAD, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
