// Package crypto provides AES-256-GCM encryption for credential secrets
// supplied through configuration, so shared secrets never have to sit in
// the environment in the clear.
//
// Keys of any length are accepted; PBKDF2 derives the 32-byte AES key.
// Each encryption uses a fresh random nonce, which is prepended to the
// ciphertext before base64 encoding.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"webhook-gate/internal/common/errors"
)

const (
	keyDerivationSalt       = "webhook-gate-secret-salt"
	keyDerivationIterations = 10000
)

// SecretEncryptor encrypts and decrypts credential secrets. Safe for
// concurrent use.
type SecretEncryptor struct {
	key []byte
}

// NewSecretEncryptor derives an AES-256 key from the passphrase and returns
// an encryptor. The passphrase must not be empty.
func NewSecretEncryptor(passphrase string) (*SecretEncryptor, error) {
	if passphrase == "" {
		return nil, errors.ValidationError("encryption key cannot be empty")
	}

	key := pbkdf2.Key([]byte(passphrase), []byte(keyDerivationSalt), keyDerivationIterations, 32, sha256.New)
	return &SecretEncryptor{key: key}, nil
}

// Encrypt seals plaintext with AES-256-GCM and returns base64(nonce || ciphertext).
// Empty input passes through as empty output.
func (e *SecretEncryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	gcm, err := e.cipher()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.InternalError("failed to create nonce", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Tampered or wrong-key ciphertexts fail GCM
// authentication and return an error.
func (e *SecretEncryptor) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.ValidationError("ciphertext is not valid base64")
	}

	gcm, err := e.cipher()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.ValidationError("ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", errors.InternalError("failed to decrypt secret", err)
	}

	return string(plaintext), nil
}

func (e *SecretEncryptor) cipher() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, errors.InternalError("failed to create cipher", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.InternalError("failed to create GCM", err)
	}

	return gcm, nil
}
