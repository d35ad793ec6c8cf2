// Package config provides configuration management for the webhook gate.
// It loads settings from environment variables with sensible defaults and
// validates them before the gateway starts.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//
// Signature Verification:
//   - SIGNATURE_HEADER: Header carrying the signature (default: x-webhook-signature)
//   - WEBHOOK_SECRET: Shared HMAC secret (required); prefix with "enc:" for
//     a value sealed by CONFIG_ENCRYPTION_KEY
//   - SIGNATURE_ALGORITHM: md5, sha1, sha224, sha256, sha384, sha512 (default: sha256)
//   - SIGNATURE_ENCODING: base64 or hex (default: base64)
//   - SIGNATURE_HEX_DIGEST: presented digest is base16 (default: false)
//   - SIGNATURE_SPLIT_DIGEST: presented digest carries an "algo=" prefix (default: false)
//   - ROTATION_SIGNATURE_HEADER / ROTATION_WEBHOOK_SECRET: optional second
//     credential tried first, for secret rotation
//   - SCOPE_PATTERNS: comma-separated path patterns subject to verification,
//     ":"-prefixed segments are wildcards (default: verify every request)
//
// Security:
//   - CONFIG_ENCRYPTION_KEY: passphrase unsealing "enc:" secrets
package config

import (
	"os"
	"strconv"
	"strings"

	"webhook-gate/internal/common/errors"
	"webhook-gate/internal/crypto"
	"webhook-gate/internal/hmacauth"
)

const encryptedSecretPrefix = "enc:"

// Config holds all configuration values for the webhook gate. Each field
// corresponds to an environment variable.
type Config struct {
	Port     string
	LogLevel string

	SignatureHeader string
	WebhookSecret   string
	Algorithm       string
	Encoding        string
	HexDigest       bool
	SplitDigest     bool

	RotationHeader string
	RotationSecret string

	ScopePatterns []string

	EncryptionKey string
}

// Load creates a Config from environment variables. Call Validate before
// use.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SignatureHeader: getEnv("SIGNATURE_HEADER", "x-webhook-signature"),
		WebhookSecret:   getEnv("WEBHOOK_SECRET", ""),
		Algorithm:       getEnv("SIGNATURE_ALGORITHM", hmacauth.AlgorithmSHA256),
		Encoding:        getEnv("SIGNATURE_ENCODING", hmacauth.EncodingBase64),
		HexDigest:       getBoolEnv("SIGNATURE_HEX_DIGEST", false),
		SplitDigest:     getBoolEnv("SIGNATURE_SPLIT_DIGEST", false),

		RotationHeader: getEnv("ROTATION_SIGNATURE_HEADER", ""),
		RotationSecret: getEnv("ROTATION_WEBHOOK_SECRET", ""),

		ScopePatterns: splitList(getEnv("SCOPE_PATTERNS", "")),

		EncryptionKey: getEnv("CONFIG_ENCRYPTION_KEY", ""),
	}
}

// Validate checks that required values are present and consistent.
func (c *Config) Validate() error {
	if c.WebhookSecret == "" {
		return errors.ConfigError("WEBHOOK_SECRET is required")
	}

	if c.RotationHeader != "" && c.RotationSecret == "" {
		return errors.ConfigError("ROTATION_WEBHOOK_SECRET is required when ROTATION_SIGNATURE_HEADER is set")
	}

	if c.usesEncryptedSecrets() && c.EncryptionKey == "" {
		return errors.ConfigError("CONFIG_ENCRYPTION_KEY is required for enc: secrets")
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return errors.ConfigError("PORT must be numeric")
	}

	return nil
}

// GateConfig builds the hmacauth configuration, unsealing any "enc:"
// secrets. The rotation credential, when configured, is tried first so a
// new secret can be rolled out while the old one keeps working.
func (c *Config) GateConfig() (*hmacauth.Config, error) {
	var encryptor *crypto.SecretEncryptor
	if c.usesEncryptedSecrets() {
		var err error
		encryptor, err = crypto.NewSecretEncryptor(c.EncryptionKey)
		if err != nil {
			return nil, err
		}
	}

	primarySecret, err := resolveSecret(c.WebhookSecret, encryptor)
	if err != nil {
		return nil, err
	}

	primary := hmacauth.CredentialSpec{
		Header:      c.SignatureHeader,
		Secret:      primarySecret,
		Algorithm:   c.Algorithm,
		Encoding:    c.Encoding,
		HexDigest:   c.HexDigest,
		SplitDigest: c.SplitDigest,
	}

	cfg := &hmacauth.Config{Scope: c.ScopePatterns}

	if c.RotationHeader == "" {
		cfg.Credential = &primary
		return cfg, nil
	}

	rotationSecret, err := resolveSecret(c.RotationSecret, encryptor)
	if err != nil {
		return nil, err
	}

	cfg.Credentials = []hmacauth.CredentialSpec{
		{
			Header:      c.RotationHeader,
			Secret:      rotationSecret,
			Algorithm:   c.Algorithm,
			Encoding:    c.Encoding,
			HexDigest:   c.HexDigest,
			SplitDigest: c.SplitDigest,
		},
		primary,
	}
	return cfg, nil
}

func (c *Config) usesEncryptedSecrets() bool {
	return strings.HasPrefix(c.WebhookSecret, encryptedSecretPrefix) ||
		strings.HasPrefix(c.RotationSecret, encryptedSecretPrefix)
}

func resolveSecret(value string, encryptor *crypto.SecretEncryptor) (string, error) {
	if !strings.HasPrefix(value, encryptedSecretPrefix) {
		return value, nil
	}
	if encryptor == nil {
		return "", errors.ConfigError("encrypted secret without CONFIG_ENCRYPTION_KEY")
	}
	return encryptor.Decrypt(strings.TrimPrefix(value, encryptedSecretPrefix))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
