package hmacauth

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"webhook-gate/internal/common/errors"
)

// Encoder converts a computed HMAC digest into its comparison string form.
type Encoder func([]byte) string

// Built-in digest encoders.
var (
	Base64Encoder Encoder = base64.StdEncoding.EncodeToString
	HexEncoder    Encoder = hex.EncodeToString
)

// Encoding names accepted in configuration.
const (
	EncodingBase64 = "base64"
	EncodingHex    = "hex"
)

// Algorithm names accepted in configuration.
const (
	AlgorithmMD5    = "md5"
	AlgorithmSHA1   = "sha1"
	AlgorithmSHA224 = "sha224"
	AlgorithmSHA256 = "sha256"
	AlgorithmSHA384 = "sha384"
	AlgorithmSHA512 = "sha512"
)

// CredentialSpec is one configured verification rule.
type CredentialSpec struct {
	// Header is the request header carrying the signature. Comparison is
	// case-insensitive.
	Header string `json:"header"`

	// Secret is the shared HMAC secret.
	Secret string `json:"secret"`

	// Algorithm selects the HMAC hash. Default: sha256.
	Algorithm string `json:"algorithm"`

	// Encoding selects how the computed digest is stringified for
	// comparison: "base64" (default) or "hex".
	Encoding string `json:"encoding"`

	// HexDigest marks the presented signature as base16; it is re-encoded
	// to base64 before comparison.
	HexDigest bool `json:"hex_digest"`

	// SplitDigest marks the presented signature as "algo=<digest>"; the
	// prefix is stripped before comparison.
	SplitDigest bool `json:"split_digest"`

	// EncodeFunc overrides Encoding with a custom encoder. Not
	// expressible in JSON configuration.
	EncodeFunc Encoder `json:"-"`
}

// SetDefaults applies default values to the spec
func (s *CredentialSpec) SetDefaults() {
	if s.Algorithm == "" {
		s.Algorithm = AlgorithmSHA256
	}

	if s.Encoding == "" && s.EncodeFunc == nil {
		s.Encoding = EncodingBase64
	}
}

// Validate checks if the spec is usable
func (s *CredentialSpec) Validate() error {
	if s.Header == "" {
		return errors.ValidationError("header is required")
	}

	if s.Secret == "" {
		return errors.ValidationError("secret is required")
	}

	switch s.Algorithm {
	case AlgorithmMD5, AlgorithmSHA1, AlgorithmSHA224, AlgorithmSHA256, AlgorithmSHA384, AlgorithmSHA512:
	default:
		return errors.ValidationError("unsupported algorithm: " + s.Algorithm)
	}

	if s.EncodeFunc == nil {
		switch s.Encoding {
		case EncodingBase64, EncodingHex:
		default:
			return errors.ValidationError("unsupported encoding: " + s.Encoding)
		}
	}

	return nil
}

func (s *CredentialSpec) encoder() Encoder {
	if s.EncodeFunc != nil {
		return s.EncodeFunc
	}
	if s.Encoding == EncodingHex {
		return HexEncoder
	}
	return Base64Encoder
}

// Config is the gate configuration supplied by the embedding application.
// Exactly one of Credential and Credentials must be set; the union is
// resolved into an ordered list when the gate is built, so request-time
// code never shape-checks.
type Config struct {
	// Credential configures a single verification rule.
	Credential *CredentialSpec `json:"credential,omitempty"`

	// Credentials configures an ordered list of rules. The first rule
	// whose header is present on the request wins; order is significant.
	Credentials []CredentialSpec `json:"credentials,omitempty"`

	// Scope lists the path patterns subject to verification. Nil means
	// every request is verified; an empty list means none are.
	Scope []string `json:"scope,omitempty"`

	// ErrorViews overrides the failure-response table. Nil selects the
	// built-in urlencoded and json views.
	ErrorViews []ErrorViewEntry `json:"-"`
}

// SetDefaults applies default values to all configured specs
func (c *Config) SetDefaults() {
	if c.Credential != nil {
		c.Credential.SetDefaults()
	}

	for i := range c.Credentials {
		c.Credentials[i].SetDefaults()
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Credential == nil && len(c.Credentials) == 0 {
		return errors.ConfigError("credential configuration is required")
	}

	if c.Credential != nil && len(c.Credentials) > 0 {
		return errors.ConfigError("credential and credentials are mutually exclusive")
	}

	if c.Credential != nil {
		if err := c.Credential.Validate(); err != nil {
			return err
		}
	}

	for i := range c.Credentials {
		if err := c.Credentials[i].Validate(); err != nil {
			return errors.ValidationError(fmt.Sprintf("credentials[%d]: %v", i, err))
		}
	}

	return nil
}

// credentialList resolves the single-vs-list union into an ordered list.
func (c *Config) credentialList() []CredentialSpec {
	if c.Credential != nil {
		return []CredentialSpec{*c.Credential}
	}
	return c.Credentials
}

// LoadConfig loads gate configuration from JSON
func LoadConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.ConfigError("invalid gate configuration: " + err.Error())
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
