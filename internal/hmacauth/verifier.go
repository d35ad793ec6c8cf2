package hmacauth

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"net/http"

	"webhook-gate/internal/common/errors"
)

// Outcome is the result of signature verification.
type Outcome int

const (
	// Unauthorized means the signature was absent, malformed, or did not
	// match the body.
	Unauthorized Outcome = iota
	// Authorized means the presented signature matched the computed digest.
	Authorized
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	if o == Authorized {
		return "authorized"
	}
	return "unauthorized"
}

// ComputeDigest returns encoding(HMAC(algorithm, secret, body)) for the spec.
func ComputeDigest(body []byte, spec CredentialSpec) (string, error) {
	newHash, err := hashFor(spec.Algorithm)
	if err != nil {
		return "", err
	}

	mac := hmac.New(newHash, []byte(spec.Secret))
	mac.Write(body)
	return spec.encoder()(mac.Sum(nil)), nil
}

// CompareDigest checks a presented header value against the expected
// digest. An empty header value is an absent signature and never
// authorizes; a value that cannot be normalized fails the same way.
// The comparison is constant-time.
func CompareDigest(expected, headerValue string, spec CredentialSpec) Outcome {
	if headerValue == "" {
		return Unauthorized
	}

	normalized, err := Normalize(headerValue, spec.HexDigest, spec.SplitDigest)
	if err != nil {
		return Unauthorized
	}

	if hmac.Equal([]byte(expected), []byte(normalized)) {
		return Authorized
	}
	return Unauthorized
}

// Verify computes the expected digest over body and compares it to the
// presented header value.
func Verify(body []byte, headerValue string, spec CredentialSpec) Outcome {
	expected, err := ComputeDigest(body, spec)
	if err != nil {
		return Unauthorized
	}
	return CompareDigest(expected, headerValue, spec)
}

func hashFor(algorithm string) (func() hash.Hash, error) {
	switch algorithm {
	case AlgorithmMD5:
		return md5.New, nil
	case AlgorithmSHA1:
		return sha1.New, nil
	case AlgorithmSHA224:
		return sha256.New224, nil
	case AlgorithmSHA256:
		return sha256.New, nil
	case AlgorithmSHA384:
		return sha512.New384, nil
	case AlgorithmSHA512:
		return sha512.New, nil
	default:
		return nil, errors.ValidationError("unsupported algorithm: " + algorithm)
	}
}

type digestContextKey struct{}

// AttachDigest computes the body digest for spec and stores it on the
// request context, so a custom body-capture component reusing this
// verifier can hand the value to downstream code without recomputation.
func AttachDigest(r *http.Request, body []byte, spec CredentialSpec) *http.Request {
	digest, err := ComputeDigest(body, spec)
	if err != nil {
		return r
	}
	return withDigest(r, digest)
}

// ReadDigest returns the digest attached during verification, or the
// empty string if none was computed for this request.
func ReadDigest(r *http.Request) string {
	digest, _ := r.Context().Value(digestContextKey{}).(string)
	return digest
}

func withDigest(r *http.Request, digest string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), digestContextKey{}, digest))
}
