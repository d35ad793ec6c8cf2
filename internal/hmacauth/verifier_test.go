package hmacauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base64(HMAC-SHA256("MySecret-Key", "The Body"))
const knownBodyDigest = "A7Mr49wizUmERd0WlPXOCZUTy5E3Oy9LdSOp7WbXdqw="

func sha256Spec(secret string) CredentialSpec {
	spec := CredentialSpec{Header: "x-signature", Secret: secret}
	spec.SetDefaults()
	return spec
}

func TestComputeDigestKnownAnswer(t *testing.T) {
	digest, err := ComputeDigest([]byte("The Body"), sha256Spec("MySecret-Key"))
	require.NoError(t, err)
	assert.Equal(t, knownBodyDigest, digest)
}

func TestComputeDigestHexEncoding(t *testing.T) {
	spec := sha256Spec("MySecret-Key")
	spec.Encoding = EncodingHex

	digest, err := ComputeDigest([]byte("The Body"), spec)
	require.NoError(t, err)
	assert.Equal(t, "03b32be3dc22cd498445dd1694f5ce099513cb91373b2f4b7523a9ed66d776ac", digest)
}

func TestComputeDigestCustomEncoder(t *testing.T) {
	spec := sha256Spec("MySecret-Key")
	spec.EncodeFunc = base64.URLEncoding.EncodeToString

	digest, err := ComputeDigest([]byte("The Body"), spec)
	require.NoError(t, err)
	assert.Equal(t, base64.URLEncoding.EncodeToString(mustHMAC(t, "MySecret-Key", "The Body")), digest)
}

func TestComputeDigestUnsupportedAlgorithm(t *testing.T) {
	spec := sha256Spec("k")
	spec.Algorithm = "crc32"

	_, err := ComputeDigest([]byte("body"), spec)
	assert.Error(t, err)
}

func TestVerifyRoundTrip(t *testing.T) {
	algorithms := []string{
		AlgorithmMD5, AlgorithmSHA1, AlgorithmSHA224,
		AlgorithmSHA256, AlgorithmSHA384, AlgorithmSHA512,
	}

	for _, algorithm := range algorithms {
		t.Run(algorithm, func(t *testing.T) {
			spec := sha256Spec("shared-secret")
			spec.Algorithm = algorithm

			header, err := ComputeDigest([]byte("payload"), spec)
			require.NoError(t, err)

			assert.Equal(t, Authorized, Verify([]byte("payload"), header, spec))
		})
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	spec := sha256Spec("MySecret-Key")

	// Signature over "The Body", body tampered to "The Body!!".
	assert.Equal(t, Unauthorized, Verify([]byte("The Body!!"), knownBodyDigest, spec))
}

func TestVerifyRejectsAbsentSignature(t *testing.T) {
	spec := sha256Spec("MySecret-Key")

	assert.Equal(t, Unauthorized, Verify([]byte("The Body"), "", spec))
	assert.Equal(t, Unauthorized, Verify(nil, "", spec))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	spec := sha256Spec("k1")
	header := base64.StdEncoding.EncodeToString(mustHMAC(t, "k2", "payload"))

	assert.Equal(t, Unauthorized, Verify([]byte("payload"), header, spec))
}

func TestVerifySplitHexDigest(t *testing.T) {
	spec := sha256Spec("MySecret-Key")
	spec.HexDigest = true
	spec.SplitDigest = true

	header := "sha256=03b32be3dc22cd498445dd1694f5ce099513cb91373b2f4b7523a9ed66d776ac"
	assert.Equal(t, Authorized, Verify([]byte("The Body"), header, spec))
}

func TestVerifyRejectsMalformedSplitDigest(t *testing.T) {
	spec := sha256Spec("MySecret-Key")
	spec.SplitDigest = true

	assert.Equal(t, Unauthorized, Verify([]byte("The Body"), "no-separator-here", spec))
}

func TestVerifyRejectsUnnormalizableHex(t *testing.T) {
	spec := sha256Spec("MySecret-Key")
	spec.HexDigest = true

	assert.Equal(t, Unauthorized, Verify([]byte("The Body"), "zzzz-not-hex", spec))
}

func TestAttachAndReadDigest(t *testing.T) {
	spec := sha256Spec("MySecret-Key")
	r := httptest.NewRequest("POST", "/webhooks/42", nil)

	r = AttachDigest(r, []byte("The Body"), spec)
	assert.Equal(t, knownBodyDigest, ReadDigest(r))
}

func TestReadDigestDefaultsToEmpty(t *testing.T) {
	r := httptest.NewRequest("POST", "/webhooks/42", nil)
	assert.Equal(t, "", ReadDigest(r))

	// An unrelated context value does not leak through.
	r = r.WithContext(context.WithValue(r.Context(), "digest", "not-ours"))
	assert.Equal(t, "", ReadDigest(r))
}

func mustHMAC(t *testing.T, secret, body string) []byte {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return mac.Sum(nil)
}
