package hmacauth

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"webhook-gate/internal/common/errors"
)

// Normalize transforms a presented signature header value into the
// canonical comparison form.
//
// With splitDigest set the value must carry an "algo=" prefix; it is
// split on the first "=", the algorithm tag discarded, and the remainder
// normalized. A split digest without "=" is a hard failure, not a
// best-effort parse. With hexInput set the value is decoded as base16
// (case-insensitive) and re-encoded as base64, the verifier's default
// comparison encoding. Otherwise the value passes through unchanged,
// which makes Normalize idempotent on already-normalized values.
func Normalize(value string, hexInput, splitDigest bool) (string, error) {
	if splitDigest {
		idx := strings.Index(value, "=")
		if idx < 0 {
			return "", errors.VerificationError("split digest has no algorithm prefix")
		}
		return Normalize(value[idx+1:], hexInput, false)
	}

	if hexInput {
		decoded, err := hex.DecodeString(strings.ToLower(value))
		if err != nil {
			return "", errors.VerificationError("digest is not valid base16")
		}
		return base64.StdEncoding.EncodeToString(decoded), nil
	}

	return value, nil
}
