package hmacauth

import "net/http"

// Select picks the credential to verify the request against.
//
// A single configured spec is always selected; whether its header is
// actually present is the verifier's concern. With multiple specs the
// first one whose header exists on the request wins. When none match, the
// last spec is returned as the identity for error reporting with
// found=false, and the caller must treat the signature as absent — the
// fallback can never authorize.
func Select(headers http.Header, specs []CredentialSpec) (CredentialSpec, bool) {
	if len(specs) == 0 {
		return CredentialSpec{}, false
	}

	if len(specs) == 1 {
		return specs[0], true
	}

	for _, spec := range specs {
		if len(headers.Values(spec.Header)) > 0 {
			return spec, true
		}
	}

	return specs[len(specs)-1], false
}
