// Package hmacauth authenticates inbound webhook requests by verifying an
// HMAC signature over the raw request body before any decoder consumes it.
//
// The gate captures the body exactly once, selects a credential by header
// presence, normalizes the presented digest across provider conventions
// (plain base64, "sha256=<hex>" split digests, bare hex), computes the
// expected HMAC, and either hands the untouched body to the next handler
// or emits a content-type-negotiated 403.
//
// # Configuration
//
// A single credential:
//
//	cfg := &hmacauth.Config{
//	    Credential: &hmacauth.CredentialSpec{
//	        Header: "X-Hub-Signature-256",
//	        Secret: secret,
//	        HexDigest:   true,
//	        SplitDigest: true,
//	    },
//	}
//
// Or an ordered list, first present header wins:
//
//	cfg := &hmacauth.Config{
//	    Credentials: []hmacauth.CredentialSpec{
//	        {Header: "x-signature-v2", Secret: current},
//	        {Header: "x-signature", Secret: previous},
//	    },
//	    Scope: []string{"/webhooks/:id"},
//	}
//
// Scope patterns gate which paths require verification; a ":"-prefixed
// segment matches one path segment and accepts any remainder. With no
// scope configured every request is verified.
//
// # Usage
//
//	gate, err := hmacauth.NewGate(cfg, mux, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := &http.Server{Handler: gate}
//
// Downstream handlers can read the digest the gate computed over the body
// via hmacauth.ReadDigest without hashing again.
//
// # Failure responses
//
// Failed verification always yields a 403. The body shape is negotiated
// from the request's content type against the configured error views:
// form-url-encoded requests get a plain-text body, JSON (including any
// "+json" subtype mapped to the json category) a JSON object. Entries
// supply a Renderer and optionally a Responder; built-in defaults cover
// the two first-class categories. A content type with no configured view
// is a configuration error, not a guess.
package hmacauth
