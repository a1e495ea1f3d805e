// Package otpauth parses the payload strings found in 2FA enrollment QR
// codes. Image decoding happens elsewhere; this package only sees the raw
// decoded string and applies the otpauth://totp/ URI grammar to it.
package otpauth

import (
	"net/url"
	"strings"
)

// Prefix is the only URI scheme+type this parser accepts. HOTP and other
// otpauth variants are deliberately not recognized.
const Prefix = "otpauth://totp/"

// DefaultIssuer is used when a payload carries no issuer information.
const DefaultIssuer = "Unknown"

// Payload is a candidate account extracted from a scanned QR code. It has
// not been validated; the store decides whether the secret is usable.
type Payload struct {
	Secret  string
	Account string
	Issuer  string
}

// Parse extracts a Payload from a raw QR string. The boolean is false for
// empty input, a non-TOTP URI, an unparsable URI, or a missing secret
// parameter; none of these are errors, just scans with nothing usable in
// them.
//
// Label handling follows the Google Authenticator convention: a label of
// the form "Issuer:account" carries the issuer inside the label, and that
// issuer wins unless an explicit issuer query parameter says otherwise.
func Parse(raw string) (Payload, bool) {
	if !strings.HasPrefix(raw, Prefix) {
		return Payload{}, false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Payload{}, false
	}

	q := u.Query()
	secret := q.Get("secret")
	if secret == "" {
		return Payload{}, false
	}

	issuer := q.Get("issuer")
	if issuer == "" {
		issuer = DefaultIssuer
	}

	account := strings.TrimPrefix(u.Path, "/")
	if before, after, ok := strings.Cut(account, ":"); ok {
		// The label issuer only fills in when the query parameter gave us
		// nothing better.
		if issuer == DefaultIssuer {
			issuer = before
		}
		account = after
	}

	return Payload{Secret: secret, Account: account, Issuer: issuer}, true
}
