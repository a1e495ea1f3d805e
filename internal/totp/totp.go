// Package totp wraps RFC 6238 code generation for stored authenticator
// secrets: normalization of user-supplied base32 material, a validation
// probe used before a secret is committed anywhere, and the current-code /
// countdown arithmetic the display layer polls.
package totp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

const (
	// Period is the standard TOTP time step in seconds.
	Period = 30
	// Digits is the length of a generated code.
	Digits = 6
)

// ErrInvalidSecret reports secret material that cannot drive a TOTP
// generator (bad base32 alphabet, empty input, decode failure).
var ErrInvalidSecret = errors.New("invalid secret")

// Normalize strips spaces and hyphens and upper-cases the input. This is the
// canonical form secrets are stored in; authenticator apps print secrets in
// grouped lowercase, so raw user input is rarely clean.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToUpper(s)
}

// Validate probes secret by generating one throwaway code. It persists
// nothing; callers decide separately whether to keep the secret.
func Validate(secret string) error {
	if secret == "" {
		return ErrInvalidSecret
	}
	if _, err := totp.GenerateCode(secret, time.Now()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return nil
}

// Code returns the 6-digit code for secret at the given instant. The result
// depends only on (secret, floor(now/30)), so any two calls within one
// 30-second window agree, and it matches what third-party authenticator
// apps show for the same secret.
func Code(secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrInvalidSecret
	}
	code, err := totp.GenerateCode(secret, now)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return code, nil
}

// Remaining returns how many seconds of the current 30-second window are
// left, always in [1, 30]. It wraps back to 30 exactly at each window
// boundary.
func Remaining(now time.Time) int {
	return Period - int(now.Unix()%Period)
}

// URI builds the otpauth://totp/ enrollment URI for a secret, suitable for
// rendering as a QR code and scanning into another authenticator app.
func URI(issuer, account, secret string) string {
	label := url.PathEscape(account)
	if issuer != "" {
		label = url.PathEscape(issuer) + ":" + label
	}

	v := url.Values{}
	v.Set("secret", secret)
	if issuer != "" {
		v.Set("issuer", issuer)
	}

	return "otpauth://totp/" + label + "?" + v.Encode()
}
