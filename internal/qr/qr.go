// Package qr renders enrollment URIs as QR code images so an account can
// be scanned into another authenticator app. Decoding scanned images is
// someone else's job; this package only generates.
package qr

import (
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is a side length in pixels that scans reliably on phones.
const DefaultSize = 256

// PNG encodes content as a QR code PNG with medium error correction.
// A size of zero or less falls back to DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("qr: empty content")
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
