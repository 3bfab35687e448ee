// Package qrcode renders scan tokens as QR images. Callers treat the output
// as opaque bytes; nothing here is ever decoded by the service.
package qrcode

import (
	"errors"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the rendered edge length in pixels.
const DefaultSize = 300

// Encode renders content as a size x size PNG.
func Encode(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, errors.New("qrcode: empty content")
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qr.Encode(content, qr.Medium, size)
}
