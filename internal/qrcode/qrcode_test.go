package qrcode

import (
	"bytes"
	"image/png"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// TestEncodeProducesPNG ensures the output is a decodable PNG of the
// requested size.
func TestEncodeProducesPNG(t *testing.T) {
	data, err := Encode("AB12CD34", 256)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Fatal("output does not start with the PNG signature")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output does not decode as PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Fatalf("image is %dx%d, want 256x256", b.Dx(), b.Dy())
	}
}

// TestEncodeDefaultsSize ensures non-positive sizes fall back to DefaultSize.
func TestEncodeDefaultsSize(t *testing.T) {
	data, err := Encode("AB12CD34", 0)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output does not decode as PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != DefaultSize {
		t.Fatalf("image width = %d, want %d", b.Dx(), DefaultSize)
	}
}

// TestEncodeRejectsEmptyContent ensures empty tokens are refused.
func TestEncodeRejectsEmptyContent(t *testing.T) {
	if _, err := Encode("", 256); err == nil {
		t.Fatal("expected error for empty content")
	}
}
