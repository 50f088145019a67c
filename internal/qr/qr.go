// Package qr renders the payment code commuters scan to pay a vehicle's fare.
package qr

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultBaseURL is where payment links point unless configured otherwise.
const DefaultBaseURL = "https://naulify.com/pay"

var ErrInvalidSize = errors.New("qr: width and height must be positive")

var palette = color.Palette{color.White, color.Black}

// PaymentURL is the link encoded in a vehicle's QR code.
func PaymentURL(base, vehicleID string) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + vehicleID
}

// Render encodes payload and scales the module grid to width x height. The
// quiet zone is part of the grid; set pixels are black.
func Render(payload string, width, height int) (*image.Paletted, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr: encode payload: %w", err)
	}
	bitmap := code.Bitmap()
	modules := len(bitmap)

	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	for y := 0; y < height; y++ {
		row := bitmap[y*modules/height]
		for x := 0; x < width; x++ {
			if row[x*modules/width] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img, nil
}

// WritePNG renders payload as a square PNG of size pixels.
func WritePNG(w io.Writer, payload string, size int) error {
	img, err := Render(payload, size, size)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
