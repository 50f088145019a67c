package qr_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"naulify_agent/internal/qr"
)

func TestPaymentURL(t *testing.T) {
	cases := map[string]string{
		"":                          "https://naulify.com/pay/veh-1",
		"https://pay.example.com/":  "https://pay.example.com/veh-1",
		"https://pay.example.com/x": "https://pay.example.com/x/veh-1",
	}
	for base, want := range cases {
		if got := qr.PaymentURL(base, "veh-1"); got != want {
			t.Errorf("PaymentURL(%q) = %q, want %q", base, got, want)
		}
	}
}

func TestRender_SizeAndPalette(t *testing.T) {
	img, err := qr.Render(qr.PaymentURL("", "veh-1"), 300, 200)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 200 {
		t.Fatalf("bounds = %v", b)
	}

	// The corner sits in the quiet zone; a finder pattern is dark somewhere.
	if img.ColorIndexAt(0, 0) != 0 {
		t.Fatal("corner should be white")
	}
	dark := 0
	for _, px := range img.Pix {
		if px == 1 {
			dark++
		}
	}
	if dark == 0 || dark == len(img.Pix) {
		t.Fatalf("dark pixels = %d of %d", dark, len(img.Pix))
	}
}

func TestRender_InvalidSize(t *testing.T) {
	if _, err := qr.Render("x", 0, 10); !errors.Is(err, qr.ErrInvalidSize) {
		t.Fatalf("got %v", err)
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := qr.WritePNG(&buf, "https://naulify.com/pay/veh-1", 128); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}
