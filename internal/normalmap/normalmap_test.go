package normalmap

import (
	"bytes"
	"image/png"
	"testing"

	"Hexaplanet/internal/noise"
)

func TestGenerate(t *testing.T) {
	s, err := noise.NewSampler(noise.Options{Lanes: 4})
	if err != nil {
		t.Fatalf("NewSampler failed: %v", err)
	}
	defer s.Close()

	img, err := Generate(s, 8, DefaultChannels(10))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 8 || b.Dy() != 48 {
		t.Fatalf("Expected 8x48 image, got %dx%d", b.Dx(), b.Dy())
	}

	// tilts stay under 0.5 rad, so every normal leans toward +Z
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if px := img.RGBAAt(x, y); px.B < 200 {
				t.Fatalf("pixel (%d,%d) has blue %d, expected a mostly +Z normal", x, y, px.B)
			}
		}
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if decoded.Bounds() != b {
		t.Errorf("Expected bounds %v, got %v", b, decoded.Bounds())
	}
}

func TestGenerateRejectsBadSize(t *testing.T) {
	s, err := noise.NewSampler(noise.Options{})
	if err != nil {
		t.Fatalf("NewSampler failed: %v", err)
	}
	defer s.Close()

	if _, err := Generate(s, 0, DefaultChannels(1)); err == nil {
		t.Error("Expected error for size 0")
	}
}
