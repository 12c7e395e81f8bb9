package images

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"testing"

	"tracediag/config"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		format config.PreviewFormat
		width  int
		kind   string
		w, h   int
	}{
		{"png keeps size", config.PreviewFormatPng, 0, "png", 40, 20},
		{"png downscales", config.PreviewFormatPng, 20, "png", 20, 10},
		{"png never upscales", config.PreviewFormatPng, 80, "png", 40, 20},
		{"jpeg", config.PreviewFormatJpeg, 0, "jpeg", 40, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(solid(40, 20), tt.format, tt.width, 85)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			img, kind, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("unable to decode result: %v", err)
			}
			if kind != tt.kind {
				t.Errorf("format = %s, want %s", kind, tt.kind)
			}
			if img.Bounds().Dx() != tt.w || img.Bounds().Dy() != tt.h {
				t.Errorf("bounds = %v, want %dx%d", img.Bounds(), tt.w, tt.h)
			}
		})
	}
}

func TestEncode_None(t *testing.T) {
	if _, err := Encode(solid(1, 1), config.PreviewFormatNone, 0, 85); err == nil {
		t.Fatal("expected error")
	}
}

func TestPreview(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="60pt" height="30pt" viewBox="0 0 60 30"><g><rect width="60" height="30" fill="#336699"/></g></svg>`)
	data, err := Preview(svg, config.PreviewFormatPng, 0, 0)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unable to decode preview: %v", err)
	}
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 30 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
