package images

import "testing"

func TestRasterize(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/><text x="1" y="1">ignored</text></svg>`)

	tests := []struct {
		name  string
		width int
		w, h  int
	}{
		{"intrinsic", 0, 100, 50},
		{"scale up", 200, 200, 100},
		{"scale down", 50, 50, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Rasterize(svg, tt.width)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.Bounds().Dx() != tt.w || img.Bounds().Dy() != tt.h {
				t.Fatalf("unexpected bounds: %v", img.Bounds())
			}
		})
	}
}

func TestRasterize_Clamp(t *testing.T) {
	saved := maxRasterDim
	maxRasterDim = 64
	t.Cleanup(func() { maxRasterDim = saved })

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 100"><rect width="400" height="100"/></svg>`)
	img, err := Rasterize(svg, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 16 {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}
}

func TestRasterize_Invalid(t *testing.T) {
	if _, err := Rasterize([]byte("not svg at all <"), 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestNormalizePaint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`<polygon fill="transparent" stroke="transparent"/>`, `<polygon fill="none" stroke="none"/>`},
		{`<g style="fill: transparent"/>`, `<g style="fill: none"/>`},
		{`<text fill="#000">transparent</text>`, `<text fill="#000">transparent</text>`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := string(NormalizePaint([]byte(tt.in))); got != tt.want {
				t.Errorf("NormalizePaint() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRasterize_GraphvizBackground(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00"><g id="graph0" class="graph" transform="scale(1 1) rotate(0) translate(4 112)"><polygon fill="transparent" stroke="transparent" points="-4,4 -4,-112 58,-112 58,4 -4,4"/></g></svg>`)
	img, err := Rasterize(svg, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 62 || img.Bounds().Dy() != 116 {
		t.Fatalf("unexpected bounds: %v", img.Bounds())
	}
}
