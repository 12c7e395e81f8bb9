package images

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"regexp"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// fallbackSize is used when the document does not declare a usable viewBox.
const fallbackSize = 1024

// maxRasterDim caps both pixel dimensions of a preview. Composed diagrams
// of long traces get wide quickly and the RGBA buffer grows with the square.
var maxRasterDim = 8192

// transparentRe matches fill and stroke paints oksvg does not understand.
// Graphviz uses "transparent" for the background of every layout.
var transparentRe = regexp.MustCompile(`((?:fill|stroke)\s*[=:]\s*["']?)transparent(["']?)`)

// NormalizePaint replaces "transparent" fill and stroke values with "none".
func NormalizePaint(svgData []byte) []byte {
	return transparentRe.ReplaceAll(svgData, []byte("${1}none${2}"))
}

// Rasterize renders SVG data onto a white RGBA canvas.
//
// When width is 0 the viewBox size is used, otherwise the image is scaled to
// the requested width keeping aspect ratio. Elements oksvg does not know
// (text among them) are skipped rather than failing the whole preview.
func Rasterize(svgData []byte, width int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(NormalizePaint(svgData)), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}

	intrW := int(math.Ceil(icon.ViewBox.W))
	intrH := int(math.Ceil(icon.ViewBox.H))
	if intrW <= 0 {
		intrW = fallbackSize
	}
	if intrH <= 0 {
		intrH = fallbackSize
	}

	w, h := intrW, intrH
	if width > 0 {
		w = width
		h = int(math.Round(float64(w) * float64(intrH) / float64(intrW)))
	}
	w, h = clamp(max(w, 1), max(h, 1))

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

func clamp(w, h int) (int, int) {
	if w <= maxRasterDim && h <= maxRasterDim {
		return w, h
	}
	s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
	return max(int(math.Round(float64(w)*s)), 1), max(int(math.Round(float64(h)*s)), 1)
}
