package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"tracediag/config"
)

// Encode serializes a rendered preview in the requested format. Images wider
// than width are downscaled first, width 0 keeps the size.
func Encode(img image.Image, format config.PreviewFormat, width, quality int) ([]byte, error) {
	if width > 0 && img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case config.PreviewFormatPng:
		err = imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case config.PreviewFormatJpeg:
		err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return nil, fmt.Errorf("unsupported preview format %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to encode %s preview: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Preview rasterizes SVG data and encodes the result.
func Preview(svgData []byte, format config.PreviewFormat, width, quality int) ([]byte, error) {
	img, err := Rasterize(svgData, width)
	if err != nil {
		return nil, fmt.Errorf("unable to rasterize preview: %w", err)
	}
	return Encode(img, format, width, quality)
}
