package config

// Specification of requested static preview image.
// ENUM(none, png, jpeg)
type PreviewFormat int

func (p PreviewFormat) Ext() string {
	switch p {
	case PreviewFormatPng:
		return ".png"
	case PreviewFormatJpeg:
		return ".jpg"
	default:
		// this should never happen
		panic("preview was not requested")
	}
}
