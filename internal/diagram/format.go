package diagram

import "fmt"

// ImageFormat selects the renderer output format.
type ImageFormat string

const (
	FormatPNG ImageFormat = "png"
	FormatSVG ImageFormat = "svg"
)

// ParseImageFormat validates a wire/flag value into an ImageFormat.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch ImageFormat(s) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("invalid image format %q: must be png or svg", s)
}

// PathSegment is the renderer URL path segment for the format.
func (f ImageFormat) PathSegment() string {
	return string(f)
}

// MIME returns the media type of the rendered output.
func (f ImageFormat) MIME() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Extension returns the file extension, without the dot.
func (f ImageFormat) Extension() string {
	return string(f)
}
