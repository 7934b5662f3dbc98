package diagram

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// MaxImageDimension is the per-axis ceiling for validated PNG output.
const MaxImageDimension = 8192

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47}

var (
	ErrWrongFormat      = errors.New("image format is not PNG")
	ErrInvalidPNGHeader = errors.New("invalid PNG header")
	ErrEmptyImage       = errors.New("image data is empty")
)

// DimensionsError reports an image exceeding MaxImageDimension on an axis.
type DimensionsError struct {
	Width, Height int
}

func (e *DimensionsError) Error() string {
	return fmt.Sprintf("image too large: %dx%d (limit %dx%d)",
		e.Width, e.Height, MaxImageDimension, MaxImageDimension)
}

// Image is a rendered diagram with its metadata.
type Image struct {
	DocumentID  string      `json:"document_id"`
	Format      ImageFormat `json:"format"`
	Data        []byte      `json:"data"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// ValidatePNG checks that the image is a plausible PNG within the output
// ceiling: PNG magic present, non-empty data, dimensions at most
// MaxImageDimension per axis.
func (img Image) ValidatePNG() error {
	if img.Format != FormatPNG {
		return ErrWrongFormat
	}
	if len(img.Data) == 0 {
		return ErrEmptyImage
	}
	if !bytes.HasPrefix(img.Data, pngHeader) {
		return ErrInvalidPNGHeader
	}
	if img.Width > MaxImageDimension || img.Height > MaxImageDimension {
		return &DimensionsError{Width: img.Width, Height: img.Height}
	}
	return nil
}

// DataURL renders the image as a base64 data URL for direct embedding in an
// img src attribute.
func (img Image) DataURL() string {
	return "data:" + img.Format.MIME() + ";base64," +
		base64.StdEncoding.EncodeToString(img.Data)
}
