package storage

import (
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrUnsupportedType = errors.New("file type is not allowed")
)

// Allowed content type sets
var (
	ImageTypes    = []string{"image/jpeg", "image/png"}
	DocumentTypes = []string{"image/jpeg", "image/png", "application/pdf"}
)

// Inspection is the sniffed identity of an upload
type Inspection struct {
	ContentType string
	Extension   string
	Size        int64
}

// Inspect detects the content type of data from its bytes, never from the
// client supplied name or header, and checks it against allowed and maxBytes.
func Inspect(data []byte, size, maxBytes int64, allowed []string) (*Inspection, error) {
	if size < int64(len(data)) {
		size = int64(len(data))
	}
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if maxBytes > 0 && size > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, maxBytes)
	}

	detected := mimetype.Detect(data)
	for _, want := range allowed {
		if detected.Is(want) {
			return &Inspection{ContentType: want, Extension: detected.Extension(), Size: size}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, detected.String())
}
