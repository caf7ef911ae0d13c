package imagedata

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const MaxSize = 10 * 1024 * 1024 // 10 MB

var (
	ErrEmpty       = errors.New("image is empty")
	ErrMalformed   = errors.New("image is not valid base64")
	ErrTooLarge    = errors.New("image is too large")
	ErrUnsupported = errors.New("unsupported image type")
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type Image struct {
	Data     []byte
	MimeType string
	Ext      string
}

// Decode accepts either a data URI ("data:image/png;base64,....") or bare
// base64 and returns the decoded bytes with their sniffed type.
func Decode(encoded string) (*Image, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrEmpty
	}

	if strings.HasPrefix(encoded, "data:") {
		header, payload, ok := strings.Cut(encoded, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, ErrMalformed
		}
		encoded = payload
	}

	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxSize+3 {
		return nil, ErrTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, ErrMalformed
		}
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !allowedMimeTypes[mt.String()] {
		return nil, ErrUnsupported
	}

	return &Image{Data: data, MimeType: mt.String(), Ext: mt.Extension()}, nil
}
