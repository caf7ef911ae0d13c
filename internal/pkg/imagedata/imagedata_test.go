package imagedata

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func TestDecode_DataURI(t *testing.T) {
	raw := pngBytes(t)
	img, err := Decode("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))

	require.NoError(t, err)
	assert.Equal(t, raw, img.Data)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, ".png", img.Ext)
}

func TestDecode_BareBase64(t *testing.T) {
	img, err := Decode(base64.StdEncoding.EncodeToString(pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode("   ")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode("data:image/png,not-base64-header")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode("!!!not base64!!!")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode(base64.StdEncoding.EncodeToString([]byte("plain text, not an image")))
	assert.ErrorIs(t, err, ErrUnsupported)
}
