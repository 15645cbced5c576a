// internal/services/storage_service_test.go
package services

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUpload satisfies multipart.File over an in-memory buffer, optionally
// failing the rewind after the signature read.
type stubUpload struct {
	*bytes.Reader
	seekErr error
}

func newStubUpload(content []byte, seekErr error) *stubUpload {
	return &stubUpload{Reader: bytes.NewReader(content), seekErr: seekErr}
}

func (f *stubUpload) Seek(offset int64, whence int) (int64, error) {
	if f.seekErr != nil {
		return 0, f.seekErr
	}
	return f.Reader.Seek(offset, whence)
}

func (f *stubUpload) Close() error { return nil }

func TestIsValidImageType(t *testing.T) {
	svc := &StorageService{}

	cases := []struct {
		name   string
		header []byte
		valid  bool
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, true},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, true},
		{"gif87a", []byte("GIF87a"), true},
		{"gif89a", []byte("GIF89a"), true},
		{"webp", append([]byte("RIFF"), append([]byte{0x10, 0x00, 0x00, 0x00}, []byte("WEBP")...)...), true},
		{"pdf", []byte("%PDF-1.7"), false},
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04}, false},
		{"riff but not webp", append([]byte("RIFF"), append([]byte{0x10, 0x00, 0x00, 0x00}, []byte("WAVE")...)...), false},
		{"empty", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buffer := make([]byte, 512)
			copy(buffer, tc.header)
			assert.Equal(t, tc.valid, svc.isValidImageType(buffer))
		})
	}
}

func TestValidateImage(t *testing.T) {
	svc := &StorageService{}

	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...)
	file := newStubUpload(jpeg, nil)
	require.NoError(t, svc.ValidateImage(file))

	// The signature read consumed bytes; a successful validation must have
	// rewound the file so the upload starts from the beginning.
	pos, err := file.Reader.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	notAnImage := newStubUpload(append([]byte("%PDF-1.7"), make([]byte, 64)...), nil)
	assert.Error(t, svc.ValidateImage(notAnImage))
}

func TestValidateImage_FailedRewind(t *testing.T) {
	svc := &StorageService{}

	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...)
	file := newStubUpload(jpeg, errors.New("seek: broken pipe"))

	// A valid signature is not enough: if the rewind fails the upload would
	// read a truncated body, so validation must fail instead.
	err := svc.ValidateImage(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rewind")
}
