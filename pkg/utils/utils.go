package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	DecodeImageDataURL(dataURL string) ([]byte, string, error)
}

type utils struct {
	maxImageSize int64
}

func New() IUtils {
	return &utils{
		maxImageSize: 5 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// DecodeImageDataURL decodes a base64 image data-URL (data:image/...;base64,)
// and returns the raw bytes plus the declared content type. The payload must
// decode as an actual image and stay under the size cap.
func (u *utils) DecodeImageDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, "", errors.New("not an image data URL")
	}

	sepIdx := strings.Index(dataURL, ";base64,")
	if sepIdx < 0 {
		return nil, "", errors.New("data URL is not base64 encoded")
	}

	contentType := dataURL[len("data:"):sepIdx]
	payload := dataURL[sepIdx+len(";base64,"):]

	if int64(len(payload)) > u.maxImageSize*4/3 {
		return nil, "", errors.New("image exceeds size limit")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.New("invalid base64 image payload")
	}

	if int64(len(data)) > u.maxImageSize {
		return nil, "", errors.New("image exceeds size limit")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, "", errors.New("payload is not a decodable image")
	}

	return data, contentType, nil
}
