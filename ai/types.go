package ai

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
)

// DefaultImageMIMEType is used when the content type of an image cannot be detected.
const DefaultImageMIMEType = "image/jpeg"

// Image is an encoded picture sent to a vision model.
type Image struct {
	MIMEType string
	Data     []byte
}

// NewImage wraps raw bytes, sniffing the MIME type from the content.
func NewImage(data []byte) Image {
	mime := http.DetectContentType(data)
	if len(mime) < 6 || mime[:6] != "image/" {
		mime = DefaultImageMIMEType
	}
	return Image{MIMEType: mime, Data: data}
}

// ReadImage loads an image from disk.
func ReadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("reading image %s: %w", path, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("image %s is empty", path)
	}
	return NewImage(data), nil
}

// DataURL renders the image as a base64 data URL.
func (i Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = DefaultImageMIMEType
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}
