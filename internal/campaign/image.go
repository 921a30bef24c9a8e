package campaign

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Image is an encoded image with an explicit media-type tag. Bytes
// never move through the system untagged.
type Image struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

func (img Image) Empty() bool {
	return len(img.Data) == 0
}

func (img Image) DataURL() string {
	mimeType := strings.TrimSpace(img.MimeType)
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(img.Data))
}

// ParseDataURL decodes a data: URL into a tagged image. Bare base64
// without a data: prefix is accepted and tagged with fallbackMime.
func ParseDataURL(value, fallbackMime string) (Image, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Image{}, errors.New("empty data url")
	}

	mimeType := strings.TrimSpace(fallbackMime)
	if mimeType == "" {
		mimeType = "image/png"
	}

	payload := value
	if strings.HasPrefix(value, "data:") {
		parts := strings.SplitN(value, ",", 2)
		if len(parts) != 2 {
			return Image{}, errors.New("invalid data url")
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		if m := strings.TrimSpace(strings.Split(meta, ";")[0]); m != "" {
			mimeType = m
		}
		payload = parts[1]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("decode base64: %w", err)
	}

	return Image{MimeType: mimeType, Data: data}, nil
}
