package campaign

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("img"))

	tests := []struct {
		name     string
		value    string
		fallback string
		wantMime string
		wantErr  bool
	}{
		{"tagged png", "data:image/png;base64," + payload, "", "image/png", false},
		{"tagged jpeg", "data:image/jpeg;base64," + payload, "image/png", "image/jpeg", false},
		{"bare base64 uses fallback", payload, "image/webp", "image/webp", false},
		{"bare base64 default fallback", payload, "", "image/png", false},
		{"empty", "", "", "", true},
		{"data prefix without comma", "data:image/png;base64", "", "", true},
		{"invalid base64", "data:image/png;base64,!!!", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ParseDataURL(tt.value, tt.fallback)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, img.MimeType)
			assert.Equal(t, []byte("img"), img.Data)
		})
	}
}

func TestImageDataURLRoundTrip(t *testing.T) {
	img := Image{MimeType: "image/png", Data: []byte{1, 2, 3}}

	parsed, err := ParseDataURL(img.DataURL(), "")
	require.NoError(t, err)
	assert.Equal(t, img, parsed)
}

func TestNormalizeAspectRatio(t *testing.T) {
	assert.Equal(t, AspectSquare, NormalizeAspectRatio(""))
	assert.Equal(t, AspectSquare, NormalizeAspectRatio("4:3"))
	assert.Equal(t, AspectLandscape, NormalizeAspectRatio("16:9"))
	assert.Equal(t, AspectPortrait, NormalizeAspectRatio(" 9:16 "))
}

func TestNormalizeImageSize(t *testing.T) {
	assert.Equal(t, Size1K, NormalizeImageSize(""))
	assert.Equal(t, Size1K, NormalizeImageSize("8K"))
	assert.Equal(t, Size2K, NormalizeImageSize("2k"))
	assert.Equal(t, Size4K, NormalizeImageSize("4K"))
}
