package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstudio/internal/gemini"
)

const wellFormedReply = `{
  "productName": "EcoStride",
  "targetAudience": "Urban commuters who care about sustainability",
  "variants": [
    {"headline": "Walk Lighter", "bodyCopy": "Shoes from ocean plastic.", "imagePrompt": "sneakers on mossy stone", "callToAction": "Shop Now"},
    {"headline": "Step Green", "bodyCopy": "Every pair plants a tree.", "imagePrompt": "sneakers in a forest", "callToAction": "Learn More"},
    {"headline": "Run Clean", "bodyCopy": "Carbon-neutral comfort.", "imagePrompt": "runner at sunrise", "callToAction": "Buy Today"}
  ]
}`

func webChunk(title, uri string) gemini.GroundingChunk {
	return gemini.GroundingChunk{Web: &gemini.WebSource{Title: title, URI: uri}}
}

func TestNormalize_WellFormed(t *testing.T) {
	data, err := Normalize(wellFormedReply, nil)
	require.NoError(t, err)

	assert.Equal(t, "EcoStride", data.ProductName)
	require.Len(t, data.Variants, 3)
	assert.Equal(t, "Walk Lighter", data.Variants[0].Headline)

	// No chunks means the field is absent, not empty.
	assert.Nil(t, data.GroundingURLs)
}

func TestNormalize_CodeFencedReply(t *testing.T) {
	data, err := Normalize("```json\n"+wellFormedReply+"\n```", nil)
	require.NoError(t, err)
	assert.Equal(t, "EcoStride", data.ProductName)
}

func TestNormalize_GroundingDedupLastWins(t *testing.T) {
	chunks := []gemini.GroundingChunk{
		webChunk("T1", "https://a.example"),
		webChunk("T2", "https://b.example"),
		webChunk("T3", "https://a.example"),
		webChunk("T4", "https://c.example"),
	}

	data, err := Normalize(wellFormedReply, chunks)
	require.NoError(t, err)

	require.Len(t, data.GroundingURLs, 3)
	assert.Equal(t, []GroundingSource{
		{Title: "T3", URI: "https://a.example"}, // later occurrence replaced T1
		{Title: "T2", URI: "https://b.example"},
		{Title: "T4", URI: "https://c.example"},
	}, data.GroundingURLs)
}

func TestNormalize_GroundingDefaults(t *testing.T) {
	chunks := []gemini.GroundingChunk{
		webChunk("", "https://a.example"),
		{Web: &gemini.WebSource{Title: "no uri"}},
		{Web: nil},
	}

	data, err := Normalize(wellFormedReply, chunks)
	require.NoError(t, err)

	require.Len(t, data.GroundingURLs, 1)
	assert.Equal(t, "Source", data.GroundingURLs[0].Title)
}

func TestNormalize_NoUsableURIMeansAbsent(t *testing.T) {
	chunks := []gemini.GroundingChunk{
		{Web: &gemini.WebSource{Title: "no uri at all"}},
	}

	data, err := Normalize(wellFormedReply, chunks)
	require.NoError(t, err)
	assert.Nil(t, data.GroundingURLs)
}

func TestNormalize_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty body", ""},
		{"not json", "the model wrote prose instead"},
		{"missing variants", `{"productName": "X", "targetAudience": "Y"}`},
		{"empty variants", `{"productName": "X", "targetAudience": "Y", "variants": []}`},
		{
			"variant missing headline",
			`{"productName": "X", "targetAudience": "Y", "variants": [
				{"bodyCopy": "b", "imagePrompt": "i", "callToAction": "c"}
			]}`,
		},
		{"missing product name", `{"targetAudience": "Y", "variants": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Normalize(tt.raw, nil)
			require.ErrorIs(t, err, ErrMalformedResponse)

			// Never a partially populated campaign alongside the error.
			assert.Equal(t, CampaignData{}, data)
		})
	}
}
