package campaign

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"adstudio/internal/gemini"
)

// The same contract the builder attaches to the request, restated as
// JSON Schema so a non-conforming reply is rejected before decoding.
const responseContract = `{
  "type": "object",
  "properties": {
    "productName": {"type": "string"},
    "targetAudience": {"type": "string"},
    "variants": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "properties": {
          "headline": {"type": "string"},
          "bodyCopy": {"type": "string"},
          "imagePrompt": {"type": "string"},
          "callToAction": {"type": "string"}
        },
        "required": ["headline", "bodyCopy", "imagePrompt", "callToAction"]
      }
    }
  },
  "required": ["productName", "targetAudience", "variants"]
}`

var contractLoader = gojsonschema.NewStringLoader(responseContract)

// Normalize parses a raw generation reply into CampaignData and folds
// the grounding chunks into a deduplicated source list. A reply that
// fails the contract yields ErrMalformedResponse and nothing else.
func Normalize(rawText string, chunks []gemini.GroundingChunk) (CampaignData, error) {
	raw := stripCodeFence(rawText)
	if raw == "" {
		return CampaignData{}, fmt.Errorf("%w: empty response body", ErrMalformedResponse)
	}

	result, err := gojsonschema.Validate(contractLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return CampaignData{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			violations = append(violations, e.String())
		}
		return CampaignData{}, fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(violations, "; "))
	}

	var data CampaignData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return CampaignData{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	data.GroundingURLs = dedupSources(chunks)
	return data, nil
}

// dedupSources keys chunks by URI. Later occurrences of a URI replace
// the stored source but keep the position the key first appeared at.
// Chunks without a web URI are skipped; no usable URI means nil, so the
// field stays absent rather than empty.
func dedupSources(chunks []gemini.GroundingChunk) []GroundingSource {
	var order []string
	byURI := make(map[string]GroundingSource, len(chunks))

	for _, chunk := range chunks {
		if chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		if uri == "" {
			continue
		}

		title := strings.TrimSpace(chunk.Web.Title)
		if title == "" {
			title = "Source"
		}

		if _, seen := byURI[uri]; !seen {
			order = append(order, uri)
		}
		byURI[uri] = GroundingSource{Title: title, URI: uri}
	}

	if len(order) == 0 {
		return nil
	}

	out := make([]GroundingSource, 0, len(order))
	for _, uri := range order {
		out = append(out, byURI[uri])
	}
	return out
}

// stripCodeFence tolerates replies wrapped in a markdown fence, which
// the model emits when schema-constrained output is unavailable.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}

	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
