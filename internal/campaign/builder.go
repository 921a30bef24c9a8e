package campaign

import (
	"strings"

	"adstudio/internal/gemini"
)

// Request is the fully built generation request for one campaign: the
// prompt text, the structural contract the service must honor, and the
// capability toggles. Building it performs no network calls.
type Request struct {
	Prompt string
	Schema *gemini.Schema
	Tools  []gemini.Tool
}

// BuildCampaignRequest embeds the objective and brand attributes into
// the strategist instruction template. Live web research is granted if
// and only if the brand carries a site URL.
func BuildCampaignRequest(objective string, brand BrandProfile) Request {
	var b strings.Builder
	b.Grow(512)

	b.WriteString("You are a world-class Marketing Strategist.\n")
	b.WriteString("Brand Context:\n")
	b.WriteString("- Website: " + orNotProvided(brand.SiteURL) + "\n")
	b.WriteString("- Brand Values: " + orNotProvided(brand.Personality) + "\n\n")
	b.WriteString("Generate a Facebook ad campaign strategy for: " + strings.TrimSpace(objective) + ".\n")
	b.WriteString("Ensure the tone matches the brand's website and description.\n")
	b.WriteString("Return 3 distinct ad variants.")

	req := Request{
		Prompt: b.String(),
		Schema: responseSchema(),
	}

	if strings.TrimSpace(brand.SiteURL) != "" {
		req.Tools = []gemini.Tool{{GoogleSearch: &gemini.GoogleSearch{}}}
	}

	return req
}

func orNotProvided(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Not provided"
	}
	return value
}

func responseSchema() *gemini.Schema {
	variant := &gemini.Schema{
		Type: gemini.TypeObject,
		Properties: map[string]*gemini.Schema{
			"headline":     {Type: gemini.TypeString, Description: "Max 40 chars high-impact headline"},
			"bodyCopy":     {Type: gemini.TypeString, Description: "Engaging primary text for a Facebook ad"},
			"imagePrompt":  {Type: gemini.TypeString, Description: "Visual description for AI image generation"},
			"callToAction": {Type: gemini.TypeString, Description: "Short CTA like 'Shop Now'"},
		},
		Required: []string{"headline", "bodyCopy", "imagePrompt", "callToAction"},
	}

	return &gemini.Schema{
		Type: gemini.TypeObject,
		Properties: map[string]*gemini.Schema{
			"productName":    {Type: gemini.TypeString},
			"targetAudience": {Type: gemini.TypeString},
			"variants":       {Type: gemini.TypeArray, Items: variant},
		},
		Required: []string{"productName", "targetAudience", "variants"},
	}
}
