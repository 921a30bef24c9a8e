package campaign

import (
	"encoding/base64"
	"strings"

	"adstudio/internal/gemini"
)

const logoIntegrationInstruction = " SUBTLE INTEGRATION: Incorporate the brand identity from the provided asset/logo into the scene composition."

// BuildSynthesisParts assembles the multimodal request for a new ad
// visual: one text part carrying the photography directive, plus, when
// the brand ships a logo, a second inline part with the asset and the
// integration instruction appended to the text.
func BuildSynthesisParts(imagePrompt, headline, productName string, brand BrandProfile) []gemini.Part {
	var b strings.Builder
	b.Grow(512)

	b.WriteString(`PRO PHOTO: A cinematic, high-end social media advertisement for "` + strings.TrimSpace(productName) + `".` + "\n")
	b.WriteString("SUBJECT: " + strings.TrimSpace(imagePrompt) + ".\n")
	b.WriteString("IDENTITY: " + strings.TrimSpace(brand.Personality) + ".\n")
	b.WriteString("STYLE: Commercial photography, studio lighting, professional retouching.\n")
	b.WriteString(`TYPOGRAPHY: Bold text overlay saying "` + strings.TrimSpace(headline) + `".` + "\n")
	b.WriteString("MANDATORY: High contrast, vibrant colors, premium marketing aesthetic. NO blurry backgrounds, sharp focus.")

	parts := []gemini.Part{{Text: b.String()}}

	if brand.Logo != nil && !brand.Logo.Empty() {
		parts[0].Text += logoIntegrationInstruction
		parts = append(parts, gemini.Part{
			InlineData: &gemini.Blob{
				Data:     base64.StdEncoding.EncodeToString(brand.Logo.Data),
				MimeType: brand.Logo.MimeType,
			},
		})
	}

	return parts
}

// BuildRefinementParts assembles the edit request: the current image
// first, then the instruction with its preservation constraints. The
// caller threads the latest image forward; nothing is kept here.
func BuildRefinementParts(current Image, instruction, headline, productName string) []gemini.Part {
	var b strings.Builder
	b.Grow(256)

	b.WriteString(`AD REFINEMENT: Modify the existing campaign visual for "` + strings.TrimSpace(productName) + `".` + "\n")
	b.WriteString("REQUEST: " + strings.TrimSpace(instruction) + ".\n")
	b.WriteString(`PRESERVE: The headline text "` + strings.TrimSpace(headline) + `" and the professional composition.` + "\n")
	b.WriteString("OUTPUT: A high-quality revised marketing asset.")

	return []gemini.Part{
		{InlineData: &gemini.Blob{
			Data:     base64.StdEncoding.EncodeToString(current.Data),
			MimeType: current.MimeType,
		}},
		{Text: b.String()},
	}
}
