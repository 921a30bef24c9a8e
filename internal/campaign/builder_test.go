package campaign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCampaignRequest_ResearchToggle(t *testing.T) {
	// Research is granted iff the brand has a site URL, for any
	// combination of the other inputs.
	objectives := []string{"Launch eco sneakers", "Promote a coffee subscription", ""}
	siteURLs := []string{"", "   ", "https://x.com", "https://brand.example/shop"}
	personalities := []string{"", "bold minimalist"}

	for _, objective := range objectives {
		for _, siteURL := range siteURLs {
			for _, personality := range personalities {
				req := BuildCampaignRequest(objective, BrandProfile{
					SiteURL:     siteURL,
					Personality: personality,
				})

				wantResearch := strings.TrimSpace(siteURL) != ""
				if wantResearch {
					require.Len(t, req.Tools, 1, "siteURL=%q", siteURL)
					assert.NotNil(t, req.Tools[0].GoogleSearch)
				} else {
					assert.Empty(t, req.Tools, "siteURL=%q", siteURL)
				}
			}
		}
	}
}

func TestBuildCampaignRequest_Prompt(t *testing.T) {
	req := BuildCampaignRequest("Launch eco sneakers", BrandProfile{
		SiteURL:     "https://x.com",
		Personality: "bold minimalist",
	})

	assert.Contains(t, req.Prompt, "Launch eco sneakers")
	assert.Contains(t, req.Prompt, "https://x.com")
	assert.Contains(t, req.Prompt, "bold minimalist")
	assert.Contains(t, req.Prompt, "Return 3 distinct ad variants")
}

func TestBuildCampaignRequest_AbsentBrandFields(t *testing.T) {
	req := BuildCampaignRequest("Sell socks", BrandProfile{})

	assert.Contains(t, req.Prompt, "Website: Not provided")
	assert.Contains(t, req.Prompt, "Brand Values: Not provided")
}

func TestBuildCampaignRequest_Schema(t *testing.T) {
	req := BuildCampaignRequest("anything", BrandProfile{})

	require.NotNil(t, req.Schema)
	assert.ElementsMatch(t, []string{"productName", "targetAudience", "variants"}, req.Schema.Required)

	variants := req.Schema.Properties["variants"]
	require.NotNil(t, variants)
	require.NotNil(t, variants.Items)
	assert.ElementsMatch(t,
		[]string{"headline", "bodyCopy", "imagePrompt", "callToAction"},
		variants.Items.Required,
	)
}
