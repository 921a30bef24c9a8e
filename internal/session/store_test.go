package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstudio/internal/campaign"
)

func TestBrandRoundTrip(t *testing.T) {
	store := NewStore(Options{})

	assert.Equal(t, campaign.BrandProfile{}, store.Brand(1))

	brand := campaign.BrandProfile{SiteURL: "https://ecostride.example", Personality: "bold"}
	store.SetBrand(1, brand)
	assert.Equal(t, brand, store.Brand(1))

	// Sessions are isolated per user.
	assert.Equal(t, campaign.BrandProfile{}, store.Brand(2))
}

func TestSetLogoKeepsBrandFields(t *testing.T) {
	store := NewStore(Options{})
	store.SetBrand(1, campaign.BrandProfile{SiteURL: "https://ecostride.example"})

	logo := campaign.Image{MimeType: "image/png", Data: []byte{1, 2}}
	store.SetLogo(1, logo)

	brand := store.Brand(1)
	assert.Equal(t, "https://ecostride.example", brand.SiteURL)
	require.NotNil(t, brand.Logo)
	assert.Equal(t, logo, *brand.Logo)
}

func TestSetCampaignDropsStaleVisuals(t *testing.T) {
	store := NewStore(Options{})

	_, ok := store.Campaign(1)
	assert.False(t, ok)

	store.SetCampaign(1, campaign.CampaignData{ProductName: "First"})
	store.SetVisual(1, 0, campaign.Image{Data: []byte("v0")})

	_, ok = store.Visual(1, 0)
	assert.True(t, ok)

	store.SetCampaign(1, campaign.CampaignData{ProductName: "Second"})

	data, ok := store.Campaign(1)
	require.True(t, ok)
	assert.Equal(t, "Second", data.ProductName)

	_, ok = store.Visual(1, 0)
	assert.False(t, ok, "visuals belong to the campaign that produced them")
}

func TestVisualPerVariant(t *testing.T) {
	store := NewStore(Options{})
	store.SetCampaign(1, campaign.CampaignData{})

	store.SetVisual(1, 0, campaign.Image{Data: []byte("a")})
	store.SetVisual(1, 2, campaign.Image{Data: []byte("c")})

	img, ok := store.Visual(1, 0)
	require.True(t, ok)
	assert.Equal(t, []byte("a"), img.Data)

	_, ok = store.Visual(1, 1)
	assert.False(t, ok)

	// A later image for the same variant replaces the earlier one.
	store.SetVisual(1, 0, campaign.Image{Data: []byte("a2")})
	img, _ = store.Visual(1, 0)
	assert.Equal(t, []byte("a2"), img.Data)
}

func TestHistoryBounded(t *testing.T) {
	store := NewStore(Options{MaxHistoryMessages: 4})

	for i := 0; i < 6; i++ {
		store.AppendHistory(1,
			campaign.Message{Role: campaign.RoleUser, Text: fmt.Sprintf("q%d", i)},
			campaign.Message{Role: campaign.RoleModel, Text: fmt.Sprintf("a%d", i)},
		)
	}

	history := store.HistorySnapshot(1)
	require.Len(t, history, 4)
	assert.Equal(t, "q4", history[0].Text)
	assert.Equal(t, "a5", history[3].Text)
}

func TestHistorySnapshotIsACopy(t *testing.T) {
	store := NewStore(Options{})
	store.AppendHistory(1, campaign.Message{Role: campaign.RoleUser, Text: "original"})

	snapshot := store.HistorySnapshot(1)
	snapshot[0].Text = "mutated"

	assert.Equal(t, "original", store.HistorySnapshot(1)[0].Text)
}

func TestReset(t *testing.T) {
	store := NewStore(Options{})
	store.SetBrand(1, campaign.BrandProfile{SiteURL: "https://x.example"})
	store.SetCampaign(1, campaign.CampaignData{ProductName: "P"})
	store.AppendHistory(1, campaign.Message{Role: campaign.RoleUser, Text: "hi"})

	store.Reset(1)

	assert.Equal(t, campaign.BrandProfile{}, store.Brand(1))
	_, ok := store.Campaign(1)
	assert.False(t, ok)
	assert.Empty(t, store.HistorySnapshot(1))
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore(Options{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := int64(n % 4)
			store.SetVisual(userID, n, campaign.Image{Data: []byte{byte(n)}})
			store.AppendHistory(userID, campaign.Message{Role: campaign.RoleUser, Text: "m"})
			store.Brand(userID)
			store.HistorySnapshot(userID)
		}(i)
	}
	wg.Wait()
}
