package campaign

// Transcript roles understood by the advisor.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// BrandProfile carries the optional brand inputs the UI session owns.
// Absent fields change downstream behavior: no site means no live
// research, no logo means no compositing instruction.
type BrandProfile struct {
	SiteURL     string `json:"siteUrl,omitempty"`
	Personality string `json:"personality,omitempty"`
	Logo        *Image `json:"logo,omitempty"`
}

type AdVariant struct {
	Headline     string `json:"headline"`
	BodyCopy     string `json:"bodyCopy"`
	ImagePrompt  string `json:"imagePrompt"`
	CallToAction string `json:"callToAction"`
}

// GroundingSource is a web citation returned by a research-augmented
// generation call.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// CampaignData is the normalized result of one generation call. It is
// never mutated after Normalize returns it; a nil GroundingURLs slice
// means the response carried no usable citations, which is distinct
// from an empty list.
type CampaignData struct {
	ProductName    string            `json:"productName"`
	TargetAudience string            `json:"targetAudience"`
	Variants       []AdVariant       `json:"variants"`
	GroundingURLs  []GroundingSource `json:"groundingUrls,omitempty"`
}

type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
