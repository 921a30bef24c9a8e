package gemini

// Wire types for the models/<model>:generateContent endpoint.

type GenerateContentRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob is an inline media part: base64 payload plus declared media type.
type Blob struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type Tool struct {
	GoogleSearch *GoogleSearch `json:"googleSearch,omitempty"`
}

type GoogleSearch struct{}

type GenerationConfig struct {
	Temperature        float64      `json:"temperature,omitempty"`
	ResponseMIMEType   string       `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema      `json:"responseSchema,omitempty"`
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ImageConfig        *ImageConfig `json:"imageConfig,omitempty"`
}

type ImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

// Schema type names as the API expects them.
const (
	TypeObject = "OBJECT"
	TypeArray  = "ARRAY"
	TypeString = "STRING"
)

// Schema is the structural contract attached to a generation request.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	Content           Content            `json:"content"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks,omitempty"`
}

type GroundingChunk struct {
	Web *WebSource `json:"web,omitempty"`
}

type WebSource struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}
