package studio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"adstudio/internal/auth"
	"adstudio/internal/campaign"
	"adstudio/internal/gemini"
)

// ErrNotAuthorized rejects a call before it leaves the process when no
// valid credential is selected. The UI reacts by re-prompting for one.
var ErrNotAuthorized = errors.New("no authorized credential selected")

const advisorPersona = "You are a creative director who provides concise, actionable marketing advice."

// Reply used when the advisor model returns an empty body. The caller
// always gets text, never an absent value.
const adviceFallback = "I don't have a good answer for that yet. Try rephrasing, or give me more context about the campaign."

type Options struct {
	Gemini      *gemini.Client
	Credentials *auth.Credentials
	Logger      *slog.Logger
}

// Studio is the orchestration boundary between the presentation layers
// and the generative service. It never retries: a failed call is a
// fresh user action, because generation is not idempotent.
type Studio struct {
	gem    *gemini.Client
	creds  *auth.Credentials
	logger *slog.Logger
}

func New(opts Options) *Studio {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Studio{
		gem:    opts.Gemini,
		creds:  opts.Credentials,
		logger: logger,
	}
}

type SynthesisRequest struct {
	ImagePrompt string
	Headline    string
	ProductName string
	Brand       campaign.BrandProfile
	AspectRatio string
	ImageSize   string
}

type RefinementRequest struct {
	Current     campaign.Image
	Instruction string
	Headline    string
	ProductName string
}

// GenerateCampaign builds the strategist request, issues it, and
// normalizes the reply. A malformed reply escapes as-is; the caller
// must not retry it automatically.
func (s *Studio) GenerateCampaign(ctx context.Context, objective string, brand campaign.BrandProfile) (campaign.CampaignData, error) {
	if err := s.ready(); err != nil {
		return campaign.CampaignData{}, err
	}
	if strings.TrimSpace(objective) == "" {
		return campaign.CampaignData{}, errors.New("objective is empty")
	}

	req := campaign.BuildCampaignRequest(objective, brand)
	resp, err := s.gem.GenerateContent(ctx, gemini.ModelText, gemini.GenerateContentRequest{
		Contents: []gemini.Content{
			{Role: campaign.RoleUser, Parts: []gemini.Part{{Text: req.Prompt}}},
		},
		Tools: req.Tools,
		GenerationConfig: &gemini.GenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   req.Schema,
		},
	})
	if err != nil {
		return campaign.CampaignData{}, s.fail("generate campaign", err)
	}

	data, err := campaign.Normalize(resp.Text(), resp.GroundingChunks())
	if err != nil {
		s.logger.Error("campaign normalization failed", "err", err)
		return campaign.CampaignData{}, err
	}

	s.logger.Info("campaign generated", "product", data.ProductName, "variants", len(data.Variants), "sources", len(data.GroundingURLs))
	return data, nil
}

// SynthesizeImage produces a fresh visual for one ad variant. Aspect
// ratio and resolution travel as generation parameters, not prose.
func (s *Studio) SynthesizeImage(ctx context.Context, req SynthesisRequest) (campaign.Image, error) {
	if err := s.ready(); err != nil {
		return campaign.Image{}, err
	}

	resp, err := s.gem.GenerateContent(ctx, gemini.ModelImage, gemini.GenerateContentRequest{
		Contents: []gemini.Content{
			{Role: campaign.RoleUser, Parts: campaign.BuildSynthesisParts(req.ImagePrompt, req.Headline, req.ProductName, req.Brand)},
		},
		GenerationConfig: &gemini.GenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
			ImageConfig: &gemini.ImageConfig{
				AspectRatio: campaign.NormalizeAspectRatio(req.AspectRatio),
				ImageSize:   campaign.NormalizeImageSize(req.ImageSize),
			},
		},
	})
	if err != nil {
		return campaign.Image{}, s.fail("synthesize image", err)
	}

	return imageFromResponse(resp)
}

// RefineImage edits an existing visual. Each call is independent; the
// caller threads the latest image forward.
func (s *Studio) RefineImage(ctx context.Context, req RefinementRequest) (campaign.Image, error) {
	if err := s.ready(); err != nil {
		return campaign.Image{}, err
	}
	if req.Current.Empty() {
		return campaign.Image{}, errors.New("no current image to refine")
	}

	resp, err := s.gem.GenerateContent(ctx, gemini.ModelImage, gemini.GenerateContentRequest{
		Contents: []gemini.Content{
			{Role: campaign.RoleUser, Parts: campaign.BuildRefinementParts(req.Current, req.Instruction, req.Headline, req.ProductName)},
		},
		GenerationConfig: &gemini.GenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
			ImageConfig: &gemini.ImageConfig{
				ImageSize: campaign.Size1K,
			},
		},
	})
	if err != nil {
		return campaign.Image{}, s.fail("refine image", err)
	}

	return imageFromResponse(resp)
}

// Advise runs one advisor turn over the transcript the caller owns.
// The prior history goes in, exactly one reply comes out; no transcript
// state accumulates here.
func (s *Studio) Advise(ctx context.Context, history []campaign.Message, message string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}

	contents := make([]gemini.Content, 0, len(history)+1)
	for _, m := range history {
		role := m.Role
		if role == "" {
			role = campaign.RoleUser
		}
		contents = append(contents, gemini.Content{Role: role, Parts: []gemini.Part{{Text: m.Text}}})
	}
	contents = append(contents, gemini.Content{Role: campaign.RoleUser, Parts: []gemini.Part{{Text: message}}})

	resp, err := s.gem.GenerateContent(ctx, gemini.ModelText, gemini.GenerateContentRequest{
		Contents:          contents,
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: advisorPersona}}},
		GenerationConfig:  &gemini.GenerationConfig{Temperature: 0.7},
	})
	if err != nil {
		return "", s.fail("advise", err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return adviceFallback, nil
	}
	return reply, nil
}

func (s *Studio) ready() error {
	if !s.creds.Authorized() {
		return ErrNotAuthorized
	}
	return nil
}

// fail classifies an escaped error at this boundary. A credential scope
// mismatch revokes the shared authorization flag before the error
// propagates, so the UI forces re-selection ahead of the next call.
func (s *Studio) fail(op string, err error) error {
	if campaign.Classify(err) == campaign.FailureAuthMismatch {
		s.creds.Revoke()
		s.logger.Warn("credential scope mismatch, authorization revoked", "op", op, "err", err)
		return err
	}
	s.logger.Error(op+" failed", "err", err)
	return err
}

func imageFromResponse(resp gemini.GenerateContentResponse) (campaign.Image, error) {
	blob, ok := resp.FirstInlineImage()
	if !ok {
		return campaign.Image{}, campaign.ErrNoImageProduced
	}

	data, err := base64.StdEncoding.DecodeString(blob.Data)
	if err != nil {
		return campaign.Image{}, fmt.Errorf("decode image payload: %w", err)
	}

	return campaign.Image{MimeType: "image/png", Data: data}, nil
}
