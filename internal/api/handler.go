package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"adstudio/internal/auth"
	"adstudio/internal/campaign"
	"adstudio/internal/observability"
	"adstudio/internal/studio"
)

// Service is the slice of the studio the HTTP surface consumes.
type Service interface {
	GenerateCampaign(ctx context.Context, objective string, brand campaign.BrandProfile) (campaign.CampaignData, error)
	SynthesizeImage(ctx context.Context, req studio.SynthesisRequest) (campaign.Image, error)
	RefineImage(ctx context.Context, req studio.RefinementRequest) (campaign.Image, error)
	Advise(ctx context.Context, history []campaign.Message, message string) (string, error)
}

type Options struct {
	Studio      Service
	Credentials *auth.Credentials
	Logger      *slog.Logger
}

type Handler struct {
	studio Service
	creds  *auth.Credentials
	logger *slog.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Handler{
		studio: opts.Studio,
		creds:  opts.Credentials,
		logger: logger,
	}
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type brandPayload struct {
	SiteURL     string        `json:"siteUrl"`
	Personality string        `json:"personality"`
	Logo        *imagePayload `json:"logo"`
}

// imagePayload is the wire form of a tagged image: declared media type
// plus base64 payload.
type imagePayload struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type campaignRequest struct {
	Objective string       `json:"objective"`
	Brand     brandPayload `json:"brand"`
}

type imageRequest struct {
	ImagePrompt string       `json:"imagePrompt"`
	Headline    string       `json:"headline"`
	ProductName string       `json:"productName"`
	Brand       brandPayload `json:"brand"`
	AspectRatio string       `json:"aspectRatio"`
	ImageSize   string       `json:"imageSize"`
}

type refineRequest struct {
	Image       *imagePayload `json:"image"`
	Instruction string        `json:"instruction"`
	Headline    string        `json:"headline"`
	ProductName string        `json:"productName"`
}

type adviseRequest struct {
	History []campaign.Message `json:"history"`
	Message string             `json:"message"`
}

type adviseResponse struct {
	Reply string `json:"reply"`
}

type credentialRequest struct {
	APIKey string `json:"apiKey"`
}

type credentialStatus struct {
	Authorized bool `json:"authorized"`
}

func (h *Handler) Campaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Objective) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "objective is required", Code: "bad_request"})
		return
	}

	brand, err := req.Brand.toBrand()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Code: "bad_request"})
		return
	}

	data, err := h.studio.GenerateCampaign(r.Context(), req.Objective, brand)
	observability.ObserveGeneration("campaign", err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ImagePrompt) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "imagePrompt is required", Code: "bad_request"})
		return
	}

	brand, err := req.Brand.toBrand()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Code: "bad_request"})
		return
	}

	img, err := h.studio.SynthesizeImage(r.Context(), studio.SynthesisRequest{
		ImagePrompt: req.ImagePrompt,
		Headline:    req.Headline,
		ProductName: req.ProductName,
		Brand:       brand,
		AspectRatio: req.AspectRatio,
		ImageSize:   req.ImageSize,
	})
	observability.ObserveGeneration("synthesize", err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fromImage(img))
}

func (h *Handler) Refine(w http.ResponseWriter, r *http.Request) {
	var req refineRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Image == nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "image is required", Code: "bad_request"})
		return
	}
	if strings.TrimSpace(req.Instruction) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "instruction is required", Code: "bad_request"})
		return
	}

	current, err := req.Image.toImage()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), Code: "bad_request"})
		return
	}

	img, err := h.studio.RefineImage(r.Context(), studio.RefinementRequest{
		Current:     current,
		Instruction: req.Instruction,
		Headline:    req.Headline,
		ProductName: req.ProductName,
	})
	observability.ObserveGeneration("refine", err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fromImage(img))
}

func (h *Handler) Advise(w http.ResponseWriter, r *http.Request) {
	var req adviseRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "message is required", Code: "bad_request"})
		return
	}

	reply, err := h.studio.Advise(r.Context(), req.History, req.Message)
	observability.ObserveGeneration("advise", err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adviseResponse{Reply: reply})
}

func (h *Handler) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, credentialStatus{Authorized: h.creds.Authorized()})
}

// SelectCredential is the user-driven credential-selection action. The
// new key is trusted immediately; the next generation call verifies it
// by simply being attempted.
func (h *Handler) SelectCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "apiKey is required", Code: "bad_request"})
		return
	}

	h.creds.Select(req.APIKey)
	writeJSON(w, http.StatusOK, credentialStatus{Authorized: h.creds.Authorized()})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body", Code: "bad_request"})
		return false
	}
	return true
}

// writeError maps the failure taxonomy onto HTTP statuses. The auth
// flag itself is already revoked by the studio before the error lands
// here; this only tells the client to re-prompt.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, studio.ErrNotAuthorized):
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "select a valid credential first", Code: "auth_mismatch"})
	case campaign.Classify(err) == campaign.FailureAuthMismatch:
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "credential does not resolve to the addressed project", Code: "auth_mismatch"})
	case errors.Is(err, campaign.ErrMalformedResponse):
		writeJSON(w, http.StatusBadGateway, apiError{Error: "the model returned a malformed campaign", Code: "malformed_response"})
	case errors.Is(err, campaign.ErrNoImageProduced):
		writeJSON(w, http.StatusBadGateway, apiError{Error: "the model returned no image", Code: "no_image"})
	default:
		h.logger.Error("generation failed", "err", err)
		writeJSON(w, http.StatusBadGateway, apiError{Error: "generation failed", Code: "generic"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (p brandPayload) toBrand() (campaign.BrandProfile, error) {
	brand := campaign.BrandProfile{
		SiteURL:     strings.TrimSpace(p.SiteURL),
		Personality: strings.TrimSpace(p.Personality),
	}
	if p.Logo != nil {
		logo, err := p.Logo.toImage()
		if err != nil {
			return campaign.BrandProfile{}, err
		}
		brand.Logo = &logo
	}
	return brand, nil
}

func (p imagePayload) toImage() (campaign.Image, error) {
	return campaign.ParseDataURL(p.Data, p.MimeType)
}

func fromImage(img campaign.Image) imagePayload {
	return imagePayload{
		MimeType: img.MimeType,
		Data:     img.DataURL(),
	}
}
