package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"adstudio/internal/auth"
	"adstudio/internal/campaign"
	"adstudio/internal/session"
	"adstudio/internal/studio"
	"adstudio/internal/telegram"
)

type Options struct {
	Telegram    *telegram.Client
	Studio      *studio.Studio
	Sessions    *session.Store
	Credentials *auth.Credentials
	Logger      *slog.Logger
}

type Handler struct {
	tg       *telegram.Client
	studio   *studio.Studio
	sessions *session.Store
	creds    *auth.Credentials
	logger   *slog.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		tg:       opts.Telegram,
		studio:   opts.Studio,
		sessions: opts.Sessions,
		creds:    opts.Credentials,
		logger:   logger,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.Message == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, userID, msg)
	}

	if len(msg.Photo) > 0 {
		return h.handleLogoUpload(ctx, chatID, userID, msg)
	}

	if msg.Text != "" {
		return h.handleAdvice(ctx, chatID, userID, msg.Text)
	}

	return nil
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return h.tg.SendText(chatID,
			"Ad Campaign Studio\n\n"+
				"Commands:\n"+
				"/brand <url> | <personality> - set brand context\n"+
				"(send a photo to set the brand logo)\n"+
				"/campaign <objective> - generate 3 ad variants\n"+
				"/visual <n> [1:1|16:9|9:16] - create a visual for variant n\n"+
				"/visuals - create visuals for all variants\n"+
				"/refine <n> <instruction> - edit variant n's visual\n"+
				"/key <api key> - select a credential\n"+
				"/reset - clear the session\n\n"+
				"Anything else goes to your marketing advisor.",
		)
	case "help":
		return h.tg.SendText(chatID,
			"Set a brand with /brand, then run /campaign <objective>.\n"+
				"Per variant: /visual <n> to create an image, /refine <n> <instruction> to edit it.\n"+
				"Plain messages get concise advice from a creative director.",
		)
	case "key":
		if args == "" {
			return h.tg.SendText(chatID, "Usage: /key <api key>")
		}
		h.creds.Select(args)
		return h.tg.SendText(chatID, "Credential selected.")
	case "brand":
		return h.handleBrand(chatID, userID, args)
	case "campaign":
		return h.handleCampaign(ctx, chatID, userID, args)
	case "visual":
		return h.handleVisual(ctx, chatID, userID, args)
	case "visuals":
		return h.handleAllVisuals(ctx, chatID, userID)
	case "refine":
		return h.handleRefine(ctx, chatID, userID, args)
	case "reset":
		h.sessions.Reset(userID)
		return h.tg.SendText(chatID, "Session cleared.")
	default:
		return h.tg.SendText(chatID, "Unknown command. Use /help.")
	}
}

func (h *Handler) handleBrand(chatID, userID int64, args string) error {
	if args == "" {
		return h.tg.SendText(chatID, "Usage: /brand <url> | <personality>\nEither side may be empty.")
	}

	var siteURL, personality string
	if idx := strings.Index(args, "|"); idx >= 0 {
		siteURL = strings.TrimSpace(args[:idx])
		personality = strings.TrimSpace(args[idx+1:])
	} else if strings.HasPrefix(args, "http://") || strings.HasPrefix(args, "https://") {
		siteURL = args
	} else {
		personality = args
	}

	brand := h.sessions.Brand(userID)
	brand.SiteURL = siteURL
	brand.Personality = personality
	h.sessions.SetBrand(userID, brand)

	note := "Brand saved."
	if siteURL != "" {
		note += " Live research is enabled for campaign generation."
	}
	return h.tg.SendText(chatID, note)
}

func (h *Handler) handleLogoUpload(ctx context.Context, chatID, userID int64, msg *tgbotapi.Message) error {
	photo := msg.Photo[len(msg.Photo)-1]

	logo, err := h.tg.DownloadImage(ctx, photo.FileID)
	if err != nil {
		h.logger.Error("logo download failed", "err", err)
		return h.tg.SendText(chatID, "Could not download that image. Try again.")
	}

	h.sessions.SetLogo(userID, logo)
	return h.tg.SendText(chatID, "Logo saved. New visuals will integrate it into the composition.")
}

func (h *Handler) handleCampaign(ctx context.Context, chatID, userID int64, objective string) error {
	if objective == "" {
		return h.tg.SendText(chatID, "Usage: /campaign <objective>\nExample: /campaign Launch eco sneakers")
	}

	h.tg.SendTyping(chatID)
	_ = h.tg.SendText(chatID, "Building your campaign, hold on...")

	data, err := h.studio.GenerateCampaign(ctx, objective, h.sessions.Brand(userID))
	if err != nil {
		return h.sendFailure(chatID, err, "Campaign generation failed. Your previous campaign is untouched.")
	}

	h.sessions.SetCampaign(userID, data)
	return h.tg.SendText(chatID, renderCampaign(data))
}

func (h *Handler) handleVisual(ctx context.Context, chatID, userID int64, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return h.tg.SendText(chatID, "Usage: /visual <variant number> [aspect ratio]")
	}

	idx, ok := parseVariantIndex(fields[0])
	if !ok {
		return h.tg.SendText(chatID, "Variant number must be 1, 2 or 3.")
	}

	aspect := campaign.AspectSquare
	if len(fields) > 1 {
		aspect = campaign.NormalizeAspectRatio(fields[1])
	}

	data, ok := h.sessions.Campaign(userID)
	if !ok {
		return h.tg.SendText(chatID, "No campaign yet. Run /campaign first.")
	}
	if idx >= len(data.Variants) {
		return h.tg.SendText(chatID, fmt.Sprintf("This campaign has %d variants.", len(data.Variants)))
	}

	h.tg.SendTyping(chatID)

	img, err := h.synthesize(ctx, userID, data, idx, aspect)
	if err != nil {
		return h.sendFailure(chatID, err, fmt.Sprintf("Visual for variant %d failed. Any previous visual is untouched.", idx+1))
	}

	return h.tg.SendImage(chatID, img, data.Variants[idx].Headline)
}

// handleAllVisuals fans one synthesis call out per variant. The calls
// share nothing, so a failed variant leaves the others' results alone.
func (h *Handler) handleAllVisuals(ctx context.Context, chatID, userID int64) error {
	data, ok := h.sessions.Campaign(userID)
	if !ok {
		return h.tg.SendText(chatID, "No campaign yet. Run /campaign first.")
	}

	h.tg.SendTyping(chatID)
	_ = h.tg.SendText(chatID, fmt.Sprintf("Creating %d visuals...", len(data.Variants)))

	images := make([]campaign.Image, len(data.Variants))
	failures := make([]error, len(data.Variants))

	var eg errgroup.Group
	for i := range data.Variants {
		i := i
		eg.Go(func() error {
			img, err := h.synthesize(ctx, userID, data, i, campaign.AspectSquare)
			if err != nil {
				failures[i] = err
				return nil
			}
			images[i] = img
			return nil
		})
	}
	_ = eg.Wait()

	for i, variant := range data.Variants {
		if failures[i] != nil {
			if err := h.sendFailure(chatID, failures[i], fmt.Sprintf("Visual for variant %d failed.", i+1)); err != nil {
				return err
			}
			continue
		}
		if err := h.tg.SendImage(chatID, images[i], variant.Headline); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) synthesize(ctx context.Context, userID int64, data campaign.CampaignData, idx int, aspect string) (campaign.Image, error) {
	variant := data.Variants[idx]
	img, err := h.studio.SynthesizeImage(ctx, studio.SynthesisRequest{
		ImagePrompt: variant.ImagePrompt,
		Headline:    variant.Headline,
		ProductName: data.ProductName,
		Brand:       h.sessions.Brand(userID),
		AspectRatio: aspect,
	})
	if err != nil {
		return campaign.Image{}, err
	}
	if ctx.Err() != nil {
		return campaign.Image{}, ctx.Err()
	}

	h.sessions.SetVisual(userID, idx, img)
	return img, nil
}

func (h *Handler) handleRefine(ctx context.Context, chatID, userID int64, args string) error {
	fields := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(fields) < 2 {
		return h.tg.SendText(chatID, "Usage: /refine <variant number> <instruction>\nExample: /refine 1 make the background blue")
	}

	idx, ok := parseVariantIndex(fields[0])
	if !ok {
		return h.tg.SendText(chatID, "Variant number must be 1, 2 or 3.")
	}
	instruction := strings.TrimSpace(fields[1])

	data, ok := h.sessions.Campaign(userID)
	if !ok {
		return h.tg.SendText(chatID, "No campaign yet. Run /campaign first.")
	}
	if idx >= len(data.Variants) {
		return h.tg.SendText(chatID, fmt.Sprintf("This campaign has %d variants.", len(data.Variants)))
	}

	current, ok := h.sessions.Visual(userID, idx)
	if !ok {
		return h.tg.SendText(chatID, fmt.Sprintf("Variant %d has no visual yet. Run /visual %d first.", idx+1, idx+1))
	}

	h.tg.SendTyping(chatID)

	img, err := h.studio.RefineImage(ctx, studio.RefinementRequest{
		Current:     current,
		Instruction: instruction,
		Headline:    data.Variants[idx].Headline,
		ProductName: data.ProductName,
	})
	if err != nil {
		return h.sendFailure(chatID, err, fmt.Sprintf("Refinement for variant %d failed. The previous visual is untouched.", idx+1))
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	h.sessions.SetVisual(userID, idx, img)
	return h.tg.SendImage(chatID, img, data.Variants[idx].Headline)
}

func (h *Handler) handleAdvice(ctx context.Context, chatID, userID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	h.tg.SendTyping(chatID)

	history := h.sessions.HistorySnapshot(userID)
	reply, err := h.studio.Advise(ctx, history, text)
	if err != nil {
		return h.sendFailure(chatID, err, "Something went wrong. Please try again.")
	}

	h.sessions.AppendHistory(userID,
		campaign.Message{Role: campaign.RoleUser, Text: text},
		campaign.Message{Role: campaign.RoleModel, Text: reply},
	)

	return h.tg.SendText(chatID, reply)
}

// sendFailure translates a classified error into a user message. On a
// credential mismatch the studio has already revoked authorization, so
// the user is told to select a new key before anything else.
func (h *Handler) sendFailure(chatID int64, err error, generic string) error {
	if errors.Is(err, studio.ErrNotAuthorized) || campaign.Classify(err) == campaign.FailureAuthMismatch {
		return h.tg.SendText(chatID, "Your credential no longer resolves to a valid project. Select a new one with /key <api key>.")
	}
	h.logger.Error("studio call failed", "err", err)
	return h.tg.SendText(chatID, generic)
}

func parseVariantIndex(field string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

func renderCampaign(data campaign.CampaignData) string {
	var b strings.Builder
	b.Grow(1024)

	b.WriteString("Campaign: " + data.ProductName + "\n")
	b.WriteString("Audience: " + data.TargetAudience + "\n")

	for i, v := range data.Variants {
		b.WriteString(fmt.Sprintf("\nVariant %d\n", i+1))
		b.WriteString("Headline: " + v.Headline + "\n")
		b.WriteString("Copy: " + v.BodyCopy + "\n")
		b.WriteString("CTA: " + v.CallToAction + "\n")
	}

	if len(data.GroundingURLs) > 0 {
		b.WriteString("\nSources:\n")
		for _, src := range data.GroundingURLs {
			b.WriteString("- " + src.Title + ": " + src.URI + "\n")
		}
	}

	b.WriteString("\nUse /visual <n> to create a visual for a variant.")
	return b.String()
}
