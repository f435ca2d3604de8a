package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/davidhbaek/aidebate/internal/prompt"
	"github.com/davidhbaek/aidebate/internal/wire"
)

const (
	Name = "Gemini (Google)"

	PreferredModel = "models/gemini-1.5-pro-latest"
	FallbackModel  = "gemini-pro"
)

var ErrMissingAPIKey = errors.New("missing Gemini API key")

type Config struct {
	APIKey  string
	BaseURL string
	// Preferred is used when the model listing contains it, Fallback otherwise.
	Preferred string
	Fallback  string
	Images    []wire.Image
	Logger    zerolog.Logger
}

// Service debates as Gemini. The model is chosen once, at construction.
type Service struct {
	client *genai.Client
	model  string
	images []wire.Image
	log    zerolog.Logger
}

func NewService(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Preferred == "" {
		cfg.Preferred = PreferredModel
	}
	if cfg.Fallback == "" {
		cfg.Fallback = FallbackModel
	}

	client, err := newClient(ctx, cfg.BaseURL, cfg.APIKey)
	if err != nil {
		return nil, err
	}

	models, err := listModels(ctx, client)
	if err != nil {
		return nil, err
	}

	model := SelectModel(models, cfg.Preferred, cfg.Fallback)

	log := cfg.Logger.With().Str("service", "gemini").Str("model", model).Logger()
	if model != cfg.Preferred {
		log.Warn().Str("preferred", cfg.Preferred).Msg("preferred model not listed, using fallback")
	}

	return &Service{
		client: client,
		model:  model,
		images: cfg.Images,
		log:    log,
	}, nil
}

// SelectModel returns preferred if the listing holds a model of that name,
// with or without the models/ prefix, otherwise fallback. The fallback is not
// checked against the listing.
func SelectModel(models []*genai.Model, preferred, fallback string) string {
	want := qualify(preferred)
	for _, m := range models {
		if m != nil && m.Name == want {
			return preferred
		}
	}
	return fallback
}

func (s *Service) Name() string {
	return Name
}

func (s *Service) Model() string {
	return s.model
}

func (s *Service) Debate(ctx context.Context, topic, background string) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt.Gemini.Composed(topic, background))}
	for _, img := range s.images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MediaType))
	}

	start := time.Now()
	s.log.Debug().Msg("generating content")

	rsp, err := s.client.Models.GenerateContent(ctx, s.model, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	event := s.log.Debug().Dur("dur", time.Since(start))
	if rsp.UsageMetadata != nil {
		event = event.
			Int32("prompt_tokens", rsp.UsageMetadata.PromptTokenCount).
			Int32("candidates_tokens", rsp.UsageMetadata.CandidatesTokenCount)
	}
	event.Msg("content generated")

	return responseText(rsp)
}
