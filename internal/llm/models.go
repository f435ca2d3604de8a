package llm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/davidhbaek/aidebate/internal/config"
	"github.com/davidhbaek/aidebate/internal/gemini"
	"github.com/davidhbaek/aidebate/internal/openai"
	"github.com/davidhbaek/aidebate/internal/wire"
)

// Provider builds one service variant. Label is used in connection
// diagnostics, before a Service (and its Name) exists.
type Provider struct {
	Label   string
	Connect func(ctx context.Context) (Service, error)
}

// NewProviders returns the debaters in speaking order: ChatGPT, then Gemini.
func NewProviders(cfg config.Config, images []wire.Image, logger zerolog.Logger) []Provider {
	return []Provider{
		{
			Label: "ChatGPT",
			Connect: func(ctx context.Context) (Service, error) {
				svc, err := openai.NewService(openai.Config{
					APIKey:  cfg.OpenAI.APIKey,
					BaseURL: cfg.OpenAI.BaseURL,
					Model:   cfg.OpenAI.Model,
					Images:  images,
					Logger:  logger,
				})
				if err != nil {
					return nil, err
				}
				return svc, nil
			},
		},
		{
			Label: "Gemini",
			Connect: func(ctx context.Context) (Service, error) {
				svc, err := gemini.NewService(ctx, gemini.Config{
					APIKey:    cfg.Gemini.APIKey,
					BaseURL:   cfg.Gemini.BaseURL,
					Preferred: cfg.Gemini.PreferredModel,
					Fallback:  cfg.Gemini.FallbackModel,
					Images:    images,
					Logger:    logger,
				})
				if err != nil {
					return nil, err
				}
				return svc, nil
			},
		},
	}
}
