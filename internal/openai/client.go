package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/davidhbaek/aidebate/internal/prompt"
	"github.com/davidhbaek/aidebate/internal/wire"
)

const (
	Name         = "ChatGPT (OpenAI)"
	DefaultModel = openai.GPT4o
)

var (
	ErrMissingAPIKey = errors.New("missing OpenAI API key")
	ErrNoChoices     = errors.New("no choices in chat completion")
)

type Config struct {
	APIKey string
	// BaseURL overrides the API root, including the /v1 suffix.
	BaseURL string
	Model   string
	Images  []wire.Image
	Logger  zerolog.Logger
}

// Service debates as ChatGPT through the chat completions API.
type Service struct {
	client *openai.Client
	model  string
	images []wire.Image
	log    zerolog.Logger
}

func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: 5 * time.Minute,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     1 * time.Minute,
		},
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		images: cfg.Images,
		log:    cfg.Logger.With().Str("service", "openai").Str("model", model).Logger(),
	}, nil
}

func (s *Service) Name() string {
	return Name
}

func (s *Service) Model() string {
	return s.model
}

func (s *Service) Debate(ctx context.Context, topic, background string) (string, error) {
	start := time.Now()
	s.log.Debug().Msg("requesting chat completion")

	rsp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: s.messages(topic, background),
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	s.log.Debug().
		Dur("dur", time.Since(start)).
		Int("prompt_tokens", rsp.Usage.PromptTokens).
		Int("completion_tokens", rsp.Usage.CompletionTokens).
		Msg("chat completion done")

	if len(rsp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return rsp.Choices[0].Message.Content, nil
}

func (s *Service) messages(topic, background string) []openai.ChatCompletionMessage {
	system := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompt.ChatGPT.System(background),
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(s.images) == 0 {
		user.Content = prompt.ChatGPT.User(topic)
		return []openai.ChatCompletionMessage{system, user}
	}

	// Content and MultiContent are mutually exclusive
	user.MultiContent = []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt.ChatGPT.User(topic),
	}}
	for _, img := range s.images {
		user.MultiContent = append(user.MultiContent, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    img.DataURL(),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}

	return []openai.ChatCompletionMessage{system, user}
}
