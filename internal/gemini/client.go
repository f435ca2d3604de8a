package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/"

var ErrNoCandidates = errors.New("no candidates in response")

func newClient(ctx context.Context, baseURL, apiKey string) (*genai.Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     1 * time.Minute,
			},
		},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: "v1beta",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return client, nil
}

// listModels returns every model visible to the credential, following
// pagination to the end.
func listModels(ctx context.Context, client *genai.Client) ([]*genai.Model, error) {
	var models []*genai.Model

	page, err := client.Models.List(ctx, &genai.ListModelsConfig{PageSize: 1000})
	for {
		if errors.Is(err, genai.ErrPageDone) {
			return models, nil
		}
		if err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}

		models = append(models, page.Items...)

		page, err = page.Next(ctx)
	}
}

// responseText joins the text parts of the first candidate.
func responseText(rsp *genai.GenerateContentResponse) (string, error) {
	if len(rsp.Candidates) == 0 {
		if rsp.PromptFeedback != nil && rsp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: blocked with reason %s", ErrNoCandidates, rsp.PromptFeedback.BlockReason)
		}
		return "", ErrNoCandidates
	}

	content := rsp.Candidates[0].Content
	if content == nil {
		return "", nil
	}

	var text strings.Builder
	for _, part := range content.Parts {
		if part != nil && !part.Thought {
			text.WriteString(part.Text)
		}
	}

	return text.String(), nil
}

// qualify turns a bare model id into the models/ resource name the listing
// reports.
func qualify(model string) string {
	if strings.HasPrefix(model, "models/") || strings.HasPrefix(model, "tunedModels/") {
		return model
	}
	return "models/" + model
}
