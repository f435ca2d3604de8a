package llm

import (
	"context"

	"github.com/davidhbaek/aidebate/internal/gemini"
	"github.com/davidhbaek/aidebate/internal/openai"
)

type Service interface {
	// The name printed above the service's answer
	Name() string
	// Argue for the service's own membership on the given topic
	Debate(ctx context.Context, topic, background string) (string, error)
}

// Enforce interface compliance
var (
	_ Service = &openai.Service{}
	_ Service = &gemini.Service{}
)
