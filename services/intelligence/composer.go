package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"marta/utils"
)

const (
	composerModel   = "gemini-1.5-flash"
	composerTimeout = 15 * time.Second
)

// Composer produces free text from a prompt. It is an optional collaborator:
// every caller must have a deterministic fallback for when composition fails
// or no composer is configured.
type Composer interface {
	Compose(ctx context.Context, prompt string) (string, error)
}

// GeminiComposer backs Composer with the Gemini API.
type GeminiComposer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiComposer(ctx context.Context, apiKey string) (*GeminiComposer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := client.GenerativeModel(composerModel)
	return &GeminiComposer{client: client, model: model}, nil
}

func (g *GeminiComposer) Compose(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, composerTimeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return out, nil
}

func (g *GeminiComposer) Close() {
	if err := g.client.Close(); err != nil {
		utils.GetLogger().Sugar().Warnw("failed to close gemini client", "error", err)
	}
}
