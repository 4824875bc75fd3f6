package translator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"codeberg.org/snonux/wordwire/internal/language"
	"codeberg.org/snonux/wordwire/internal/provider"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiTranslator translates through the Gemini API. It is wired as the
// fallback for when the web provider is unreachable, so results carry only
// the primary meaning, no dictionary sections.
type GeminiTranslator struct {
	client *genai.Client
	model  string
}

// NewGeminiTranslator creates a Gemini-backed translator.
func NewGeminiTranslator(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTranslator{client: client, model: model}, nil
}

// Translate asks Gemini for a bare translation.
func (g *GeminiTranslator) Translate(ctx context.Context, text, fromTag, toTag string) (*provider.Result, error) {
	source := fmt.Sprintf("from %s", fromTag)
	if fromTag == language.Auto {
		source = "from the detected language"
	}
	prompt := fmt.Sprintf(
		"Translate the following text %s to %s. Respond with only the translation, nothing else.\n\n%s",
		source, toTag, text)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	meaning := strings.TrimSpace(resp.Text())
	if meaning == "" {
		return nil, fmt.Errorf("no translation returned")
	}

	return &provider.Result{
		Original:  text,
		Meaning:   meaning,
		SourceTag: fromTag,
		TargetTag: toTag,
	}, nil
}

// Name returns the translator name.
func (g *GeminiTranslator) Name() string {
	return "gemini"
}
