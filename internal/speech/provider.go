package speech

import (
	"context"
	"fmt"
	"os"
)

// Provider defines the interface for pronunciation audio sources.
type Provider interface {
	// FetchAudio produces pronunciation audio for text in the language
	// identified by the canonical tag and writes it to outputFile
	FetchAudio(ctx context.Context, text, tag, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for speech providers.
type Config struct {
	Provider     string // "web", "openai" or "espeak"
	SpeechCookie string // cookie carrying the TTS session identifier

	// OpenAI-specific settings
	OpenAIKey   string
	OpenAIModel string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice string  // "alloy", "echo", "nova", ...
	OpenAISpeed float64 // 0.25 to 4.0

	// espeak-ng settings
	ESpeakSpeed int // words per minute
}

// DefaultConfig returns default speech configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:     "web",
		SpeechCookie: DefaultSpeechCookie,
		OpenAIModel:  "gpt-4o-mini-tts",
		OpenAIVoice:  "alloy",
		OpenAISpeed:  1.0,
		ESpeakSpeed:  150,
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option.
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary
// if primary fails.
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// FetchAudio tries the primary provider first, falls back on error.
func (p *ProviderWithFallback) FetchAudio(ctx context.Context, text, tag, outputFile string) error {
	err := p.primary.FetchAudio(ctx, text, tag, outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Primary speech provider (%s) failed: %v. Falling back to %s\n",
			p.primary.Name(), err, p.fallback.Name())
		return p.fallback.FetchAudio(ctx, text, tag, outputFile)
	}
	return nil
}

// Name returns the combined provider name.
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available.
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// Voices lists the OpenAI TTS voices selectable via configuration.
func Voices() []string {
	return []string{"alloy", "ash", "ballad", "coral", "echo", "fable",
		"onyx", "nova", "sage", "shimmer", "verse"}
}
