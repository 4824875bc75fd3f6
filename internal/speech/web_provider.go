package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/wordwire/internal/provider"
	"codeberg.org/snonux/wordwire/internal/session"
)

// DefaultSpeechCookie names the provider cookie carrying the TTS session
// identifier.
const DefaultSpeechCookie = "SUV"

const fetchTimeout = 30 * time.Second

// WebProvider fetches pronunciation audio from the translation provider's
// TTS endpoint. The audio URL is authorized by a session identifier read
// from the provider's cookies, so the visitor must have loaded the page
// at least once.
type WebProvider struct {
	client       *provider.Client
	visitor      session.PageVisitor
	speechCookie string
	httpClient   *http.Client
}

// NewWebProvider creates the web TTS provider. An empty cookie name falls
// back to the default.
func NewWebProvider(client *provider.Client, visitor session.PageVisitor, speechCookie string) *WebProvider {
	if speechCookie == "" {
		speechCookie = DefaultSpeechCookie
	}
	return &WebProvider{
		client:       client,
		visitor:      visitor,
		speechCookie: speechCookie,
		httpClient:   &http.Client{Timeout: fetchTimeout},
	}
}

// FetchAudio builds the TTS URL and downloads the audio to outputFile.
func (p *WebProvider) FetchAudio(ctx context.Context, text, tag, outputFile string) error {
	sessionID, ok := p.visitor.Cookie(p.speechCookie)
	if !ok {
		return fmt.Errorf("speech session cookie %q not available", p.speechCookie)
	}

	audioURL, err := p.client.SpeechURL(text, tag, sessionID)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", audioURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create audio request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("audio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return provider.NewAPIError(resp.StatusCode, "provider rejected speech request", string(body), nil)
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return fmt.Errorf("no audio data received from provider")
	}

	return nil
}

// Name returns the provider name.
func (p *WebProvider) Name() string {
	return "web"
}

// IsAvailable reports whether a speech session identifier is present.
func (p *WebProvider) IsAvailable() error {
	if _, ok := p.visitor.Cookie(p.speechCookie); !ok {
		return fmt.Errorf("speech session cookie %q not available", p.speechCookie)
	}
	return nil
}
