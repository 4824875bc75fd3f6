package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakProvider implements Provider for the local espeak-ng engine, the
// last-resort fallback that works offline.
type ESpeakProvider struct {
	speed int
}

// NewESpeakProvider creates an espeak-ng provider.
func NewESpeakProvider(config *Config) (Provider, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}

	speed := config.ESpeakSpeed
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}

	return &ESpeakProvider{speed: speed}, nil
}

// FetchAudio synthesizes the text to a WAV file. espeak-ng voices are
// keyed by language, so the canonical tag doubles as the voice name.
func (p *ESpeakProvider) FetchAudio(ctx context.Context, text, tag, outputFile string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	voice := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
	if voice == "" || voice == "auto" {
		voice = "en"
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	args := []string{
		"-v", voice,
		"-s", fmt.Sprintf("%d", p.speed),
		"-w", outputFile,
		text,
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// Name returns the provider name.
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed.
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}

func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng not found in PATH: %w", err)
	}
	return nil
}
