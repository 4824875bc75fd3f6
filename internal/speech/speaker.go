package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/wordwire/internal/provider"
)

// One refresh-then-retry per pronounce call
const maxRetries = 1

// SessionRefresher re-fetches the provider session credentials.
type SessionRefresher interface {
	Refresh(ctx context.Context) error
}

// Speaker pronounces text: it fetches audio through the configured
// provider and plays it. Any failure triggers one full credential refresh
// and one retry before the error surfaces.
type Speaker struct {
	provider  Provider
	refresher SessionRefresher // may be nil when no web provider is wired
	player    *Player
	tmpDir    string
}

// NewSpeaker creates a speaker. The temp directory defaults to the OS one.
func NewSpeaker(p Provider, refresher SessionRefresher, player *Player) *Speaker {
	return &Speaker{
		provider:  p,
		refresher: refresher,
		player:    player,
		tmpDir:    os.TempDir(),
	}
}

// Pronounce stops any running playback, fetches pronunciation audio for
// text and plays it.
func (s *Speaker) Pronounce(ctx context.Context, text, tag string) error {
	s.player.Stop()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := s.refresh(ctx); err != nil {
				lastErr = fmt.Errorf("credential refresh failed: %w", err)
				break
			}
		}

		audioFile := filepath.Join(s.tmpDir, fmt.Sprintf("wordwire-%d.mp3", time.Now().UnixNano()))
		if err := s.provider.FetchAudio(ctx, text, tag, audioFile); err != nil {
			lastErr = err
			continue
		}

		if err := s.player.Play(audioFile); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	var apiErr *provider.APIError
	if errors.As(lastErr, &apiErr) {
		return lastErr
	}
	return provider.NewAPIError(0, "pronunciation failed", "", lastErr)
}

// Player exposes the underlying player, used by the GUI for its stop
// control.
func (s *Speaker) Player() *Player {
	return s.player
}

func (s *Speaker) refresh(ctx context.Context) error {
	if s.refresher == nil {
		return nil
	}
	return s.refresher.Refresh(ctx)
}
