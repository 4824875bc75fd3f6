package speech

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

// Player plays audio files through a platform media player. All state is
// mutex-guarded so overlapping pronounce calls cannot race: starting a new
// playback always stops the previous one first.
type Player struct {
	mu      sync.Mutex
	playCmd *exec.Cmd
	playing bool
	done    chan struct{}

	// newCommand builds the playback command, replaceable in tests
	newCommand func(audioFile string) (*exec.Cmd, error)
}

// NewPlayer creates a player using the platform media player.
func NewPlayer() *Player {
	return &Player{newCommand: platformPlayCommand}
}

// Play stops any in-progress playback, then starts playing audioFile in
// the background.
func (p *Player) Play(audioFile string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	cmd, err := p.newCommand(audioFile)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	done := make(chan struct{})
	p.playCmd = cmd
	p.playing = true
	p.done = done

	go func() {
		cmd.Wait()
		close(done)
		p.mu.Lock()
		if p.playCmd == cmd {
			p.playCmd = nil
			p.playing = false
		}
		p.mu.Unlock()
	}()

	return nil
}

// Stop kills any in-progress playback.
func (p *Player) Stop() {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
}

// Wait blocks until the current playback finishes. Used by the CLI so
// the process does not exit mid-pronunciation.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// IsPlaying reports whether a playback command is running.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) stopLocked() {
	if p.playCmd != nil && p.playCmd.Process != nil {
		p.playCmd.Process.Kill()
	}
	p.playCmd = nil
	p.playing = false
}

// platformPlayCommand picks an installed media player for the platform.
func platformPlayCommand(audioFile string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("afplay", audioFile), nil
	case "linux":
		// mpg123 first since it handles MP3 files best
		if _, err := exec.LookPath("mpg123"); err == nil {
			return exec.Command("mpg123", "-q", audioFile), nil
		}
		if _, err := exec.LookPath("ffplay"); err == nil {
			return exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", audioFile), nil
		}
		if _, err := exec.LookPath("play"); err == nil {
			return exec.Command("play", "-q", audioFile), nil
		}
		if _, err := exec.LookPath("paplay"); err == nil {
			return exec.Command("paplay", audioFile), nil
		}
		if _, err := exec.LookPath("aplay"); err == nil {
			return exec.Command("aplay", "-q", audioFile), nil
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return exec.Command("cmd", "/c", "start", "/min", audioFile), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
