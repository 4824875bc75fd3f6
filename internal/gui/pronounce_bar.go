package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// PronounceBar is the playback control row under the translation result.
type PronounceBar struct {
	widget.BaseWidget

	container   *fyne.Container
	playButton  *ttwidget.Button
	stopButton  *ttwidget.Button
	statusLabel *widget.Label
}

// NewPronounceBar creates the playback controls. onPlay and onStop are
// invoked from the fyne thread.
func NewPronounceBar(onPlay, onStop func()) *PronounceBar {
	p := &PronounceBar{}

	p.playButton = ttwidget.NewButton("", onPlay)
	p.playButton.Icon = theme.MediaPlayIcon()
	p.playButton.SetToolTip("Pronounce (P)")

	p.stopButton = ttwidget.NewButton("", onStop)
	p.stopButton.Icon = theme.MediaStopIcon()
	p.stopButton.SetToolTip("Stop pronunciation")

	p.statusLabel = widget.NewLabel("No result yet")

	p.playButton.Disable()
	p.stopButton.Disable()

	p.container = container.NewHBox(
		p.playButton,
		p.stopButton,
		layout.NewSpacer(),
		p.statusLabel,
	)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *PronounceBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetReady enables the play control once a result is available.
func (p *PronounceBar) SetReady(ready bool) {
	if ready {
		p.playButton.Enable()
		p.statusLabel.SetText("Audio ready")
	} else {
		p.playButton.Disable()
		p.stopButton.Disable()
		p.statusLabel.SetText("No result yet")
	}
}

// SetPlaying toggles the controls for an in-progress pronunciation.
func (p *PronounceBar) SetPlaying(playing bool) {
	if playing {
		p.stopButton.Enable()
		p.statusLabel.SetText("Speaking...")
	} else {
		p.stopButton.Disable()
		p.statusLabel.SetText("Audio ready")
	}
}
