// Package gui implements the fyne desktop interface.
package gui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/wordwire/internal"
	"codeberg.org/snonux/wordwire/internal/history"
	"codeberg.org/snonux/wordwire/internal/language"
	"codeberg.org/snonux/wordwire/internal/provider"
	"codeberg.org/snonux/wordwire/internal/speech"
	"codeberg.org/snonux/wordwire/internal/translator"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	textInput       *widget.Entry
	fromSelect      *widget.Select
	toSelect        *widget.Select
	swapButton      *ttwidget.Button
	translateButton *ttwidget.Button
	meaningLabel    *widget.Label
	phoneticLabel   *widget.Label
	detailsEntry    *widget.Entry
	pronounceBar    *PronounceBar
	statusLabel     *widget.Label
	historyList     *widget.List

	// State management
	currentResult  *provider.Result
	historyEntries []history.Entry

	// Configuration
	config *Config

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

// Config holds GUI application configuration
type Config struct {
	Table    *language.Table
	Service  *translator.Service
	Speaker  *speech.Speaker
	History  *history.Store // may be nil
	From     string
	To       string
	AutoPlay bool
}

// New creates a new GUI application
func New(config *Config) *Application {
	if config.From == "" {
		config.From = language.Auto
	}
	if config.To == "" {
		config.To = "en"
	}

	ctx, cancel := context.WithCancel(context.Background())

	myApp := app.NewWithID("org.codeberg.snonux.wordwire")

	a := &Application{
		app:    myApp,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	a.setupUI()
	a.refreshHistory()

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("wordwire v%s", internal.Version))

	a.textInput = widget.NewMultiLineEntry()
	a.textInput.SetPlaceHolder("Enter text to translate...")
	a.textInput.Wrapping = fyne.TextWrapWord
	a.textInput.OnSubmitted = func(string) { a.onTranslate() }

	fromOptions := append([]string{language.Auto}, a.config.Table.Supported()...)
	a.fromSelect = widget.NewSelect(fromOptions, nil)
	a.fromSelect.SetSelected(a.config.From)

	a.toSelect = widget.NewSelect(a.config.Table.Supported(), nil)
	a.toSelect.SetSelected(a.config.To)

	a.swapButton = ttwidget.NewButton("", a.onSwap)
	a.swapButton.Icon = theme.ViewRefreshIcon()
	a.swapButton.SetToolTip("Swap languages")

	a.translateButton = ttwidget.NewButton("Translate", a.onTranslate)
	a.translateButton.Icon = theme.ConfirmIcon()
	a.translateButton.SetToolTip("Translate the text (Enter)")

	a.meaningLabel = widget.NewLabel("")
	a.meaningLabel.TextStyle = fyne.TextStyle{Bold: true}
	a.meaningLabel.Wrapping = fyne.TextWrapWord

	a.phoneticLabel = widget.NewLabel("")

	a.detailsEntry = widget.NewMultiLineEntry()
	a.detailsEntry.Wrapping = fyne.TextWrapWord
	a.detailsEntry.Disable()

	a.pronounceBar = NewPronounceBar(a.onPronounce, a.onStopAudio)

	a.statusLabel = widget.NewLabel("Ready")

	a.historyList = widget.NewList(
		func() int { return len(a.historyEntries) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			e := a.historyEntries[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s = %s", e.Original, e.Meaning))
		},
	)
	a.historyList.OnSelected = func(i widget.ListItemID) {
		e := a.historyEntries[i]
		a.textInput.SetText(e.Original)
		a.historyList.Unselect(i)
	}

	languageBar := container.NewHBox(
		widget.NewLabel("From:"), a.fromSelect,
		a.swapButton,
		widget.NewLabel("To:"), a.toSelect,
		a.translateButton,
	)

	resultBox := container.NewVBox(
		a.meaningLabel,
		a.phoneticLabel,
		a.pronounceBar,
	)

	top := container.NewVBox(
		a.textInput,
		languageBar,
		widget.NewSeparator(),
		resultBox,
	)

	split := container.NewVSplit(
		container.NewBorder(top, nil, nil, nil, a.detailsEntry),
		container.NewBorder(widget.NewLabel("Recent lookups"), nil, nil, nil, a.historyList),
	)
	split.SetOffset(0.7)

	content := container.NewBorder(nil, a.statusLabel, nil, nil, split)
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.window.Resize(fyne.NewSize(640, 560))
	a.window.CenterOnScreen()
}

// Run starts the GUI event loop. It blocks until the window closes.
func (a *Application) Run() {
	a.window.SetCloseIntercept(func() {
		a.cancel()
		a.config.Speaker.Player().Stop()
		a.window.Close()
	})
	a.window.ShowAndRun()
}

// onTranslate translates the entered text in the background.
func (a *Application) onTranslate() {
	text := strings.TrimSpace(a.textInput.Text)
	if text == "" {
		a.statusLabel.SetText("Nothing to translate")
		return
	}

	from := a.fromSelect.Selected
	to := a.toSelect.Selected

	a.translateButton.Disable()
	a.statusLabel.SetText("Translating...")

	go func() {
		result, err := a.config.Service.Translate(a.ctx, text, from, to)

		fyne.Do(func() {
			a.translateButton.Enable()
			if err != nil {
				a.statusLabel.SetText(fmt.Sprintf("Error: %v", err))
				return
			}
			a.showResult(result)
		})

		if err == nil && a.config.History != nil {
			if recErr := a.config.History.Record(a.ctx, result); recErr == nil {
				fyne.Do(a.refreshHistory)
			}
		}

		if err == nil && a.config.AutoPlay {
			a.pronounce(result)
		}
	}()
}

// showResult updates the result widgets. Must run on the fyne thread.
func (a *Application) showResult(result *provider.Result) {
	a.mu.Lock()
	a.currentResult = result
	a.mu.Unlock()

	a.meaningLabel.SetText(result.Meaning)
	if result.Phonetic != "" {
		a.phoneticLabel.SetText("[" + result.Phonetic + "]")
	} else {
		a.phoneticLabel.SetText("")
	}

	a.detailsEntry.SetText(formatDetails(result))
	a.pronounceBar.SetReady(true)

	if result.SourceTag != "" && result.SourceTag != language.Auto {
		a.statusLabel.SetText(fmt.Sprintf("Translated %s -> %s", result.SourceTag, result.TargetTag))
	} else {
		a.statusLabel.SetText("Translated")
	}
}

// onPronounce speaks the original text of the current result.
func (a *Application) onPronounce() {
	a.mu.Lock()
	result := a.currentResult
	a.mu.Unlock()
	if result == nil {
		return
	}
	go a.pronounce(result)
}

func (a *Application) pronounce(result *provider.Result) {
	tag := result.SourceTag
	if tag == "" || tag == language.Auto {
		tag = "en"
	}

	fyne.Do(func() {
		a.pronounceBar.SetPlaying(true)
		a.statusLabel.SetText("Speaking...")
	})

	err := a.config.Speaker.Pronounce(a.ctx, result.Original, tag)
	if err == nil {
		a.config.Speaker.Player().Wait()
	}

	fyne.Do(func() {
		a.pronounceBar.SetPlaying(false)
		if err != nil {
			a.statusLabel.SetText(fmt.Sprintf("Speech error: %v", err))
		} else {
			a.statusLabel.SetText("Ready")
		}
	})
}

// onStopAudio stops any in-progress pronunciation.
func (a *Application) onStopAudio() {
	a.config.Speaker.Player().Stop()
	a.pronounceBar.SetPlaying(false)
}

// onSwap exchanges the selected languages. Auto cannot be a target, so
// swapping away from auto substitutes the detected or default source.
func (a *Application) onSwap() {
	from := a.fromSelect.Selected
	to := a.toSelect.Selected

	if from == language.Auto {
		a.mu.Lock()
		if a.currentResult != nil && a.currentResult.SourceTag != "" &&
			a.currentResult.SourceTag != language.Auto {
			from = a.currentResult.SourceTag
		} else {
			from = "en"
		}
		a.mu.Unlock()
	}

	a.fromSelect.SetSelected(to)
	a.toSelect.SetSelected(from)
}

// refreshHistory reloads the recent lookup list. Must run on the fyne
// thread.
func (a *Application) refreshHistory() {
	if a.config.History == nil {
		return
	}

	entries, err := a.config.History.Recent(a.ctx, 50)
	if err != nil {
		return
	}
	a.historyEntries = entries
	a.historyList.Refresh()
}

// formatDetails renders the optional result sections as plain text.
func formatDetails(result *provider.Result) string {
	var b strings.Builder

	for _, def := range result.Definitions {
		fmt.Fprintf(&b, "%s: %s\n", def.Pos, strings.Join(def.Terms, ", "))
	}
	if len(result.Definitions) > 0 && len(result.Examples) > 0 {
		b.WriteString("\n")
	}
	for _, ex := range result.Examples {
		fmt.Fprintf(&b, "%s\n%s\n\n", ex.Source, ex.Target)
	}
	if len(result.Suggestions) > 0 {
		fmt.Fprintf(&b, "Did you mean: %s\n", strings.Join(result.Suggestions, ", "))
	}

	return strings.TrimRight(b.String(), "\n")
}
