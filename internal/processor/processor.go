// Package processor turns parsed flags into translation runs.
package processor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/wordwire/internal/batch"
	"codeberg.org/snonux/wordwire/internal/cli"
	"codeberg.org/snonux/wordwire/internal/gui"
	"codeberg.org/snonux/wordwire/internal/history"
	"codeberg.org/snonux/wordwire/internal/language"
	"codeberg.org/snonux/wordwire/internal/provider"
	"codeberg.org/snonux/wordwire/internal/session"
	"codeberg.org/snonux/wordwire/internal/speech"
	"codeberg.org/snonux/wordwire/internal/translator"
)

// Processor holds the wired-up pipeline for one invocation.
type Processor struct {
	flags   *cli.Flags
	table   *language.Table
	client  *provider.Client
	service *translator.Service
	speaker *speech.Speaker
	store   *history.Store
}

// NewProcessor builds the pipeline from the parsed flags. The history
// store is opened lazily so read-only operations like --languages work
// even when the database directory is unwritable.
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	table := language.DefaultTable()

	baseURL := flags.BaseURL
	if v := viper.GetString("provider.base_url"); v != "" {
		baseURL = v
	}

	visitor, err := session.NewHTTPVisitor(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create page visitor: %w", err)
	}

	credStore := session.NewStore()
	refresher := session.NewRefresher(visitor, credStore, flags.UIDCookie, flags.TokenCookie)

	// API calls ride on the visitor's cookie jar, matching the page visit
	client, err := provider.NewClient(provider.Config{BaseURL: baseURL},
		table, credStore, refresher, visitor.Client())
	if err != nil {
		return nil, err
	}

	service := buildTranslatorService(client, flags)
	speaker, err := buildSpeaker(client, visitor, flags)
	if err != nil {
		return nil, err
	}

	return &Processor{
		flags:   flags,
		table:   table,
		client:  client,
		service: service,
		speaker: speaker,
	}, nil
}

func buildTranslatorService(client *provider.Client, flags *cli.Flags) *translator.Service {
	primary := translator.NewWebTranslator(client)

	var fallback translator.Translator
	if key := cli.GetGeminiKey(); key != "" {
		g, err := translator.NewGeminiTranslator(context.Background(), key, flags.GeminiModel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Gemini fallback unavailable: %v\n", err)
		} else {
			fallback = g
		}
	}

	return translator.NewService(primary, fallback)
}

func buildSpeaker(client *provider.Client, visitor session.PageVisitor, flags *cli.Flags) (*speech.Speaker, error) {
	config := speech.DefaultConfig()
	config.Provider = flags.SpeechProvider
	config.SpeechCookie = flags.SpeechCookie
	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIModel = flags.OpenAIModel
	config.OpenAIVoice = flags.OpenAIVoice
	config.OpenAISpeed = flags.OpenAISpeed
	config.ESpeakSpeed = flags.ESpeakSpeed

	p, err := buildSpeechProvider(client, visitor, config)
	if err != nil {
		return nil, err
	}

	return speech.NewSpeaker(p, client, speech.NewPlayer()), nil
}

// buildSpeechProvider assembles the fallback chain behind the selected
// primary: web falls back to OpenAI TTS when a key is configured, and
// OpenAI falls back to espeak-ng when installed.
func buildSpeechProvider(client *provider.Client, visitor session.PageVisitor, config *speech.Config) (speech.Provider, error) {
	switch config.Provider {
	case "web", "":
		p := speech.Provider(speech.NewWebProvider(client, visitor, config.SpeechCookie))
		if config.OpenAIKey != "" {
			if openaiProvider, err := speech.NewOpenAIProvider(config); err == nil {
				p = speech.NewProviderWithFallback(p, openaiProvider)
			}
		} else if espeak, err := speech.NewESpeakProvider(config); err == nil {
			p = speech.NewProviderWithFallback(p, espeak)
		}
		return p, nil
	case "openai":
		return speech.NewOpenAIProvider(config)
	case "espeak":
		return speech.NewESpeakProvider(config)
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", config.Provider)
	}
}

// historyStore opens the history database on first use.
func (p *Processor) historyStore() (*history.Store, error) {
	if p.store != nil {
		return p.store, nil
	}

	path := p.flags.HistoryPath
	if path == "" {
		path = viper.GetString("history.path")
	}
	if path == "" {
		path = history.DefaultPath()
	}

	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	p.store = store
	return store, nil
}

// Close releases the history database if it was opened.
func (p *Processor) Close() {
	if p.store != nil {
		p.store.Close()
		p.store = nil
	}
}

// ProcessSingle translates one phrase and prints the result.
func (p *Processor) ProcessSingle(ctx context.Context, text string) error {
	if p.flags.Detect {
		return p.DetectText(ctx, text)
	}

	result, err := p.service.Translate(ctx, text, p.flags.From, p.flags.To)
	if err != nil {
		return err
	}

	printResult(result)
	p.recordLookup(ctx, result)
	return nil
}

// SpeakOnly pronounces the text without printing a translation.
func (p *Processor) SpeakOnly(ctx context.Context, text string) error {
	tag := p.flags.From
	if tag == language.Auto {
		detected, err := p.client.Detect(ctx, text)
		if err != nil {
			return fmt.Errorf("language detection for speech failed: %w", err)
		}
		tag = detected
	}

	fmt.Printf("Speaking (%s): %s\n", tag, text)
	if err := p.speaker.Pronounce(ctx, text, tag); err != nil {
		return err
	}
	p.speaker.Player().Wait()
	return nil
}

// DetectText prints the detected canonical tag for the text.
func (p *Processor) DetectText(ctx context.Context, text string) error {
	tag, err := p.client.Detect(ctx, text)
	if err != nil {
		return err
	}
	fmt.Println(tag)
	return nil
}

// ProcessBatch translates each entry of the batch file.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		fmt.Printf("\nTranslating %d/%d: %s\n", i+1, len(entries), entry.Text)

		result, err := p.service.Translate(ctx, entry.Text, p.flags.From, p.flags.To)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error translating '%s': %v\n", entry.Text, err)
			errorCount++
			continue
		}

		printResult(result)
		if entry.Note != "" {
			fmt.Printf("  Note: %s\n", entry.Note)
		}
		p.recordLookup(ctx, result)
		processedCount++
	}

	fmt.Printf("\n=== Batch Summary ===\n")
	fmt.Printf("Total phrases: %d\n", len(entries))
	fmt.Printf("Translated: %d\n", processedCount)
	if errorCount > 0 {
		fmt.Printf("Errors: %d\n", errorCount)
	}
	fmt.Printf("=====================\n")

	return nil
}

// ShowHistory lists the most recent lookups.
func (p *Processor) ShowHistory(ctx context.Context) error {
	store, err := p.historyStore()
	if err != nil {
		return err
	}

	entries, err := store.Recent(ctx, p.flags.HistoryN)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No lookups recorded yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %s -> %s  %s = %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.SourceTag, e.TargetTag, e.Original, e.Meaning)
	}
	return nil
}

// ExportHistoryCSV exports the lookup log. A "-" path writes to stdout.
func (p *Processor) ExportHistoryCSV(ctx context.Context, path string) error {
	store, err := p.historyStore()
	if err != nil {
		return err
	}

	if path == "-" {
		return store.ExportCSV(ctx, os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := store.ExportCSV(ctx, f); err != nil {
		return err
	}
	fmt.Printf("History exported to: %s\n", path)
	return nil
}

// ArchiveHistory rotates the history database aside.
func (p *Processor) ArchiveHistory() error {
	path := p.flags.HistoryPath
	if path == "" {
		path = history.DefaultPath()
	}

	archived, err := history.Archive(path)
	if err != nil {
		return err
	}
	fmt.Printf("History archived to: %s\n", archived)
	return nil
}

// ListLanguages prints the supported canonical tags.
func (p *Processor) ListLanguages() {
	fmt.Printf("%s (detect source)\n", language.Auto)
	for _, tag := range p.table.Supported() {
		fmt.Println(tag)
	}
}

// ListVoices prints the OpenAI TTS voices usable for the speech fallback.
func (p *Processor) ListVoices() {
	for _, voice := range speech.Voices() {
		fmt.Println(voice)
	}
}

// RunGUIMode launches the GUI application.
func (p *Processor) RunGUIMode() error {
	store, err := p.historyStore()
	if err != nil {
		// The GUI still works without a lookup log
		fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		store = nil
	}

	app := gui.New(&gui.Config{
		Table:    p.table,
		Service:  p.service,
		Speaker:  p.speaker,
		History:  store,
		From:     p.flags.From,
		To:       p.flags.To,
		AutoPlay: !p.flags.NoAutoPlay,
	})
	app.Run()
	return nil
}

func (p *Processor) recordLookup(ctx context.Context, result *provider.Result) {
	store, err := p.historyStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
		return
	}
	if err := store.Record(ctx, result); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record lookup: %v\n", err)
	}
}

func printResult(result *provider.Result) {
	fmt.Printf("  %s\n", result.Meaning)
	if result.Phonetic != "" {
		fmt.Printf("  [%s]\n", result.Phonetic)
	}
	if result.SourceTag != "" && result.SourceTag != language.Auto {
		fmt.Printf("  (%s -> %s)\n", result.SourceTag, result.TargetTag)
	}

	for _, def := range result.Definitions {
		fmt.Printf("  %s: %s\n", def.Pos, strings.Join(def.Terms, ", "))
	}
	for _, ex := range result.Examples {
		fmt.Printf("  e.g. %s / %s\n", ex.Source, ex.Target)
	}
	if len(result.Suggestions) > 0 {
		fmt.Printf("  Did you mean: %s\n", strings.Join(result.Suggestions, ", "))
	}
}
