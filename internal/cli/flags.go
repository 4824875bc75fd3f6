package cli

import (
	"codeberg.org/snonux/wordwire/internal/language"
	"codeberg.org/snonux/wordwire/internal/session"
	"codeberg.org/snonux/wordwire/internal/speech"
	"codeberg.org/snonux/wordwire/internal/translator"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile     string
	From        string
	To          string
	Detect      bool
	Speak       bool
	BatchFile   string
	Languages   bool
	ListVoices  bool
	ShowHistory bool
	HistoryN    int
	ExportCSV   string
	Archive     bool
	HistoryPath string
	NoAutoPlay  bool

	// Provider endpoint flags
	BaseURL     string
	UIDCookie   string
	TokenCookie string

	// Speech flags
	SpeechProvider string
	SpeechCookie   string
	OpenAIModel    string
	OpenAIVoice    string
	OpenAISpeed    float64
	ESpeakSpeed    int

	// Gemini fallback flags
	GeminiModel string
}

// DefaultBaseURL is the provider deployment the session cookies belong to.
const DefaultBaseURL = "https://fanyi.sogou.com"

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		From:           language.Auto,
		BaseURL:        DefaultBaseURL,
		To:             "en",
		HistoryN:       20,
		UIDCookie:      session.DefaultUIDCookie,
		TokenCookie:    session.DefaultTokenCookie,
		SpeechProvider: "web",
		SpeechCookie:   speech.DefaultSpeechCookie,
		OpenAIModel:    "gpt-4o-mini-tts",
		OpenAIVoice:    "alloy",
		OpenAISpeed:    1.0,
		ESpeakSpeed:    150,
		GeminiModel:    translator.DefaultGeminiModel,
	}
}
