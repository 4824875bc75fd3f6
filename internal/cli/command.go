// Package cli builds the cobra command surface and the viper config layer.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/wordwire/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wordwire [text]",
		Short: "Web translation and pronunciation tool",
		Long: `wordwire translates text through a web translation provider and
plays pronunciation audio for the results.

It scrapes its session credentials from the provider's own cookies, so no
API key is needed for the primary provider. Gemini and OpenAI keys enable
the translation and speech fallbacks.

Examples:
  wordwire                        # Launch interactive GUI (default)
  wordwire "hello world"          # Translate via CLI
  wordwire --to de "hello"        # Translate to German
  wordwire --detect "bonjour"     # Detect the source language
  wordwire --speak "hello"        # Play pronunciation audio
  wordwire --batch phrases.txt    # Translate a file line by line`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wordwire.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.From, "from", "s", flags.From, "Source language tag (auto to detect)")
	cmd.Flags().StringVarP(&flags.To, "to", "t", flags.To, "Target language tag")
	cmd.Flags().BoolVarP(&flags.Detect, "detect", "d", false, "Only detect the source language")
	cmd.Flags().BoolVar(&flags.Speak, "speak", false, "Play pronunciation audio for the text")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate phrases from file (one per line)")
	cmd.Flags().BoolVar(&flags.Languages, "languages", false, "List supported language tags")
	cmd.Flags().BoolVar(&flags.ListVoices, "list-voices", false, "List OpenAI TTS voices for the speech fallback")
	cmd.Flags().BoolVar(&flags.ShowHistory, "history", false, "List recent lookups")
	cmd.Flags().IntVar(&flags.HistoryN, "history-limit", flags.HistoryN, "Number of history entries to list")
	cmd.Flags().StringVar(&flags.ExportCSV, "export-csv", "", "Export lookup history as CSV to file ('-' for stdout)")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive the lookup history database and start fresh")
	cmd.Flags().StringVar(&flags.HistoryPath, "history-db", "", "Lookup history database path")
	cmd.Flags().BoolVar(&flags.NoAutoPlay, "no-auto-play", false, "Disable automatic pronunciation playback in GUI mode")

	// Provider endpoint flags
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", flags.BaseURL, "Translation provider base URL")
	cmd.Flags().StringVar(&flags.UIDCookie, "uid-cookie", flags.UIDCookie, "Cookie carrying the session uid")
	cmd.Flags().StringVar(&flags.TokenCookie, "token-cookie", flags.TokenCookie, "Cookie carrying the session token")

	// Speech flags
	cmd.Flags().StringVar(&flags.SpeechProvider, "speech-provider", flags.SpeechProvider, "Speech provider: web, openai or espeak")
	cmd.Flags().StringVar(&flags.SpeechCookie, "speech-cookie", flags.SpeechCookie, "Cookie carrying the speech session id")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")
	cmd.Flags().IntVar(&flags.ESpeakSpeed, "espeak-speed", flags.ESpeakSpeed, "espeak-ng speed in words per minute")

	// Gemini fallback flags
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for the translation fallback")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("provider.base_url", cmd.Flags().Lookup("base-url"))
	viper.BindPFlag("provider.uid_cookie", cmd.Flags().Lookup("uid-cookie"))
	viper.BindPFlag("provider.token_cookie", cmd.Flags().Lookup("token-cookie"))
	viper.BindPFlag("translate.from", cmd.Flags().Lookup("from"))
	viper.BindPFlag("translate.to", cmd.Flags().Lookup("to"))
	viper.BindPFlag("translate.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("speech.provider", cmd.Flags().Lookup("speech-provider"))
	viper.BindPFlag("speech.cookie", cmd.Flags().Lookup("speech-cookie"))
	viper.BindPFlag("speech.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("speech.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("speech.openai_speed", cmd.Flags().Lookup("openai-speed"))
	viper.BindPFlag("speech.espeak_speed", cmd.Flags().Lookup("espeak-speed"))
	viper.BindPFlag("history.path", cmd.Flags().Lookup("history-db"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wordwire" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wordwire")
	}

	// Environment variables
	viper.SetEnvPrefix("WORDWIRE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("speech.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translate.gemini_key")
}
