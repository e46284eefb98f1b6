package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/zhuyin/internal"
)

// Runner executes the work behind each command
type Runner interface {
	Study(ctx context.Context) error
	ListCards(ctx context.Context) error
	Paths(ctx context.Context) error
	Generate(ctx context.Context) error
	Export(ctx context.Context) error
	ShowSettings(ctx context.Context) error
	SetSetting(ctx context.Context, name, value string) error
	ResetSettings(ctx context.Context) error
	ListModels(ctx context.Context) error
	ListArchives(ctx context.Context) error
}

// CreateRootCommand creates and configures the root cobra command with
// all subcommands
func CreateRootCommand(flags *Flags, runner Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zhuyin",
		Short: "Zhuyin (Bopomofo) flashcards",
		Long: `zhuyin is a study tool for the Zhuyin phonetic system used in Taiwan.

It shows consonant, vowel and tone cards with example words and sentences,
plays their recordings, synthesizes missing recordings with a TTS provider
and exports the deck to Anki.

Examples:
  zhuyin                              # Study all cards in a window
  zhuyin --filter tones --shuffle
  zhuyin study --tui                  # Study in the terminal
  zhuyin paths --missing              # Audio files still to be generated
  zhuyin generate --provider espeak   # Synthesize missing audio offline
  zhuyin export --output zhuyin.apkg`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Study(cmd.Context())
		},
		SilenceUsage: true,
	}

	setupFlags(rootCmd, flags)

	// zhuyin alone studies, so the study flags work without the subcommand
	study := studyFlags(flags)
	rootCmd.Flags().AddFlagSet(study)

	rootCmd.AddCommand(
		newStudyCommand(study, runner),
		newCardsCommand(runner),
		newPathsCommand(flags, runner),
		newGenerateCommand(flags, runner),
		newExportCommand(flags, runner),
		newSettingsCommand(runner),
		newModelsCommand(runner),
		newArchivesCommand(runner),
	)

	bindFlagsToViper(rootCmd)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.zhuyin.yaml)")
	cmd.PersistentFlags().StringVar(&flags.DataFile, "data", flags.DataFile, "Data file path or http(s) URL")
	cmd.PersistentFlags().StringVar(&flags.AudioDir, "audio-dir", flags.AudioDir, "Root directory of the audio files")
	cmd.PersistentFlags().StringVar(&flags.Filter, "filter", flags.Filter, "Card category: all, consonants, vowels or tones")
	cmd.PersistentFlags().StringVar(&flags.SettingsBackend, "settings-backend", flags.SettingsBackend, "Preference store: file or sqlite")
	cmd.PersistentFlags().StringVar(&flags.SettingsPath, "settings-path", "", "Preference store location (default is in $XDG_CONFIG_HOME/zhuyin)")
}

// studyFlags are shared by the root command and study. Both commands hold
// the same *pflag.Flag values, so a viper binding sees either.
func studyFlags(flags *Flags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("study", pflag.ContinueOnError)
	fs.BoolVar(&flags.Shuffle, "shuffle", false, "Shuffle the cards before starting")
	fs.StringVar(&flags.Player, "player", "", "Audio player command, e.g. 'mpg123 -q' (default: auto-detect)")
	fs.BoolVar(&flags.TUI, "tui", false, "Study in the terminal instead of a window")
	return fs
}

func newStudyCommand(study *pflag.FlagSet, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Start an interactive study session",
		Long: `Opens the study window. Without a display, or with --tui, the session
runs in the terminal instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Study(cmd.Context())
		},
	}
	cmd.Flags().AddFlagSet(study)
	return cmd
}

func newCardsCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List the cards of the selected category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.ListCards(cmd.Context())
		},
	}
}

func newPathsCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print every audio file the cards refer to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Paths(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&flags.Missing, "missing", false, "Only print files that do not exist yet")
	return cmd
}

func newGenerateCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize missing audio files with a TTS provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Generate(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&flags.FixVowels, "fix-vowels", false, "Regenerate the isolated vowel sounds")
	cmd.Flags().BoolVar(&flags.Clean, "clean", false, "Archive the audio directory before generating")
	cmd.Flags().DurationVar(&flags.Delay, "delay", flags.Delay, "Pause between provider requests")
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "TTS provider: openai, gemini or espeak")
	cmd.Flags().StringVar(&flags.Fallback, "fallback", "", "TTS provider used when the primary fails")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, coral, echo, fable, nova, onyx, sage, shimmer")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts model")

	// Gemini flags
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini TTS model")
	cmd.Flags().StringVar(&flags.GeminiVoice, "gemini-voice", flags.GeminiVoice, "Gemini prebuilt voice, e.g. Kore or Puck")

	// espeak-ng flags
	cmd.Flags().StringVar(&flags.ESpeakVoice, "espeak-voice", flags.ESpeakVoice, "espeak-ng voice: cmn, cmn+m1, cmn+m2, cmn+f1, cmn+f2")
	cmd.Flags().IntVar(&flags.ESpeakSpeed, "espeak-speed", flags.ESpeakSpeed, "espeak-ng speed in words per minute (80 to 450)")
	cmd.Flags().IntVar(&flags.ESpeakPitch, "espeak-pitch", flags.ESpeakPitch, "espeak-ng pitch (0 to 99)")
	return cmd
}

func newExportCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the cards to Anki",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Export(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&flags.AnkiCSV, "csv", false, "Write a CSV import folder with media instead of an .apkg file")
	cmd.Flags().StringVarP(&flags.OutputPath, "output", "o", flags.OutputPath, "Output .apkg file, or folder with --csv")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	return cmd
}

func newSettingsCommand(runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved study preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.ShowSettings(cmd.Context())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the saved preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.ShowSettings(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "set <showPinyin|overviewMode> <true|false>",
			Short: "Change one preference",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.SetSetting(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget the saved preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner.ResetSettings(cmd.Context())
			},
		},
	)
	return cmd
}

func newModelsCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available OpenAI TTS models for the current API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.ListModels(cmd.Context())
		},
	}
}

func newArchivesCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "archives",
		Short: "List the audio directories archived by generate --clean",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.ListArchives(cmd.Context())
		},
	}
}

// viperBindings maps config keys to flags. An empty command means a
// persistent flag of the root command.
var viperBindings = []struct {
	key, command, flag string
}{
	{"data.file", "", "data"},
	{"audio.dir", "", "audio-dir"},
	{"settings.backend", "", "settings-backend"},
	{"settings.path", "", "settings-path"},
	{"audio.player", "study", "player"},
	{"study.tui", "study", "tui"},
	{"audio.provider", "generate", "provider"},
	{"audio.fallback", "generate", "fallback"},
	{"audio.delay", "generate", "delay"},
	{"audio.openai_model", "generate", "openai-model"},
	{"audio.openai_voice", "generate", "openai-voice"},
	{"audio.openai_speed", "generate", "openai-speed"},
	{"audio.openai_instruction", "generate", "openai-instruction"},
	{"audio.gemini_model", "generate", "gemini-model"},
	{"audio.gemini_voice", "generate", "gemini-voice"},
	{"audio.espeak_voice", "generate", "espeak-voice"},
	{"audio.espeak_speed", "generate", "espeak-speed"},
	{"audio.espeak_pitch", "generate", "espeak-pitch"},
	{"anki.deck_name", "export", "deck-name"},
}

func bindFlagsToViper(root *cobra.Command) {
	for _, b := range viperBindings {
		var flag *pflag.Flag
		if b.command == "" {
			flag = root.PersistentFlags().Lookup(b.flag)
		} else if sub := subcommand(root, b.command); sub != nil {
			flag = sub.Flags().Lookup(b.flag)
		}
		if flag != nil {
			viper.BindPFlag(b.key, flag)
		}
	}
}

func subcommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".zhuyin" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".zhuyin")
	}

	// Environment variables, ZHUYIN_AUDIO_DIR overrides audio.dir
	viper.SetEnvPrefix("ZHUYIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("audio.gemini_key")
}
