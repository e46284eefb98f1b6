package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/zhuyin/internal/anki"
	"codeberg.org/snonux/zhuyin/internal/archive"
	"codeberg.org/snonux/zhuyin/internal/audio"
	"codeberg.org/snonux/zhuyin/internal/audiopath"
	"codeberg.org/snonux/zhuyin/internal/cards"
	"codeberg.org/snonux/zhuyin/internal/cli"
	"codeberg.org/snonux/zhuyin/internal/deck"
	"codeberg.org/snonux/zhuyin/internal/generator"
	"codeberg.org/snonux/zhuyin/internal/gui"
	"codeberg.org/snonux/zhuyin/internal/models"
	"codeberg.org/snonux/zhuyin/internal/player"
	"codeberg.org/snonux/zhuyin/internal/settings"
	"codeberg.org/snonux/zhuyin/internal/study"
	"codeberg.org/snonux/zhuyin/internal/taxonomy"
)

// Processor runs the commands of the zhuyin CLI
type Processor struct {
	flags  *cli.Flags
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	newProvider func(config *audio.Config) (audio.Provider, error)
	newBackend  func(command string) player.Backend
	hasDisplay  func() bool
}

// NewProcessor creates a processor reading commands from stdin and
// printing to stdout and stderr
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{
		flags:       flags,
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		now:         time.Now,
		newProvider: audio.NewProvider,
		newBackend: func(command string) player.Backend {
			return player.CommandBackend{Command: command}
		},
		hasDisplay: hasDisplay,
	}
}

// Study opens the study window, or runs the session in the terminal with
// --tui or without a display
func (p *Processor) Study(ctx context.Context) error {
	state, err := p.loadDeck(ctx)
	if err != nil {
		return err
	}
	if p.flags.Shuffle {
		state.Shuffle()
	}

	store, err := p.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	backend := p.newBackend(configString("audio.player", p.flags.Player))

	if !p.terminalStudy() {
		gui.New(gui.Config{
			State:    state,
			Resolver: p.resolver(),
			Backend:  backend,
			Store:    store,
			Out:      p.errOut,
		}).Run(ctx)
		return nil
	}

	opts := study.Options{In: p.in, Out: p.out}
	if f, ok := p.out.(*os.File); ok {
		opts.Width = study.TerminalWidth(f)
		opts.Color = study.IsTerminal(f)
	}

	session := study.New(state, p.resolver(), player.New(backend, p.out), store, opts)

	fmt.Fprintln(p.out, "Press h for help, q to quit.")
	return session.Run(ctx)
}

// terminalStudy reports whether the study session runs in the terminal
func (p *Processor) terminalStudy() bool {
	if p.flags.TUI || viper.GetBool("study.tui") {
		return true
	}
	if !p.hasDisplay() {
		fmt.Fprintln(p.errOut, "Warning: No display found, studying in the terminal")
		return true
	}
	return false
}

// hasDisplay reports whether a window can be opened. Only X11 and Wayland
// sessions need a display variable.
func hasDisplay() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// ListCards prints the cards of the selected category
func (p *Processor) ListCards(ctx context.Context) error {
	state, err := p.loadDeck(ctx)
	if err != nil {
		return err
	}

	list := state.Cards()
	fmt.Fprintf(p.out, "%s: %d cards\n", state.Category().Label(), len(list))
	for i, c := range list {
		line := fmt.Sprintf("%3d. %s  %s", i+1, c.Zhuyin, c.Pinyin)
		if w := c.ExampleWord; w != nil {
			line += fmt.Sprintf("  %s (%s)", w.Characters, w.Pinyin)
			if w.Meaning != "" {
				line += " " + w.Meaning
			}
		}
		fmt.Fprintln(p.out, line)
	}

	return nil
}

// Paths prints every audio file the selected cards refer to
func (p *Processor) Paths(ctx context.Context) error {
	state, err := p.loadDeck(ctx)
	if err != nil {
		return err
	}

	assets := p.resolver().Manifest(state.Cards())
	missing := generator.Missing(assets)

	shown := assets
	if p.flags.Missing {
		shown = missing
	}
	for _, a := range shown {
		fmt.Fprintf(p.out, "%-16s %s\n", a.Kind, a.Path)
	}

	fmt.Fprintf(p.errOut, "%d audio files, %d missing\n", len(assets), len(missing))
	return nil
}

// Generate synthesizes the missing audio files of the selected cards
func (p *Processor) Generate(ctx context.Context) error {
	audioDir := p.resolver().Base

	if p.flags.Clean {
		if err := p.archiveAudio(audioDir); err != nil {
			return err
		}
	}

	state, err := p.loadDeck(ctx)
	if err != nil {
		return err
	}
	assets := p.resolver().Manifest(state.Cards())

	providerConfig := p.providerConfig()
	provider, err := p.newProvider(providerConfig)
	if err != nil {
		return fmt.Errorf("failed to create audio provider: %w", err)
	}
	if err := provider.IsAvailable(); err != nil {
		return fmt.Errorf("audio provider %s is not available: %w", provider.Name(), err)
	}

	opts := generator.DefaultOptions()
	opts.Delay = p.delay()
	opts.Output = p.out
	gen := generator.New(provider, opts)

	fmt.Fprintf(p.out, "Generating audio with %s into %s\n", provider.Name(), audioDir)

	var stats generator.Stats
	if p.flags.FixVowels {
		vowels := generator.Select(assets, func(a audiopath.Asset) bool {
			return a.Kind == audiopath.KindZhuyinSound && a.Category == cards.Vowels
		})
		stats, err = gen.Regenerate(ctx, vowels)
	} else {
		stats, err = gen.Run(ctx, assets)
	}

	p.printSummary(stats, audioDir, providerConfig)
	return err
}

func (p *Processor) archiveAudio(audioDir string) error {
	if _, err := os.Stat(audioDir); os.IsNotExist(err) {
		return nil
	}

	dest, err := archive.Move(audioDir, p.now())
	if err != nil {
		return fmt.Errorf("failed to archive audio directory: %w", err)
	}
	fmt.Fprintf(p.out, "Archived %s to %s\n", audioDir, dest)
	return nil
}

func (p *Processor) printSummary(stats generator.Stats, audioDir string, config *audio.Config) {
	fmt.Fprintf(p.out, "\n=== Audio Generation Summary ===\n")
	fmt.Fprintf(p.out, "Total files: %d\n", stats.Total())
	fmt.Fprintf(p.out, "Generated: %d\n", stats.Generated)
	fmt.Fprintf(p.out, "Skipped (already exist): %d\n", stats.Skipped)
	if stats.Failed > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", stats.Failed)
	}

	counts, err := generator.DirectoryStats(audioDir)
	if err != nil {
		fmt.Fprintf(p.errOut, "Warning: Could not count audio files: %v\n", err)
	} else {
		for _, c := range counts {
			fmt.Fprintf(p.out, "  %-28s %d files\n", c.Dir, c.Files)
		}
	}

	if cache, err := audio.NewCache(config); err == nil && cache != nil {
		if files, size, err := cache.Stats(); err == nil {
			fmt.Fprintf(p.out, "TTS cache: %d files, %.1f MB in %s\n", files, float64(size)/(1<<20), cache.Dir)
		}
	}
	fmt.Fprintf(p.out, "================================\n")
}

// ListArchives prints the archived audio directories, oldest first
func (p *Processor) ListArchives(ctx context.Context) error {
	audioDir := p.resolver().Base

	archives, err := archive.List(audioDir)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		fmt.Fprintf(p.out, "No archives of %s in %s\n", audioDir, archive.Dir(audioDir))
		return nil
	}

	for _, a := range archives {
		fmt.Fprintln(p.out, a)
	}
	return nil
}

// Export writes the selected cards as an Anki package
func (p *Processor) Export(ctx context.Context) error {
	state, err := p.loadDeck(ctx)
	if err != nil {
		return err
	}

	gen := anki.NewGenerator(nil)
	gen.AddCards(state.Cards(), p.resolver())

	outputPath := p.flags.OutputPath
	if p.flags.AnkiCSV {
		if outputPath == cli.NewFlags().OutputPath {
			outputPath = "zhuyin_anki"
		}
		if err := gen.GeneratePackage(outputPath); err != nil {
			return fmt.Errorf("failed to generate CSV package: %w", err)
		}
	} else {
		deckName := configString("anki.deck_name", p.flags.DeckName)
		if err := gen.GenerateAPKG(outputPath, deckName); err != nil {
			return fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withAudio, withWordAudio := gen.Stats()
	fmt.Fprintf(p.out, "Generated %d cards (%d with audio, %d with word audio)\n", total, withAudio, withWordAudio)
	fmt.Fprintf(p.out, "Anki package created: %s\n", outputPath)
	return nil
}

// ShowSettings prints the saved study preferences
func (p *Processor) ShowSettings(ctx context.Context) error {
	store, err := p.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p.printSettings(settings.Load(store, p.errOut))
	return nil
}

// SetSetting changes one study preference
func (p *Processor) SetSetting(ctx context.Context, name, value string) error {
	store, err := p.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	s := settings.Load(store, p.errOut)
	if err := s.Set(name, value); err != nil {
		return err
	}
	if err := settings.Save(store, s); err != nil {
		return err
	}

	p.printSettings(s)
	return nil
}

// ResetSettings forgets the saved preferences
func (p *Processor) ResetSettings(ctx context.Context) error {
	store, err := p.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := settings.Reset(store); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "Settings reset to defaults")
	p.printSettings(settings.Defaults())
	return nil
}

func (p *Processor) printSettings(s settings.Settings) {
	fmt.Fprintf(p.out, "showPinyin: %t\n", s.ShowPinyin)
	fmt.Fprintf(p.out, "overviewMode: %t\n", s.OverviewMode)
}

// ListModels prints the OpenAI models able to synthesize speech
func (p *Processor) ListModels(ctx context.Context) error {
	return models.NewLister(cli.GetOpenAIKey()).ListAvailableModels(ctx)
}

// Helper methods

func (p *Processor) loadDeck(ctx context.Context) (*deck.State, error) {
	category, err := cards.ParseCategory(p.flags.Filter)
	if err != nil {
		return nil, err
	}

	tax, err := taxonomy.Load(ctx, configString("data.file", p.flags.DataFile))
	if err != nil {
		return nil, err
	}

	state := deck.New(tax)
	if err := state.Filter(category); err != nil {
		return nil, err
	}
	return state, nil
}

func (p *Processor) resolver() audiopath.Resolver {
	return audiopath.NewResolver(configString("audio.dir", p.flags.AudioDir))
}

func (p *Processor) openStore() (settings.Store, error) {
	store, err := settings.Open(
		configString("settings.backend", p.flags.SettingsBackend),
		configString("settings.path", p.flags.SettingsPath),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	return store, nil
}

func (p *Processor) providerConfig() *audio.Config {
	config := audio.DefaultProviderConfig()

	config.Provider = configString("audio.provider", p.flags.Provider)
	config.Fallback = configString("audio.fallback", p.flags.Fallback)

	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIModel = configString("audio.openai_model", p.flags.OpenAIModel)
	config.OpenAIVoice = configString("audio.openai_voice", p.flags.OpenAIVoice)
	config.OpenAISpeed = p.flags.OpenAISpeed
	if viper.IsSet("audio.openai_speed") {
		config.OpenAISpeed = viper.GetFloat64("audio.openai_speed")
	}
	if instruction := configString("audio.openai_instruction", p.flags.OpenAIInstruction); instruction != "" {
		config.OpenAIInstruction = instruction
	}

	config.GeminiKey = cli.GetGeminiKey()
	config.GeminiModel = configString("audio.gemini_model", p.flags.GeminiModel)
	config.GeminiVoice = configString("audio.gemini_voice", p.flags.GeminiVoice)

	config.ESpeakVoice = configString("audio.espeak_voice", p.flags.ESpeakVoice)
	config.ESpeakSpeed = p.flags.ESpeakSpeed
	if viper.IsSet("audio.espeak_speed") {
		config.ESpeakSpeed = viper.GetInt("audio.espeak_speed")
	}
	config.ESpeakPitch = p.flags.ESpeakPitch
	if viper.IsSet("audio.espeak_pitch") {
		config.ESpeakPitch = viper.GetInt("audio.espeak_pitch")
	}

	config.EnableCache = viper.GetBool("audio.enable_cache")
	config.CacheDir = viper.GetString("audio.cache_dir")

	return config
}

func (p *Processor) delay() time.Duration {
	if viper.IsSet("audio.delay") {
		return viper.GetDuration("audio.delay")
	}
	return p.flags.Delay
}

// configString returns the viper value of key, which includes bound flags,
// or fallback when it is empty
func configString(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}
