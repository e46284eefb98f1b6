package audio

import (
	"context"
	"fmt"
	"os"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Provider names understood by NewProvider
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderESpeak = "espeak"
)

// Config holds common configuration for audio providers
type Config struct {
	Provider string // "openai", "gemini" or "espeak"
	Fallback string // optional provider used when Provider fails

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// Gemini-specific settings
	GeminiKey         string
	GeminiModel       string
	GeminiVoice       string // prebuilt voice, e.g. "Kore" or "Puck"
	GeminiInstruction string // style prompt placed before the text

	// espeak-ng settings. Zero speed or pitch keeps the espeak-ng default.
	ESpeakVoice string // "cmn" is Mandarin
	ESpeakSpeed int    // words per minute, 80 to 450
	ESpeakPitch int    // 0 to 99

	CacheDir    string
	EnableCache bool
}

const mandarinInstruction = "You are speaking Mandarin Chinese as spoken in Taiwan (臺灣華語). " +
	"Pronounce every syllable with its standard tone. Speak slowly and clearly for language learners."

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "nova",
		OpenAISpeed:       0.9,
		OpenAIInstruction: mandarinInstruction,
		GeminiModel:       "gemini-2.5-flash-preview-tts",
		GeminiVoice:       "Kore",
		GeminiInstruction: "Say clearly, in Taiwanese Mandarin, for a language learner",
		ESpeakVoice:       "cmn",
		ESpeakSpeed:       130,
		ESpeakPitch:       50,
	}
}

// NewProvider creates the appropriate audio provider based on configuration.
// When a fallback is configured and can be created, the result tries the
// fallback after the primary fails.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	primary, err := newSingleProvider(config.Provider, config)
	if err != nil {
		return nil, err
	}

	if config.Fallback == "" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newSingleProvider(config.Fallback, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Fallback provider %s unavailable: %v\n", config.Fallback, err)
		return primary, nil
	}
	return NewProviderWithFallback(primary, fallback), nil
}

func newSingleProvider(name string, config *Config) (Provider, error) {
	switch name {
	case ProviderOpenAI:
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	case ProviderGemini:
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(config)

	case ProviderESpeak:
		return NewESpeakProvider(config.espeakConfig())

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

// espeakConfig translates the espeak-ng settings of config
func (config *Config) espeakConfig() *ESpeakConfig {
	c := DefaultConfig()
	if config.ESpeakVoice != "" {
		c.Voice = config.ESpeakVoice
	}
	if config.ESpeakSpeed != 0 {
		c.SetSpeed(config.ESpeakSpeed)
	}
	if config.ESpeakPitch != 0 {
		c.SetPitch(config.ESpeakPitch)
	}
	return c
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}

	fmt.Printf("Primary provider (%s) failed: %v. Falling back to %s\n",
		p.primary.Name(), err, p.fallback.Name())

	return p.fallback.GenerateAudio(ctx, text, outputFile)
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
