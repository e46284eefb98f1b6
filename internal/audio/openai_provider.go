package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider interface for OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
	cache  *Cache
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cache, err := NewCache(config)
	if err != nil {
		return nil, err
	}

	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
		cache:  cache,
	}, nil
}

// speechFormats maps output extensions to response formats
var speechFormats = map[string]openai.SpeechResponseFormat{
	".mp3":  openai.SpeechResponseFormatMp3,
	".wav":  openai.SpeechResponseFormatWav,
	".opus": openai.SpeechResponseFormatOpus,
	".aac":  openai.SpeechResponseFormatAac,
	".flac": openai.SpeechResponseFormatFlac,
}

// GenerateAudio generates audio using OpenAI TTS
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateMandarinText(text); err != nil {
		return err
	}

	format, ok := speechFormats[strings.ToLower(filepath.Ext(outputFile))]
	if !ok {
		format = openai.SpeechResponseFormatMp3
		outputFile += ".mp3"
	}

	key := p.cacheKey(text)
	if p.cache.Restore(outputFile, key...) {
		return nil
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          cleanSpeechText(text),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: format,
	}
	if p.supportsInstructions() {
		req.Instructions = p.config.OpenAIInstruction
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "does not have access to model") && p.supportsInstructions() {
			return fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try using --openai-model tts-1-hd instead", err, p.config.OpenAIModel)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	if err := writeSpeech(outputFile, response); err != nil {
		return err
	}

	if err := p.cache.Store(outputFile, key...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not cache %s: %v\n", filepath.Base(outputFile), err)
	}
	return nil
}

func writeSpeech(outputFile string, r io.Reader) error {
	if err := ensureDir(outputFile); err != nil {
		return err
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, r)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}
	return nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// IsAvailable checks if the OpenAI API is accessible
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}

	// A test call would cost credits, a key is all we check
	return nil
}

func (p *OpenAIProvider) supportsInstructions() bool {
	if p.config.OpenAIInstruction == "" {
		return false
	}
	return p.config.OpenAIModel == "gpt-4o-mini-tts" || p.config.OpenAIModel == "gpt-4o-mini-audio-preview"
}

// cacheKey lists everything that changes the synthesized audio
func (p *OpenAIProvider) cacheKey(text string) []string {
	key := []string{
		ProviderOpenAI,
		text,
		p.config.OpenAIModel,
		p.config.OpenAIVoice,
		strconv.FormatFloat(p.config.OpenAISpeed, 'f', 2, 64),
	}
	if p.supportsInstructions() {
		key = append(key, p.config.OpenAIInstruction)
	}
	return key
}

// cleanSpeechText drops quoting and bracket characters that voices tend to
// read out. Sentence punctuation is kept for the intonation.
func cleanSpeechText(text string) string {
	cleaned := strings.TrimSpace(text)

	for _, mark := range []string{"\"", "'", "「", "」", "『", "』", "“", "”", "(", ")", "（", "）", "[", "]"} {
		cleaned = strings.ReplaceAll(cleaned, mark, "")
	}

	return strings.TrimSpace(cleaned)
}
