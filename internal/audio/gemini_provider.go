package audio

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

// Gemini TTS returns signed 16 bit little endian mono PCM
const (
	geminiSampleRate = 24000
	geminiChannels   = 1
	geminiBitDepth   = 16
)

// GeminiProvider implements Provider with the Gemini speech generation models
type GeminiProvider struct {
	client *genai.Client
	config *Config
	cache  *Cache
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(config *Config) (Provider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	cache, err := NewCache(config)
	if err != nil {
		return nil, err
	}

	return &GeminiProvider{client: client, config: config, cache: cache}, nil
}

// GenerateAudio synthesizes text and writes it as MP3 or WAV, depending on
// the extension of outputFile
func (p *GeminiProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateMandarinText(text); err != nil {
		return err
	}

	key := []string{ProviderGemini, text, p.config.GeminiModel, p.config.GeminiVoice, p.config.GeminiInstruction}
	if p.cache.Restore(outputFile, key...) {
		return nil
	}

	if err := p.synthesize(ctx, text, outputFile); err != nil {
		return err
	}

	if err := p.cache.Store(outputFile, key...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not cache %s: %v\n", filepath.Base(outputFile), err)
	}
	return nil
}

func (p *GeminiProvider) synthesize(ctx context.Context, text, outputFile string) error {
	resp, err := p.client.Models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(p.prompt(text)), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: p.config.GeminiVoice,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("Gemini TTS API error: %w", err)
	}

	pcm, rate, err := audioData(resp)
	if err != nil {
		return err
	}

	if err := ensureDir(outputFile); err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(outputFile), ".wav") {
		return writeWAVFile(outputFile, pcm, rate)
	}

	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
	if err := writeWAVFile(tempWAV, pcm, rate); err != nil {
		return err
	}
	defer os.Remove(tempWAV)

	return ConvertWAVToMP3(ctx, tempWAV, outputFile)
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

// IsAvailable checks that a key is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}

func (p *GeminiProvider) prompt(text string) string {
	if p.config.GeminiInstruction == "" {
		return text
	}
	return p.config.GeminiInstruction + ": " + text
}

// audioData returns the first inline audio blob of resp and its sample rate
func audioData(resp *genai.GenerateContentResponse) ([]byte, int, error) {
	if resp == nil {
		return nil, 0, fmt.Errorf("empty response from Gemini")
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			return part.InlineData.Data, sampleRate(part.InlineData.MIMEType), nil
		}
	}

	return nil, 0, fmt.Errorf("no audio data received from Gemini")
}

// sampleRate reads the rate parameter of a MIME type such as
// "audio/L16;codec=pcm;rate=24000"
func sampleRate(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return geminiSampleRate
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return geminiSampleRate
	}
	return rate
}
