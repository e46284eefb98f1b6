package models

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when no OpenAI key is configured
var ErrNoAPIKey = fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure audio.openai_key in .zhuyin.yaml")

type modelClient interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client modelClient
	out    io.Writer
}

// NewLister creates a new model lister printing to stdout
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
		out:    os.Stdout,
	}
}

// SpeechModels returns the sorted ids of the models that can synthesize
// speech
func (l *Lister) SpeechModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var ttsModels []string
	for _, model := range models.Models {
		if isSpeechModel(model.ID) {
			ttsModels = append(ttsModels, model.ID)
		}
	}
	sort.Strings(ttsModels)

	return ttsModels, nil
}

// ListAvailableModels prints the speech models
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	ttsModels, err := l.SpeechModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(l.out, "Available OpenAI Models:")
	fmt.Fprintln(l.out, "\nText-to-Speech (TTS) Models:")
	if len(ttsModels) == 0 {
		fmt.Fprintln(l.out, "  No TTS models found")
		return nil
	}
	for _, model := range ttsModels {
		fmt.Fprintf(l.out, "  %s\n", model)
	}

	return nil
}

func isSpeechModel(id string) bool {
	return strings.Contains(id, "tts") || strings.Contains(id, "audio")
}
