package anki

import (
	"encoding/csv"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/zhuyin/internal/audiopath"
	"codeberg.org/snonux/zhuyin/internal/cards"
)

// Card represents a single Anki note built from a study card
type Card struct {
	Zhuyin        string // The zhuyin symbol or tone mark
	Pinyin        string // Romanization, "Tono N" for tones
	Word          string // Example word with its pinyin
	Meaning       string // Meaning of the example word
	Sentence      string // Example sentence, empty for tones
	Translation   string // Spanish translation of the sentence
	AudioFile     string // Path to the pronunciation audio
	WordAudioFile string // Path to the example word audio
	Notes         string // Note and mnemonic as HTML
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "zhuyin_anki.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddCards converts study cards and adds them in order
func (g *Generator) AddCards(list []cards.Card, resolver audiopath.Resolver) {
	for _, c := range list {
		g.AddCard(FromCard(c, resolver))
	}
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// FromCard maps a study card onto the note fields. Audio paths are only
// set when the file exists below the resolver base.
func FromCard(c cards.Card, resolver audiopath.Resolver) Card {
	card := Card{
		Zhuyin: c.Zhuyin,
		Pinyin: c.Pinyin,
	}

	if w := c.ExampleWord; w != nil {
		card.Word = fmt.Sprintf("%s (%s)", w.Characters, w.Pinyin)
		card.Meaning = w.Meaning
	}

	if s := c.ExampleSentence; s != nil {
		card.Sentence = s.Characters
		card.Translation = s.Translation()
	}

	if path, ok := resolver.Pronunciation(c); ok && fileExists(path) {
		card.AudioFile = path
	}
	if path, ok := resolver.Word(c); ok && fileExists(path) {
		card.WordAudioFile = path
	}

	card.Notes = notes(c)
	return card
}

// notes joins the free text fields as HTML
func notes(c cards.Card) string {
	var parts []string
	if c.IsTone() && c.Description != "" {
		parts = append(parts, html.EscapeString(c.Description))
	}
	if c.Note != "" {
		parts = append(parts, html.EscapeString(c.Note))
	}
	if c.Mnemotecnia != "" {
		parts = append(parts, cards.MnemonicHTML(c.Mnemotecnia))
	}
	return strings.Join(parts, "<br>")
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	// Create output file
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	// Create CSV writer
	writer := csv.NewWriter(file)

	// Write headers if requested
	if g.options.IncludeHeaders {
		headers := []string{"Zhuyin", "Pinyin", "Word", "Meaning", "Sentence", "Translation", "Audio", "WordAudio", "Notes"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	// Write cards
	for _, card := range g.cards {
		record := []string{
			card.Zhuyin,
			card.Pinyin,
			card.Word,
			card.Meaning,
			card.Sentence,
			card.Translation,
			formatAudioField(card.AudioFile),
			formatAudioField(card.WordAudioFile),
			card.Notes,
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// formatAudioField formats the audio file reference for Anki
func formatAudioField(audioFile string) string {
	if audioFile == "" {
		return ""
	}

	// Anki audio format: [sound:filename.mp3]
	return fmt.Sprintf("[sound:%s]", mediaName(audioFile))
}

// mediaName is the flat file name of a media file inside a package. The
// parent directory is kept as a prefix because several audio directories
// share file names.
func mediaName(path string) string {
	return fmt.Sprintf("%s_%s", filepath.Base(filepath.Dir(path)), filepath.Base(path))
}

// GeneratePackage writes import.csv plus a collection.media folder holding
// every referenced audio file into outputDir
func (g *Generator) GeneratePackage(outputDir string) error {
	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Create media directory
	mediaDir := filepath.Join(outputDir, "collection.media")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}

	for _, card := range g.cards {
		for _, src := range []string{card.AudioFile, card.WordAudioFile} {
			if src == "" {
				continue
			}
			if err := copyFile(src, filepath.Join(mediaDir, mediaName(src))); err != nil {
				return fmt.Errorf("failed to copy audio file %s: %w", src, err)
			}
		}
	}

	g.options.OutputPath = filepath.Join(outputDir, "import.csv")
	return g.GenerateCSV()
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)

	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}

	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio, withWordAudio int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.AudioFile != "" {
			withAudio++
		}
		if card.WordAudioFile != "" {
			withWordAudio++
		}
	}

	return
}
