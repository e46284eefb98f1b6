package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "cmn", "cmn+f2")
	Speed     int    // Speech speed in words per minute (default: 130)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultConfig returns the default configuration for the Mandarin voice
func DefaultConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "cmn",
		Speed:     130,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeak provides an interface to the espeak-ng text-to-speech engine
type ESpeak struct {
	config *ESpeakConfig
}

// New creates a new ESpeak instance with the given configuration
func New(config *ESpeakConfig) (*ESpeak, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}

	if config == nil {
		config = DefaultConfig()
	}

	return &ESpeak{config: config}, nil
}

// args builds the espeak-ng command line writing text to outputFile
func (e *ESpeak) args(text, outputFile string) []string {
	args := []string{
		"-v", e.config.Voice,
		"-s", fmt.Sprintf("%d", e.config.Speed),
		"-p", fmt.Sprintf("%d", e.config.Pitch),
		"-a", fmt.Sprintf("%d", e.config.Amplitude),
	}

	if e.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", e.config.WordGap))
	}

	return append(args, "-w", outputFile, text)
}

// GenerateWAV writes text as a WAV file
func (e *ESpeak) GenerateWAV(ctx context.Context, text string, outputFile string) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if err := ensureDir(outputFile); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", e.args(text, outputFile)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// GenerateMP3 writes text as an MP3 file through a temporary WAV
func (e *ESpeak) GenerateMP3(ctx context.Context, text string, outputFile string) error {
	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"

	if err := e.GenerateWAV(ctx, text, tempWAV); err != nil {
		return err
	}
	defer os.Remove(tempWAV)

	return ConvertWAVToMP3(ctx, tempWAV, outputFile)
}

// SetSpeed sets the speech speed, clamped to what espeak-ng accepts
func (c *ESpeakConfig) SetSpeed(speed int) {
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}
	c.Speed = speed
}

// SetPitch sets the pitch (0-99, 50 is default)
func (c *ESpeakConfig) SetPitch(pitch int) {
	if pitch < 0 {
		pitch = 0
	} else if pitch > 99 {
		pitch = 99
	}
	c.Pitch = pitch
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	cmd := exec.Command("espeak-ng", "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ListVoices returns the Mandarin voice variants of espeak-ng
func ListVoices() []string {
	return []string{
		"cmn",    // Mandarin
		"cmn+m1", // male voice 1
		"cmn+m2", // male voice 2
		"cmn+f1", // female voice 1
		"cmn+f2", // female voice 2
	}
}

// ConvertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func ConvertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}
