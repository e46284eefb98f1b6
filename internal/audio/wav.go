package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// writeWAV wraps raw PCM samples in a canonical 44 byte RIFF header
func writeWAV(w io.Writer, pcm []byte, sampleRate, channels, bitsPerSample int) error {
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	header := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + len(pcm)),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16), // fmt chunk size
		uint16(1),  // PCM
		uint16(channels),
		uint32(sampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitsPerSample),
		[4]byte{'d', 'a', 't', 'a'},
		uint32(len(pcm)),
	}

	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("failed to write WAV header: %w", err)
		}
	}

	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}

func writeWAVFile(path string, pcm []byte, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}

	if err := writeWAV(f, pcm, sampleRate, geminiChannels, geminiBitDepth); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
