package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FixtureJSON is a small data file covering every card shape: a consonant
// with all optional sections, a consonant without a sentence, a vowel whose
// sentence is longer than ten characters, and two tones.
const FixtureJSON = `{
  "zhuyin_system": {
    "consonants": [
      {
        "zhuyin": "ㄅ",
        "pinyin": "b",
        "example_word": {"characters": "爸爸", "pinyin": "bàba", "meaning": "papá", "zhuyin_typing": "ㄅㄚˋ ㄅㄚ˙"},
        "example_sentence": {
          "characters": "我爸爸是老師。",
          "spanish_translation": "Mi papá es profesor.",
          "words": [
            {"characters": "我", "pinyin": "wǒ", "meaning": "yo"},
            {"characters": "爸爸", "pinyin": "bàba", "meaning": "papá"},
            {"characters": "是", "pinyin": "shì", "meaning": "ser"},
            {"characters": "老師", "pinyin": "lǎoshī", "meaning": "profesor"}
          ]
        },
        "note": "Como la b española, sin vibración fuerte.",
        "mnemotecnia": "Parece una **b** con sombrero."
      },
      {
        "zhuyin": "ㄆ",
        "pinyin": "p",
        "example_word": {"characters": "朋友", "pinyin": "péngyou", "meaning": "amigo"}
      }
    ],
    "vowels": [
      {
        "zhuyin": "ㄚ",
        "pinyin": "a",
        "example_word": {"characters": "媽媽", "pinyin": "māma", "meaning": "mamá"},
        "example_sentence": {
          "characters": "媽媽在家，我們一起吃飯。",
          "words": [
            {"characters": "媽媽", "pinyin": "māma"},
            {"characters": "在", "pinyin": "zài"},
            {"characters": "家", "pinyin": "jiā"}
          ]
        }
      }
    ],
    "tones": [
      {
        "mark": "ˉ",
        "tone_number": 1,
        "description": "Tono alto y plano",
        "example": {"characters": "媽", "pinyin": "mā", "meaning": "mamá"}
      },
      {
        "mark": "ˇ",
        "tone_number": 3,
        "description": "Tono descendente-ascendente",
        "example": {"characters": "马", "pinyin": "mǎ", "meaning": "caballo", "zhuyin_typing": "ㄇㄚˇ"}
      }
    ]
  }
}`

// WriteFixture writes FixtureJSON into dir and returns the file path
func WriteFixture(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "zhuyin_data.json")
	CreateTestFile(t, path, []byte(FixtureJSON))
	return path
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateAudioFiles creates mock MP3 files below root for the given
// slash-separated relative paths
func CreateAudioFiles(t *testing.T, root string, relPaths ...string) {
	t.Helper()

	for _, rel := range relPaths {
		CreateTestFile(t, filepath.Join(root, filepath.FromSlash(rel)), MockMP3())
	}
}

// MockMP3 returns a minimal MP3 frame header
func MockMP3() []byte {
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// CountFiles counts regular files with the given extension below root
func CountFiles(t *testing.T, root, ext string) int {
	t.Helper()

	count := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ext {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk %s: %v", root, err)
	}

	return count
}
