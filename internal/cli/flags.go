package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile         string
	DataFile        string
	AudioDir        string
	Filter          string
	SettingsBackend string
	SettingsPath    string

	// study
	Shuffle bool
	Player  string
	TUI     bool

	// paths
	Missing bool

	// generate
	FixVowels bool
	Clean     bool
	Delay     time.Duration
	Provider  string
	Fallback  string

	// OpenAI flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string

	// Gemini flags
	GeminiModel string
	GeminiVoice string

	// espeak-ng flags
	ESpeakVoice string
	ESpeakSpeed int
	ESpeakPitch int

	// export
	AnkiCSV    bool
	OutputPath string
	DeckName   string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		DataFile:        "zhuyin_data.json",
		AudioDir:        "zhuyin_audios/",
		Filter:          "all",
		SettingsBackend: "file",
		Delay:           time.Second,
		Provider:        "openai",
		OpenAIModel:     "gpt-4o-mini-tts",
		OpenAIVoice:     "nova",
		OpenAISpeed:     0.9,
		GeminiModel:     "gemini-2.5-flash-preview-tts",
		GeminiVoice:     "Kore",
		ESpeakVoice:     "cmn",
		ESpeakSpeed:     130,
		ESpeakPitch:     50,
		OutputPath:      "zhuyin.apkg",
		DeckName:        "Zhuyin",
	}
}
