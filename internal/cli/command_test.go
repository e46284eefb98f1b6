package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// fakeRunner records which command ran
type fakeRunner struct {
	calls []string
}

func (f *fakeRunner) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeRunner) Study(ctx context.Context) error         { return f.record("study") }
func (f *fakeRunner) ListCards(ctx context.Context) error     { return f.record("cards") }
func (f *fakeRunner) Paths(ctx context.Context) error         { return f.record("paths") }
func (f *fakeRunner) Generate(ctx context.Context) error      { return f.record("generate") }
func (f *fakeRunner) Export(ctx context.Context) error        { return f.record("export") }
func (f *fakeRunner) ShowSettings(ctx context.Context) error  { return f.record("settings show") }
func (f *fakeRunner) ResetSettings(ctx context.Context) error { return f.record("settings reset") }
func (f *fakeRunner) ListModels(ctx context.Context) error    { return f.record("models") }
func (f *fakeRunner) ListArchives(ctx context.Context) error  { return f.record("archives") }

func (f *fakeRunner) SetSetting(ctx context.Context, name, value string) error {
	return f.record("settings set " + name + "=" + value)
}

// resetViper restores the global viper instance after a test
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	resetViper(t)
	cmd := CreateRootCommand(NewFlags(), &fakeRunner{})

	if cmd.Use != "zhuyin" {
		t.Errorf("Expected Use to be 'zhuyin', got %s", cmd.Use)
	}
	if !strings.Contains(cmd.Short, "Zhuyin") {
		t.Errorf("Expected Short description to mention Zhuyin")
	}

	for _, name := range []string{"config", "data", "audio-dir", "filter", "settings-backend", "settings-path"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag %s to exist", name)
		}
	}

	subFlags := map[string][]string{
		"study":    {"shuffle", "player", "tui"},
		"paths":    {"missing"},
		"generate": {"fix-vowels", "clean", "delay", "provider", "fallback", "openai-model", "openai-voice", "openai-speed", "openai-instruction", "gemini-model", "gemini-voice", "espeak-voice", "espeak-speed", "espeak-pitch"},
		"export":   {"csv", "output", "deck-name"},
		"cards":    nil,
		"settings": nil,
		"models":   nil,
		"archives": nil,
	}
	for sub, names := range subFlags {
		c := subcommand(cmd, sub)
		if c == nil {
			t.Errorf("Expected subcommand %s", sub)
			continue
		}
		for _, name := range names {
			if c.Flags().Lookup(name) == nil {
				t.Errorf("Expected flag %s on %s", name, sub)
			}
		}
	}
}

func TestCommandDispatch(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{}, "study"},
		{[]string{"study", "--shuffle"}, "study"},
		{[]string{"--shuffle", "--tui"}, "study"},
		{[]string{"cards", "--filter", "tones"}, "cards"},
		{[]string{"paths", "--missing"}, "paths"},
		{[]string{"generate", "--provider", "espeak"}, "generate"},
		{[]string{"export", "--csv"}, "export"},
		{[]string{"settings"}, "settings show"},
		{[]string{"settings", "show"}, "settings show"},
		{[]string{"settings", "set", "showPinyin", "false"}, "settings set showPinyin=false"},
		{[]string{"settings", "reset"}, "settings reset"},
		{[]string{"models"}, "models"},
		{[]string{"archives"}, "archives"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			resetViper(t)
			runner := &fakeRunner{}
			cmd := CreateRootCommand(NewFlags(), runner)
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if len(runner.calls) != 1 || runner.calls[0] != tt.want {
				t.Errorf("Calls = %v, want [%s]", runner.calls, tt.want)
			}
		})
	}
}

func TestCommandRejectsExtraArgs(t *testing.T) {
	resetViper(t)
	runner := &fakeRunner{}
	cmd := CreateRootCommand(NewFlags(), runner)
	cmd.SetArgs([]string{"settings", "set", "showPinyin"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for missing value")
	}
	if len(runner.calls) != 0 {
		t.Errorf("Runner must not be called, got %v", runner.calls)
	}
}

func TestFlagsParsed(t *testing.T) {
	resetViper(t)
	flags := NewFlags()
	cmd := CreateRootCommand(flags, &fakeRunner{})
	cmd.SetArgs([]string{"generate", "--audio-dir", "/tmp/audio", "--fix-vowels", "--delay", "250ms"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if flags.AudioDir != "/tmp/audio" || !flags.FixVowels || flags.Delay.Milliseconds() != 250 {
		t.Errorf("Unexpected flags: %+v", flags)
	}
}

func TestStudyFlagsOnRoot(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"root", []string{"--shuffle", "--player", "mpg123 -q", "--tui"}},
		{"study", []string{"study", "--shuffle", "--player", "mpg123 -q", "--tui"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			flags := NewFlags()
			cmd := CreateRootCommand(flags, &fakeRunner{})
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !flags.Shuffle || !flags.TUI || flags.Player != "mpg123 -q" {
				t.Errorf("Unexpected flags: shuffle=%t tui=%t player=%q", flags.Shuffle, flags.TUI, flags.Player)
			}
		})
	}
}

func TestStudyFlagBeatsConfig(t *testing.T) {
	resetViper(t)
	cmd := CreateRootCommand(NewFlags(), &fakeRunner{})
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(strings.NewReader("audio:\n  player: afplay\n")); err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	cmd.SetArgs([]string{"--player", "mpg123 -q"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := viper.GetString("audio.player"); got != "mpg123 -q" {
		t.Errorf("audio.player = %q, want the root flag value", got)
	}
}

func TestRootRejectsSubcommandFlags(t *testing.T) {
	resetViper(t)
	runner := &fakeRunner{}
	cmd := CreateRootCommand(NewFlags(), runner)
	cmd.SetArgs([]string{"cards", "--shuffle"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for a study flag on cards")
	}
}

func TestBindFlagsToViper(t *testing.T) {
	resetViper(t)
	cmd := CreateRootCommand(NewFlags(), &fakeRunner{})
	cmd.SetArgs([]string{"generate", "--audio-dir", "/test/audio", "--openai-model", "tts-1-hd", "--provider", "gemini", "--espeak-voice", "cmn+f2"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	expected := map[string]string{
		"audio.dir":          "/test/audio",
		"audio.openai_model": "tts-1-hd",
		"audio.provider":     "gemini",
		"audio.gemini_voice": "Kore",
		"audio.espeak_voice": "cmn+f2",
		"audio.espeak_speed": "130",
		"anki.deck_name":     "Zhuyin",
		"data.file":          "zhuyin_data.json",
	}
	for key, want := range expected {
		if got := viper.GetString(key); got != want {
			t.Errorf("viper %s = %q, want %q", key, got, want)
		}
	}
}

func TestInitConfig(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantDir   string
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `audio:
  provider: espeak
  dir: /test/audio
anki:
  deck_name: Bopomofo`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			wantDir: "/test/audio",
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				t.Setenv("HOME", t.TempDir())
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)

			InitConfig(tt.setupFunc(t))

			t.Setenv("ZHUYIN_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			if got := viper.GetString("audio.dir"); got != tt.wantDir {
				t.Errorf("audio.dir = %q, want %q", got, tt.wantDir)
			}
		})
	}
}

func TestInitConfigNestedEnv(t *testing.T) {
	resetViper(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ZHUYIN_AUDIO_DIR", "/from/env")

	InitConfig("")

	if got := viper.GetString("audio.dir"); got != "/from/env" {
		t.Errorf("audio.dir = %q, want /from/env", got)
	}
}

func TestGetAPIKeys(t *testing.T) {
	tests := []struct {
		name      string
		envVar    string
		configKey string
		get       func() string
		envValue  string
		cfgValue  string
		expected  string
	}{
		{"openai from environment", "OPENAI_API_KEY", "audio.openai_key", GetOpenAIKey, "env-key", "config-key", "env-key"},
		{"openai from config", "OPENAI_API_KEY", "audio.openai_key", GetOpenAIKey, "", "config-key", "config-key"},
		{"openai unset", "OPENAI_API_KEY", "audio.openai_key", GetOpenAIKey, "", "", ""},
		{"gemini from environment", "GEMINI_API_KEY", "audio.gemini_key", GetGeminiKey, "env-key", "config-key", "env-key"},
		{"gemini from config", "GEMINI_API_KEY", "audio.gemini_key", GetGeminiKey, "", "config-key", "config-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			t.Setenv(tt.envVar, tt.envValue)
			if tt.cfgValue != "" {
				viper.Set(tt.configKey, tt.cfgValue)
			}

			if got := tt.get(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
