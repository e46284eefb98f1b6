package cards

import "testing"

func TestRenderMnemonic(t *testing.T) {
	upper := func(s string) string { return "[" + s + "]" }

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no markup", "sin formato", "sin formato"},
		{"single span", "Parece una **b** con sombrero.", "Parece una [b] con sombrero."},
		{"two spans", "**uno** y **dos**", "[uno] y [dos]"},
		{"unclosed", "**abierto", "**abierto"},
		{"empty span", "a****b", "a[]b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderMnemonic(tt.input, upper); got != tt.want {
				t.Errorf("RenderMnemonic(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMnemonicHTML(t *testing.T) {
	got := MnemonicHTML("<i>**ㄅ**</i> & más")
	want := "&lt;i&gt;<strong>ㄅ</strong>&lt;/i&gt; &amp; más"
	if got != want {
		t.Errorf("MnemonicHTML() = %q, want %q", got, want)
	}
}

func TestSpans(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{"plain", "sin formato", []Span{{Text: "sin formato"}}},
		{"middle", "Parece una **b** con sombrero.", []Span{
			{Text: "Parece una "}, {Text: "b", Bold: true}, {Text: " con sombrero."},
		}},
		{"edges", "**uno** y **dos**", []Span{
			{Text: "uno", Bold: true}, {Text: " y "}, {Text: "dos", Bold: true},
		}},
		{"unclosed", "**abierto", []Span{{Text: "**abierto"}}},
		{"empty span", "a****b", []Span{{Text: "a"}, {Text: "b"}}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Spans(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Spans(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Spans(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
