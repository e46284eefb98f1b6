package cards

import (
	"strings"
	"testing"

	"codeberg.org/snonux/zhuyin/internal/taxonomy"
	"codeberg.org/snonux/zhuyin/internal/testutil"
)

func loadFixture(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()

	tax, err := taxonomy.Parse(strings.NewReader(testutil.FixtureJSON))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	return tax
}

func TestBuildLength(t *testing.T) {
	tests := []struct {
		name string
		tax  *taxonomy.Taxonomy
		want int
	}{
		{"nil taxonomy", nil, 0},
		{"empty taxonomy", &taxonomy.Taxonomy{}, 0},
		{"only tones", &taxonomy.Taxonomy{Tones: []taxonomy.ToneEntry{{Mark: "ˊ", ToneNumber: 2}}}, 1},
		{"fixture", loadFixture(t), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.tax)
			if len(got) != tt.want {
				t.Errorf("len(Build()) = %d, want %d", len(got), tt.want)
			}
			if len(got) != tt.tax.Len() {
				t.Errorf("len(Build()) = %d, raw entries = %d", len(got), tt.tax.Len())
			}
		})
	}
}

func TestBuildOrder(t *testing.T) {
	cards := Build(loadFixture(t))

	want := []struct {
		typ    Category
		zhuyin string
		pinyin string
	}{
		{Consonants, "ㄅ", "b"},
		{Consonants, "ㄆ", "p"},
		{Vowels, "ㄚ", "a"},
		{Tones, "ˉ", "Tono 1"},
		{Tones, "ˇ", "Tono 3"},
	}

	for i, w := range want {
		c := cards[i]
		if c.Type != w.typ || c.Zhuyin != w.zhuyin || c.Pinyin != w.pinyin {
			t.Errorf("card %d = {%s %s %s}, want {%s %s %s}", i, c.Type, c.Zhuyin, c.Pinyin, w.typ, w.zhuyin, w.pinyin)
		}
		if c.Zhuyin == "" || c.Pinyin == "" {
			t.Errorf("card %d has empty zhuyin or pinyin", i)
		}
	}
}

func TestBuildCopiesEntryFields(t *testing.T) {
	tax := loadFixture(t)
	c := Build(tax)[0]

	if c.ExampleWord != tax.Consonants[0].ExampleWord {
		t.Error("Expected example word to be carried over verbatim")
	}
	if c.ExampleSentence == nil || c.ExampleSentence.SpanishTranslation != "Mi papá es profesor." {
		t.Errorf("Unexpected example sentence: %+v", c.ExampleSentence)
	}
	if c.Note == "" || c.Mnemotecnia == "" {
		t.Error("Expected note and mnemonic to be copied")
	}
	if c.IsTone() || c.ToneNumber != 0 || c.ToneMark != "" {
		t.Errorf("Consonant card carries tone fields: %+v", c)
	}
}

func TestBuildToneShape(t *testing.T) {
	tax := loadFixture(t)
	c := Build(tax)[4]

	if !c.IsTone() {
		t.Fatalf("Expected tone card, got %s", c.Type)
	}
	if c.Zhuyin != "ˇ" || c.ToneMark != "ˇ" {
		t.Errorf("Expected mark in Zhuyin and ToneMark, got %q / %q", c.Zhuyin, c.ToneMark)
	}
	if c.Pinyin != "Tono 3" {
		t.Errorf("Pinyin = %q, want %q", c.Pinyin, "Tono 3")
	}
	if c.ToneNumber != 3 || c.Description != "Tono descendente-ascendente" {
		t.Errorf("Unexpected tone data: %+v", c)
	}
	if c.ExampleWord == nil || c.ExampleWord.Characters != "马" || c.ExampleWord.ZhuyinTyping != "ㄇㄚˇ" {
		t.Errorf("Unexpected example word: %+v", c.ExampleWord)
	}
	if c.ExampleSentence != nil {
		t.Errorf("Tone cards must not carry a sentence, got %+v", c.ExampleSentence)
	}
	if c.Note != "" || c.Mnemotecnia != "" {
		t.Error("Tone cards must not carry note or mnemonic")
	}

	// The example word is a copy, not an alias into the taxonomy
	c.ExampleWord.Meaning = "changed"
	if tax.Tones[1].Example.Meaning != "caballo" {
		t.Error("Modifying the card changed the taxonomy")
	}
}

func TestFilter(t *testing.T) {
	all := Build(loadFixture(t))

	got := Filter(all, All)
	if len(got) != len(all) {
		t.Fatalf("Filter(all) length = %d, want %d", len(got), len(all))
	}
	for i := range all {
		if got[i].Zhuyin != all[i].Zhuyin {
			t.Errorf("Filter(all) changed order at %d", i)
		}
	}

	union := map[string]int{}
	for _, category := range Categories {
		subset := Filter(all, category)
		for _, c := range subset {
			if c.Type != category {
				t.Errorf("Filter(%s) returned a %s card", category, c.Type)
			}
			union[c.Zhuyin]++
		}
	}

	if len(union) != len(all) {
		t.Errorf("Union of categories has %d cards, want %d", len(union), len(all))
	}
	for zhuyin, n := range union {
		if n != 1 {
			t.Errorf("Card %s appears in %d categories", zhuyin, n)
		}
	}

	consonants := Filter(all, Consonants)
	if len(consonants) != 2 || consonants[0].Zhuyin != "ㄅ" || consonants[1].Zhuyin != "ㄆ" {
		t.Errorf("Filter(consonants) did not preserve order: %+v", consonants)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"", All, false},
		{"all", All, false},
		{"consonants", Consonants, false},
		{"vowels", Vowels, false},
		{"tones", Tones, false},
		{"Tones", "", true},
		{"numbers", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	if All.Label() != "Todos" || Consonants.Label() != "Consonantes" || Vowels.Label() != "Vocales" || Tones.Label() != "Tonos" {
		t.Error("Unexpected Spanish labels")
	}
	if Category("x").Label() != "x" {
		t.Error("Unknown category should label as itself")
	}
}
