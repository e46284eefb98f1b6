package audiopath

import (
	"strings"
	"testing"

	"codeberg.org/snonux/zhuyin/internal/cards"
	"codeberg.org/snonux/zhuyin/internal/taxonomy"
	"codeberg.org/snonux/zhuyin/internal/testutil"
)

func fixtureCards(t *testing.T) []cards.Card {
	t.Helper()

	tax, err := taxonomy.Parse(strings.NewReader(testutil.FixtureJSON))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	return cards.Build(tax)
}

func TestManifest(t *testing.T) {
	r := Resolver{Base: base}
	assets := r.Manifest(fixtureCards(t))

	want := []Asset{
		{KindZhuyinSound, cards.Consonants, base + "zhuyin_sounds/ㄅ_b.mp3", "ba"},
		{KindZhuyinSound, cards.Consonants, base + "zhuyin_sounds/ㄆ_p.mp3", "pa"},
		{KindZhuyinSound, cards.Vowels, base + "zhuyin_sounds/ㄚ_a.mp3", "ㄚ"},
		{KindWord, cards.Consonants, base + "consonants/words/ㄅ_爸爸_bàba.mp3", "爸爸"},
		{KindSentence, cards.Consonants, base + "consonants/sentences/ㄅ_我爸爸是老師.mp3", "我爸爸是老師。"},
		{KindIndividualWord, cards.Consonants, base + "individual_words/我_wǒ.mp3", "我"},
		{KindIndividualWord, cards.Consonants, base + "individual_words/爸爸_bàba.mp3", "爸爸"},
		{KindIndividualWord, cards.Consonants, base + "individual_words/是_shì.mp3", "是"},
		{KindIndividualWord, cards.Consonants, base + "individual_words/老師_lǎoshī.mp3", "老師"},
		{KindWord, cards.Consonants, base + "consonants/words/ㄆ_朋友_péngyou.mp3", "朋友"},
		{KindWord, cards.Vowels, base + "vowels/words/ㄚ_媽媽_māma.mp3", "媽媽"},
		{KindSentence, cards.Vowels, base + "vowels/sentences/ㄚ_媽媽在家_我們一起吃.mp3", "媽媽在家，我們一起吃飯。"},
		{KindIndividualWord, cards.Vowels, base + "individual_words/媽媽_māma.mp3", "媽媽"},
		{KindIndividualWord, cards.Vowels, base + "individual_words/在_zài.mp3", "在"},
		{KindIndividualWord, cards.Vowels, base + "individual_words/家_jiā.mp3", "家"},
		{KindToneExample, cards.Tones, base + "tones/examples/tono_1_媽_mā.mp3", "媽"},
		{KindToneExample, cards.Tones, base + "tones/examples/tono_3_马_mǎ.mp3", "马"},
	}

	if len(assets) != len(want) {
		for _, a := range assets {
			t.Logf("%+v", a)
		}
		t.Fatalf("Manifest() returned %d assets, want %d", len(assets), len(want))
	}
	for i := range want {
		if assets[i] != want[i] {
			t.Errorf("asset %d = %+v, want %+v", i, assets[i], want[i])
		}
	}
}

func TestManifestDeduplicates(t *testing.T) {
	r := Resolver{Base: base}
	list := fixtureCards(t)
	list = append(list, list...)

	seen := map[string]bool{}
	for _, a := range r.Manifest(list) {
		if seen[a.Path] {
			t.Errorf("Duplicate path %s", a.Path)
		}
		seen[a.Path] = true
	}
}

func TestManifestEmpty(t *testing.T) {
	if got := (Resolver{}).Manifest(nil); len(got) != 0 {
		t.Errorf("Manifest(nil) = %v", got)
	}
}

func TestSpokenSound(t *testing.T) {
	tests := []struct {
		card cards.Card
		want string
	}{
		{cards.Card{Type: cards.Consonants, Zhuyin: "ㄅ", Pinyin: "b"}, "ba"},
		{cards.Card{Type: cards.Consonants, Zhuyin: "ㄐ", Pinyin: "j (ji)"}, "ja"},
		{cards.Card{Type: cards.Vowels, Zhuyin: "ㄚ", Pinyin: "a"}, "ㄚ"},
	}

	for _, tt := range tests {
		if got := SpokenSound(tt.card); got != tt.want {
			t.Errorf("SpokenSound(%s) = %q, want %q", tt.card.Zhuyin, got, tt.want)
		}
	}
}
