package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName   string
	deckID     int64
	modelID    int64
	cards      []Card
	mediaFiles map[string]int // flat media name -> number inside the package
	media      []string       // source paths in number order
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	// IDs derived from the clock so repeated imports create new decks
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName:   deckName,
		deckID:     now,
		modelID:    now + 1,
		cards:      make([]Card, 0),
		mediaFiles: make(map[string]int),
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG writes the package: the collection database, the media
// mapping and every referenced audio file under its number
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	// numbers must be known before the notes reference them
	g.collectMedia()

	tempDir, err := os.MkdirTemp("", "zhuyin_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := g.writePackage(outputPath, dbPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

// collectMedia numbers the existing audio files of all cards, each flat
// media name once
func (g *APKGGenerator) collectMedia() {
	for _, card := range g.cards {
		for _, src := range []string{card.AudioFile, card.WordAudioFile} {
			if src == "" || !fileExists(src) {
				continue
			}
			name := mediaName(src)
			if _, ok := g.mediaFiles[name]; ok {
				continue
			}
			g.mediaFiles[name] = len(g.media)
			g.media = append(g.media, src)
		}
	}
}

// collectionSchema is the Anki 2.1 collection layout (schema version 11)
const collectionSchema = `
CREATE TABLE col (id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
	scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL, usn integer NOT NULL,
	ls integer NOT NULL, conf text NOT NULL, models text NOT NULL, decks text NOT NULL,
	dconf text NOT NULL, tags text NOT NULL);
CREATE TABLE notes (id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
	mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL, flds text NOT NULL,
	sfld text NOT NULL, csum integer NOT NULL, flags integer NOT NULL, data text NOT NULL);
CREATE TABLE cards (id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
	ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL, type integer NOT NULL,
	queue integer NOT NULL, due integer NOT NULL, ivl integer NOT NULL, factor integer NOT NULL,
	reps integer NOT NULL, lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
	odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL);
CREATE TABLE revlog (id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
	ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
	factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL);
CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL);
CREATE INDEX ix_notes_csum ON notes (csum);
CREATE INDEX ix_notes_usn ON notes (usn);
CREATE INDEX ix_cards_usn ON cards (usn);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_usn ON revlog (usn);
CREATE INDEX ix_revlog_cid ON revlog (cid);
`

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return nil
}

type deck struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Mod              int64  `json:"mod"`
	Desc             string `json:"desc"`
	Collapsed        bool   `json:"collapsed"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	Dyn              int    `json:"dyn"`
	Conf             int    `json:"conf"`
	USN              int    `json:"usn"`
	// [learning, review] counts of today
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
}

func newDeck(id int64, name, desc string, now int64) deck {
	return deck{ID: id, Name: name, Mod: now, Desc: desc, Conf: 1, ExtendNew: 10, ExtendRev: 50}
}

type deckOptions struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Dyn      int    `json:"dyn"`
	Timer    int    `json:"timer"`
	MaxTaken int    `json:"maxTaken"`
	USN      int    `json:"usn"`
	Mod      int64  `json:"mod"`
	Autoplay bool   `json:"autoplay"`
	Replayq  bool   `json:"replayq"`

	New struct {
		Delays        []int `json:"delays"`
		Ints          []int `json:"ints"`
		InitialFactor int   `json:"initialFactor"`
		PerDay        int   `json:"perDay"`
		Order         int   `json:"order"`
		Bury          bool  `json:"bury"`
		Separate      bool  `json:"separate"`
	} `json:"new"`

	Lapse struct {
		Delays      []int   `json:"delays"`
		Mult        float64 `json:"mult"`
		MinInt      int     `json:"minInt"`
		LeechFails  int     `json:"leechFails"`
		LeechAction int     `json:"leechAction"`
	} `json:"lapse"`

	Rev struct {
		PerDay   int     `json:"perDay"`
		Ease4    float64 `json:"ease4"`
		Fuzz     float64 `json:"fuzz"`
		MaxIvl   int     `json:"maxIvl"`
		IvlFct   float64 `json:"ivlFct"`
		Bury     bool    `json:"bury"`
		MinSpace int     `json:"minSpace"`
	} `json:"rev"`
}

// defaultDeckOptions are Anki's stock options, with autoplay so the
// listening card speaks right away
func defaultDeckOptions(now int64) deckOptions {
	o := deckOptions{ID: 1, Name: "Default", MaxTaken: 60, Mod: now, Autoplay: true, Replayq: true}

	o.New.Delays = []int{1, 10}
	o.New.Ints = []int{1, 4, 7}
	o.New.InitialFactor = 2500
	o.New.PerDay = 20
	o.New.Order = 1
	o.New.Bury = true
	o.New.Separate = true

	o.Lapse.Delays = []int{10}
	o.Lapse.MinInt = 1
	o.Lapse.LeechFails = 8

	o.Rev.PerDay = 100
	o.Rev.Ease4 = 1.3
	o.Rev.Fuzz = 0.05
	o.Rev.MaxIvl = 36500
	o.Rev.IvlFct = 1
	o.Rev.Bury = true
	o.Rev.MinSpace = 1

	return o
}

// insertCollection writes the single col row holding the JSON blobs of the
// decks, the note type and the collection options
func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := time.Now().Unix()
	deckKey := strconv.FormatInt(g.deckID, 10)
	modelKey := strconv.FormatInt(g.modelID, 10)

	blobs := map[string]interface{}{
		"decks": map[string]deck{
			"1":     newDeck(1, "Default", "", now),
			deckKey: newDeck(g.deckID, g.deckName, "Zhuyin (Bopomofo) cards with Mandarin audio", now),
		},
		"models": map[string]noteType{
			modelKey: g.noteType(now),
		},
		"dconf": map[string]deckOptions{
			"1": defaultDeckOptions(now),
		},
		"conf": map[string]interface{}{
			"nextPos":       1,
			"estTimes":      true,
			"activeDecks":   []int64{1},
			"sortType":      "noteFld",
			"sortBackwards": false,
			"addToCur":      true,
			"curDeck":       1,
			"newSpread":     0,
			"dueCounts":     true,
			"collapseTime":  1200,
			"timeLim":       0,
			"schedVer":      1,
			"curModel":      modelKey,
			"dayLearnFirst": false,
		},
	}

	encoded := make(map[string]string, len(blobs))
	for name, v := range blobs {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		encoded[name] = string(data)
	}

	_, err := db.Exec(`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now, now*1000, now*1000,
		encoded["conf"], encoded["models"], encoded["decks"], encoded["dconf"],
	)
	return err
}

// noteFields lists the note type fields in storage order
var noteFields = []string{"Zhuyin", "Pinyin", "Word", "Meaning", "Sentence", "Translation", "Audio", "WordAudio", "Notes"}

type noteField struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

type cardTemplate struct {
	Name  string      `json:"name"`
	Ord   int         `json:"ord"`
	Qfmt  string      `json:"qfmt"`
	Afmt  string      `json:"afmt"`
	Did   interface{} `json:"did"`
	Bqfmt string      `json:"bqfmt"`
	Bafmt string      `json:"bafmt"`
}

type noteType struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	USN       int             `json:"usn"`
	Sortf     int             `json:"sortf"`
	Did       int64           `json:"did"`
	Req       [][]interface{} `json:"req"`
	Vers      []int           `json:"vers"`
	Tags      []string        `json:"tags"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	Flds      []noteField     `json:"flds"`
	Tmpls     []cardTemplate  `json:"tmpls"`
	CSS       string          `json:"css"`
}

const latexPre = `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`

// noteType describes the "Zhuyin (Symbol + Sound)" model with its two
// templates: read the symbol, and hear the sound
func (g *APKGGenerator) noteType(now int64) noteType {
	flds := make([]noteField, len(noteFields))
	for i, name := range noteFields {
		size := 20
		switch name {
		case "Zhuyin":
			size = 48
		case "Notes":
			size = 16
		}
		flds[i] = noteField{Name: name, Ord: i, Font: "Arial", Size: size, Media: []string{}}
	}

	return noteType{
		ID:    g.modelID,
		Name:  "Zhuyin (Symbol + Sound)",
		Mod:   now,
		USN:   -1,
		Did:   g.deckID,
		Flds:  flds,
		Vers:  []int{},
		Tags:  []string{},
		// the listening card needs Pinyin (field 1) to be non-empty
		Req:       [][]interface{}{{0, "all", []int{0}}, {1, "all", []int{1}}},
		LatexPre:  latexPre,
		LatexPost: `\end{document}`,
		Tmpls:     []cardTemplate{
			{Name: "Symbol", Ord: 0, Qfmt: symbolFront, Afmt: symbolBack},
			{Name: "Listening", Ord: 1, Qfmt: listeningFront, Afmt: listeningBack},
		},
		CSS:       cardCSS,
	}
}

const symbolFront = `<div class="front">
<div class="zhuyin">{{Zhuyin}}</div>
</div>`

const symbolBack = `{{FrontSide}}

<hr id="answer">

<div class="back">
<div class="pinyin">{{Pinyin}}</div>
{{#Audio}}<div class="audio">{{Audio}}</div>{{/Audio}}
{{#Word}}
<div class="word">{{Word}}</div>
<div class="meaning">{{Meaning}}</div>
{{/Word}}
{{#WordAudio}}<div class="audio">{{WordAudio}}</div>{{/WordAudio}}
{{#Sentence}}
<div class="sentence">{{Sentence}}</div>
<div class="translation">{{Translation}}</div>
{{/Sentence}}
{{#Notes}}<div class="notes">{{Notes}}</div>{{/Notes}}
</div>`

// hear the sound, recall the symbol
const listeningFront = `<div class="front">
<div class="pinyin">{{Pinyin}}</div>
{{#Audio}}<div class="audio">{{Audio}}</div>{{/Audio}}
</div>`

const listeningBack = `{{FrontSide}}

<hr id="answer">

<div class="back">
<div class="zhuyin">{{Zhuyin}}</div>
{{#Word}}
<div class="word">{{Word}}</div>
<div class="meaning">{{Meaning}}</div>
{{/Word}}
{{#Notes}}<div class="notes">{{Notes}}</div>{{/Notes}}
</div>`

const cardCSS = `.card {
  font-family: "Noto Sans TC", "PingFang TC", Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}
.front, .back { padding: 20px; }
.zhuyin { font-size: 72px; color: #c0392b; margin: 20px 0; }
.pinyin { font-size: 28px; font-weight: bold; color: #2c3e50; margin: 20px 0; }
.word { font-size: 32px; margin: 15px 0 5px; }
.meaning, .translation { font-size: 18px; color: #7f8c8d; }
.sentence { font-size: 26px; margin: 20px 0 5px; }
.audio { margin: 15px 0; }
.notes { font-size: 16px; color: #7f8c8d; margin-top: 20px; font-style: italic; }
hr#answer { margin: 30px 0; border: 0; border-top: 1px solid #ecf0f1; }`

// insertNotesAndCards writes one note per card and one Anki card per
// template of the note type
func (g *APKGGenerator) insertNotesAndCards(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for i, card := range g.cards {
		// note IDs leave room for the IDs of its two cards
		noteID := now.UnixMilli() + int64(i*3)

		fields := strings.Join([]string{
			card.Zhuyin,
			card.Pinyin,
			card.Word,
			card.Meaning,
			card.Sentence,
			card.Translation,
			g.soundField(card.AudioFile),
			g.soundField(card.WordAudioFile),
			card.Notes,
		}, "\x1f")

		_, err := tx.Exec(`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			VALUES (?, ?, ?, ?, -1, 'zhuyin', ?, ?, 0, 0, '')`,
			noteID, fmt.Sprintf("zy_%d_%s", now.Unix(), card.Zhuyin), g.modelID, now.Unix(), fields, card.Zhuyin,
		)
		if err != nil {
			return fmt.Errorf("failed to insert note %s: %w", card.Zhuyin, err)
		}

		for ord := 0; ord < 2; ord++ {
			cardID := noteID + int64(ord) + 1
			// new cards: type and queue 0, due is the position
			_, err := tx.Exec(`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due,
				ivl, factor, reps, lapses, left, odue, odid, flags, data)
				VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
				cardID, noteID, g.deckID, ord, now.Unix(), cardID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert card %d of note %s: %w", ord, card.Zhuyin, err)
			}
		}
	}

	return tx.Commit()
}

// soundField references a packaged media file, or is empty when the file
// was not packaged
func (g *APKGGenerator) soundField(path string) string {
	if path == "" {
		return ""
	}
	name := mediaName(path)
	if _, ok := g.mediaFiles[name]; !ok {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", name)
}

// writePackage zips the collection, the media mapping and the media files.
// Anki expects media entries named by their number.
func (g *APKGGenerator) writePackage(outputPath, dbPath string) (err error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(out)

	if err := addFile(zw, "collection.anki2", dbPath); err != nil {
		return err
	}

	mapping := make(map[string]string, len(g.mediaFiles))
	for name, num := range g.mediaFiles {
		mapping[strconv.Itoa(num)] = name
	}
	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	w, err := zw.Create("media")
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}

	for num, src := range g.media {
		if err := addFile(zw, strconv.Itoa(num), src); err != nil {
			return fmt.Errorf("failed to add audio file %s: %w", src, err)
		}
	}

	return zw.Close()
}

func addFile(zw *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// Helper functions

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
