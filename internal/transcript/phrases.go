package transcript

import (
	"strings"
	"unicode/utf8"
)

const (
	// une pause plus longue entre deux mots coupe la phrase
	defaultPauseThresholdMs = 2000
	// sécurité : nombre maximum de mots par phrase
	defaultMaxWords = 100
)

// Phrase est une phrase du transcript et sa position de début.
type Phrase struct {
	StartMs   int64
	Text      string
	RuneCount int
	WordCount int
}

// Options règle le découpage en phrases des sous-titres automatiques.
type Options struct {
	PauseThresholdMs int64
	MaxWords         int
}

func DefaultOptions() Options {
	return Options{PauseThresholdMs: defaultPauseThresholdMs, MaxWords: defaultMaxWords}
}

// phraseBuilder accumule les mots de la phrase courante.
type phraseBuilder struct {
	opts    Options
	sb      strings.Builder
	words   int
	startMs int64 // -1 tant qu'aucun mot daté
	lastMs  int64 // dernier mot daté vu, sert de repli
	out     []Phrase
}

func newPhraseBuilder(opts Options) *phraseBuilder {
	return &phraseBuilder{opts: opts, startMs: -1, lastMs: -1}
}

func (b *phraseBuilder) add(text string, ts int64) {
	text = cleanText(text)
	if text == "" {
		return
	}
	if ts > 0 {
		if b.lastMs >= 0 && ts-b.lastMs > b.opts.PauseThresholdMs && b.sb.Len() > 0 {
			b.commit()
		}
		b.lastMs = ts
		if b.startMs < 0 {
			b.startMs = ts
		}
	}
	if b.sb.Len() > 0 {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteString(text)
	b.words += len(strings.Fields(text))

	if b.words >= b.opts.MaxWords || endsSentence(text) {
		b.commit()
	}
}

func (b *phraseBuilder) commit() {
	txt := strings.TrimSpace(b.sb.String())
	if txt != "" {
		ts := b.startMs
		if ts < 0 {
			ts = max(b.lastMs, 0)
		}
		b.out = append(b.out, Phrase{
			StartMs:   ts,
			Text:      txt,
			RuneCount: utf8.RuneCountInString(txt),
			WordCount: len(strings.Fields(txt)),
		})
	}
	b.sb.Reset()
	b.words = 0
	b.startMs = -1
}

// wordPhrases reconstruit des phrases à partir des timestamps par mot
// (sous-titres automatiques) : on coupe sur la ponctuation finale, sur les
// pauses longues et au-delà de MaxWords. Chaque seg est une unité atomique.
func wordPhrases(raw rawJSON3, opts Options) []Phrase {
	b := newPhraseBuilder(opts)
	for _, ev := range raw.Events {
		if ev.isNewlineOnly() {
			continue
		}
		for _, seg := range ev.Segs {
			b.add(seg.Utf8, absTime(ev, seg))
		}
	}
	b.commit()
	return b.out
}

// eventPhrases : sous-titres manuels, une phrase par event daté.
func eventPhrases(raw rawJSON3) []Phrase {
	var out []Phrase
	for _, ev := range raw.Events {
		if ev.isNewlineOnly() {
			continue
		}
		parts := make([]string, 0, len(ev.Segs))
		for _, seg := range ev.Segs {
			if t := cleanText(seg.Utf8); t != "" {
				parts = append(parts, t)
			}
		}
		txt := strings.Join(parts, " ")
		if txt == "" {
			continue
		}
		var start int64
		if ev.TStartMs != nil {
			start = *ev.TStartMs
		}
		out = append(out, Phrase{
			StartMs:   start,
			Text:      txt,
			RuneCount: utf8.RuneCountInString(txt),
			WordCount: len(strings.Fields(txt)),
		})
	}
	return out
}
