// Package transcript transforme une piste de sous-titres json3 en texte
// enrichi : une phrase par ligne, précédée de son time-code lié au lecteur.
package transcript

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/patrickprogramme/medialink/internal/medialink"
	"github.com/patrickprogramme/medialink/internal/richtext"
	"github.com/patrickprogramme/medialink/pkg/model"
)

var ErrEmptyTranscript = errors.New("transcript vide : aucune phrase dans la piste")

// Transcript est la liste des phrases extraites d'une piste.
type Transcript struct {
	Phrases []Phrase
}

// Parse décode une piste json3 et la découpe en phrases.
func Parse(b []byte, opts Options) (Transcript, error) {
	raw, err := parseJSON3(b)
	if err != nil {
		return Transcript{}, err
	}
	return fromRaw(raw, opts)
}

// ParseReader est Parse depuis un flux.
func ParseReader(r io.Reader, opts Options) (Transcript, error) {
	raw, err := parseJSON3Reader(r)
	if err != nil {
		return Transcript{}, err
	}
	return fromRaw(raw, opts)
}

func fromRaw(raw rawJSON3, opts Options) (Transcript, error) {
	if opts.PauseThresholdMs <= 0 {
		opts.PauseThresholdMs = defaultPauseThresholdMs
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = defaultMaxWords
	}
	var phrases []Phrase
	if raw.hasWordTimings() {
		phrases = wordPhrases(raw, opts)
	} else {
		phrases = eventPhrases(raw)
	}
	if len(phrases) == 0 {
		return Transcript{}, ErrEmptyTranscript
	}
	return Transcript{Phrases: phrases}, nil
}

// Plain retourne une phrase par ligne, préfixée de son time-code.
func (t Transcript) Plain() string {
	var b strings.Builder
	for i, p := range t.Phrases {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.timecode())
		b.WriteByte(' ')
		b.WriteString(p.Text)
	}
	return b.String()
}

// Value construit le texte enrichi : chaque time-code de début de ligne porte
// une annotation media link vers la position de la phrase.
func (t Transcript) Value(f *medialink.Formatter) (richtext.Value, error) {
	v := richtext.New(t.Plain())
	lines := v.Lines()
	for i, p := range t.Phrases {
		mark, err := f.Style(p.Seconds())
		if err != nil {
			return v, fmt.Errorf("phrase %d: %w", i, err)
		}
		code := lines[i].From + len([]rune(p.timecode()))
		v = v.ApplyFormat(mark, lines[i].From, code)
	}
	return v.WithSelection(v.Len(), v.Len()), nil
}

func (p Phrase) timecode() string {
	return model.Seconds(p.StartMs / 1000).TimestampHHMMSS()
}

// Seconds retourne la position de début en secondes entières.
func (p Phrase) Seconds() float64 {
	return float64(p.StartMs / 1000)
}
