// Package medialink implémente le format de texte enrichi "media link" :
// une annotation qui lie une plage de texte à une position de lecture.
package medialink

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/patrickprogramme/medialink/internal/i18n"
	"github.com/patrickprogramme/medialink/internal/logging"
	"github.com/patrickprogramme/medialink/internal/richtext"
	"github.com/patrickprogramme/medialink/internal/timecode"
)

const (
	// FormatType identifie l'annotation auprès de l'éditeur hôte.
	FormatType = "media-link-format-type"
	ClassName  = "media-link-format-type"
	TagName    = "a"

	AttrTimestamp = "timestamp"
	AttrLabel     = "label"

	wrapStartChar = '['
	wrapEndChar   = ']'
)

// Settings décrit l'enregistrement du format auprès de l'hôte.
// Attributes associe un attribut de l'annotation à l'attribut HTML sérialisé.
type Settings struct {
	Name       string
	Title      string
	TagName    string
	ClassName  string
	Attributes map[string]string
}

// DefaultSettings retourne les paramètres d'enregistrement du format.
func DefaultSettings(tr i18n.Translator) Settings {
	return Settings{
		Name:      FormatType,
		Title:     tr.Sprintf(i18n.MediaLinkTitle),
		TagName:   TagName,
		ClassName: ClassName,
		Attributes: map[string]string{
			AttrTimestamp: "href",
			AttrLabel:     "title",
		},
	}
}

// Formatter construit et pose les annotations media link.
type Formatter struct {
	tr  i18n.Translator
	log *zap.SugaredLogger
}

// NewFormatter construit un Formatter ; tr nil => libellés anglais.
func NewFormatter(tr i18n.Translator) *Formatter {
	if tr == nil {
		tr = i18n.New("")
	}
	return &Formatter{tr: tr, log: logging.Logger("medialink")}
}

// Style construit l'annotation pour une position en secondes.
func (f *Formatter) Style(seconds float64) (richtext.Mark, error) {
	code, err := timecode.SecondsToTimecode(seconds)
	if err != nil {
		return richtext.Mark{}, fmt.Errorf("media link style: %w", err)
	}
	return f.styleWithLabel(seconds, code), nil
}

func (f *Formatter) styleWithLabel(seconds float64, code string) richtext.Mark {
	return richtext.Mark{
		Type: FormatType,
		Attributes: map[string]string{
			AttrTimestamp: timecode.FormatTimestamp(seconds),
			AttrLabel:     f.tr.Sprintf(i18n.PlaybackAt, code),
		},
	}
}

// Timestamp lit la position portée par une annotation.
func Timestamp(m richtext.Mark) (float64, error) {
	return timecode.ParseTimestamp(m.Attr(AttrTimestamp))
}

// ApplyAll pose une annotation sur chaque time-code de la sélection de v.
// Voir ApplyAllIn.
func (f *Formatter) ApplyAll(v richtext.Value) (richtext.Value, int) {
	return f.ApplyAllIn(v, v.SelectedText())
}

// ApplyAllIn pose une annotation sur chaque time-code trouvé dans selection,
// dont le premier caractère est à v.Start(). Les offsets calculés au scan
// restent valides : poser une annotation ne change pas la longueur du texte.
// Retourne la nouvelle valeur et le nombre d'annotations posées.
func (f *Formatter) ApplyAllIn(v richtext.Value, selection string) (richtext.Value, int) {
	base := v.Start()
	count := 0
	for m := range timecode.FindAllTimeformats(selection) {
		from, to := base+m.Start, base+m.End
		if v.Slice(from, to) != m.Text {
			// la sélection injectée ne correspond pas au texte de la valeur
			f.log.Debugw("bulk apply: selection out of sync", "match", m.Text, "from", from)
			continue
		}
		seconds, err := timecode.TimecodeToSeconds(m.Text)
		if err != nil {
			continue
		}
		v = v.ApplyFormat(f.styleWithLabel(seconds, m.Text), from, to)
		count++
	}
	return v, count
}

// ApplyAllText pose une annotation sur chaque time-code de tout le texte.
func (f *Formatter) ApplyAllText(v richtext.Value) (richtext.Value, int) {
	start, end := v.Start(), v.End()
	out, n := f.ApplyAll(v.WithSelection(0, v.Len()))
	return out.WithSelection(start, end), n
}

// InputRule convertit la saisie "[hh:mm:ss]" en annotation quand le caractère
// juste avant le curseur est ']'. Les crochets sont retirés et le time-code
// annoté. Sinon la valeur est retournée telle quelle.
func (f *Formatter) InputRule(v richtext.Value) richtext.Value {
	start := v.Start()
	if !v.IsCollapsed() || start < 1 {
		return v
	}
	out, _, ok := f.convertBracket(v, []rune(v.Text()), start-1)
	if !ok {
		return v
	}
	return out
}

// ConvertBrackets applique InputRule après chaque ']' du texte, comme si chacun
// venait d'être saisi. La sélection de v suit le texte : elle est décalée des
// crochets retirés. Retourne la nouvelle valeur et le nombre de conversions.
func (f *Formatter) ConvertBrackets(v richtext.Value) (richtext.Value, int) {
	if !strings.ContainsRune(v.Text(), wrapEndChar) {
		return v, 0
	}
	// copie tenue à jour avec v, pour ne pas reconvertir le texte à chaque rune
	runes := []rune(v.Text())
	count := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != wrapEndChar {
			continue
		}
		next, open, ok := f.convertBracket(v, runes, i)
		if !ok {
			continue
		}
		v = next
		runes = slices.Delete(runes, i, i+1)
		runes = slices.Delete(runes, open, open+1)
		count++
		// deux runes retirées avant la position suivante
		i -= 2
	}
	return v, count
}

// convertBracket retire les crochets autour du time-code fermé en closeAt
// (runes est le texte de v) et annote le time-code. Retourne aussi la
// position du '[' retiré.
func (f *Formatter) convertBracket(v richtext.Value, runes []rune, closeAt int) (richtext.Value, int, bool) {
	open, wrapText, ok := bracketSpan(runes, closeAt)
	if !ok {
		return v, -1, false
	}
	seconds, err := timecode.TimecodeToSeconds(wrapText)
	if err != nil {
		return v, -1, false
	}

	v = v.Remove(closeAt, closeAt+1)
	v = v.Remove(open, open+1)
	f.log.Debugw("bracket shorthand converted", "timecode", wrapText)
	return v.ApplyFormat(f.styleWithLabel(seconds, wrapText), open, closeAt-1), open, true
}

// bracketSpan cherche le '[' non consommé, sur la même ligne, qui ouvre le
// ']' en closeAt, et vérifie que le contenu est un time-code.
func bracketSpan(runes []rune, closeAt int) (int, string, bool) {
	if closeAt < 0 || closeAt >= len(runes) || runes[closeAt] != wrapEndChar {
		return -1, "", false
	}
	for i := closeAt - 1; i >= 0; i-- {
		switch runes[i] {
		case '\n', wrapEndChar:
			return -1, "", false
		case wrapStartChar:
			if closeAt-i < 2 {
				return -1, "", false
			}
			wrapText := string(runes[i+1 : closeAt])
			if !timecode.IsTimeformat(wrapText) {
				return -1, "", false
			}
			return i, wrapText, true
		}
	}
	return -1, "", false
}
