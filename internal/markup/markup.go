// Package markup sérialise une richtext.Value dans le format stocké par l'hôte
// (HTML, Markdown ou texte brut) et la relit.
//
// Une annotation media link devient une ancre dont le href porte "#<secondes>"
// et le title le libellé : <a href="#5" title="Playback at 00:00:05">.
package markup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/patrickprogramme/medialink/internal/medialink"
	"github.com/patrickprogramme/medialink/internal/richtext"
	"github.com/patrickprogramme/medialink/internal/timecode"
	"github.com/patrickprogramme/medialink/pkg/model"
)

var ErrUnknownFormat = errors.New("unknown markup format")

// Codec convertit une Value depuis/vers le format stocké, selon les paramètres
// d'enregistrement du format media link.
type Codec struct {
	settings medialink.Settings
	f        *medialink.Formatter
}

// NewCodec construit un Codec. f sert à recalculer un libellé absent à la relecture.
func NewCodec(settings medialink.Settings, f *medialink.Formatter) *Codec {
	return &Codec{settings: settings, f: f}
}

// Encode sérialise v dans le format demandé.
func (c *Codec) Encode(v richtext.Value, format model.Format) (string, error) {
	switch format {
	case model.FormatHTML:
		return c.HTML(v), nil
	case model.FormatMARKDOWN:
		return c.Markdown(v), nil
	case model.FormatTXT:
		return v.Text(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode relit src écrit dans le format donné.
func (c *Codec) Decode(src string, format model.Format) (richtext.Value, error) {
	switch format {
	case model.FormatHTML:
		return c.ParseHTML(src)
	case model.FormatMARKDOWN:
		return c.ParseMarkdown(src)
	case model.FormatTXT:
		return richtext.New(src), nil
	default:
		return richtext.Value{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// htmlAttr retourne le nom de l'attribut HTML associé à un attribut d'annotation.
func (c *Codec) htmlAttr(attr string) string {
	if name, ok := c.settings.Attributes[attr]; ok {
		return name
	}
	return attr
}

// mark reconstruit l'annotation lue depuis un lien ; ok=false si le lien
// n'est pas un lien de lecture.
func (c *Codec) mark(href, title string) (richtext.Mark, bool) {
	seconds, err := timecode.ParseTimestamp(href)
	if err != nil || !strings.HasPrefix(strings.TrimSpace(href), timecode.TimestampMarker) {
		return richtext.Mark{}, false
	}
	if strings.TrimSpace(title) == "" {
		m, err := c.f.Style(seconds)
		if err != nil {
			return richtext.Mark{}, false
		}
		return m, true
	}
	return richtext.Mark{
		Type: c.settings.Name,
		Attributes: map[string]string{
			medialink.AttrTimestamp: timecode.FormatTimestamp(seconds),
			medialink.AttrLabel:     title,
		},
	}, true
}

// span est un morceau de texte homogène : avec ou sans annotation.
type span struct {
	text string
	mark *richtext.Mark
}

// spans découpe v en morceaux selon les annotations du format media link.
func (c *Codec) spans(v richtext.Value) []span {
	var out []span
	pos := 0
	for _, m := range v.MarksOfType(c.settings.Name) {
		if m.Range.From > pos {
			out = append(out, span{text: v.Slice(pos, m.Range.From)})
		}
		mk := m
		out = append(out, span{text: v.Slice(m.Range.From, m.Range.To), mark: &mk})
		pos = m.Range.To
	}
	if pos < v.Len() {
		out = append(out, span{text: v.Slice(pos, v.Len())})
	}
	return out
}
