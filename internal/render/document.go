package render

import (
	"fmt"
	"strings"

	"github.com/patrickprogramme/medialink/internal/medialink"
	"github.com/patrickprogramme/medialink/internal/richtext"
	"github.com/patrickprogramme/medialink/pkg/model"
)

// DocumentData est passé aux templates de document.
type DocumentData struct {
	Title string
	Lang  string
	Body  string // déjà sérialisé dans le format cible
	Links []Link
}

// Link est une entrée de l'index des positions de lecture.
type Link struct {
	Href     string // "#65"
	Label    string // "Playback at 00:01:05"
	Timecode string // "00:01:05"
	Text     string // texte annoté
}

// NewDocument construit les données de rendu ; l'index suit l'ordre du texte.
func NewDocument(title, lang, body string, v richtext.Value) DocumentData {
	if lang == "" {
		lang = "en"
	}
	d := DocumentData{Title: title, Lang: lang, Body: body}
	for _, m := range v.MarksOfType(medialink.FormatType) {
		secs, err := medialink.Timestamp(m)
		if err != nil {
			log.Debugf("mark without timestamp at %d-%d: %v", m.Range.From, m.Range.To, err)
			continue
		}
		d.Links = append(d.Links, Link{
			Href:     m.Attr(medialink.AttrTimestamp),
			Label:    m.Attr(medialink.AttrLabel),
			Timecode: model.Seconds(secs).TimestampHHMMSS(),
			Text:     v.Slice(m.Range.From, m.Range.To),
		})
	}
	return d
}

// linkListPure : génère les lignes Markdown cliquables de l'index.
// Usage dans template : {{ linkList .Links }}
func linkListPure(links []Link) string {
	if len(links) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range links {
		text := strings.TrimSpace(strings.ReplaceAll(l.Text, "\n", " "))
		if text == "" || text == l.Timecode {
			fmt.Fprintf(&b, "- [%s](%s)\n", l.Timecode, l.Href)
			continue
		}
		fmt.Fprintf(&b, "- [%s](%s) - %s\n", l.Timecode, l.Href, text)
	}
	return b.String()
}
