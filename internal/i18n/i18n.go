// Package i18n fournit les libellés traduits (ex: "Playback at %s").
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Clés de messages
const (
	PlaybackAt      = "Playback at %s"
	LinkToMedia     = "Link to media"
	MediaLinkTitle  = "Media link"
	PlayPauseButton = "Play/Pause button"
)

// Translator traduit une clé de message avec ses arguments.
type Translator interface {
	Sprintf(key string, args ...interface{}) string
}

var supported = []language.Tag{language.English, language.French}

var defaultCatalog = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(tag language.Tag, key, msg string) {
		// les clés sont des constantes : une erreur ici est un bug de programmation
		if err := b.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}
	for _, k := range []string{PlaybackAt, LinkToMedia, MediaLinkTitle, PlayPauseButton} {
		set(language.English, k, k)
	}
	set(language.French, PlaybackAt, "Lecture à %s")
	set(language.French, LinkToMedia, "Lier au média")
	set(language.French, MediaLinkTitle, "Lien média")
	set(language.French, PlayPauseButton, "Bouton lecture/pause")
	return b
}()

type printer struct {
	p *message.Printer
}

// New retourne un Translator pour la locale donnée ("fr", "en-US"...).
// Une locale inconnue ou vide retombe sur l'anglais.
func New(locale string) Translator {
	tag := language.English
	if l := strings.TrimSpace(locale); l != "" {
		if parsed, err := language.Parse(l); err == nil {
			matcher := language.NewMatcher(supported)
			_, idx, _ := matcher.Match(parsed)
			tag = supported[idx]
		}
	}
	return printer{p: message.NewPrinter(tag, message.Catalog(defaultCatalog))}
}

func (p printer) Sprintf(key string, args ...interface{}) string {
	return p.p.Sprintf(key, args...)
}
