package blocks

import (
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"github.com/patrickprogramme/medialink/internal/i18n"
	"github.com/patrickprogramme/medialink/internal/player"
)

// PlayPauseName identifie le bloc bouton lecture/pause.
const PlayPauseName = "play-pause-button"

// Attributes sont les attributs sérialisés d'une instance de bloc.
type Attributes struct {
	ClassName string
	Scale     float64
}

// Props sont les propriétés passées à l'édition d'un bloc.
type Props struct {
	ClientID string
	Attributes
	Player player.Player
}

// Element est la représentation éditeur d'un bloc : un wrapper et un bouton.
type Element struct {
	ClientID  string
	ClassName string
	Label     string
	IsPaused  bool
	Scale     float64
	// OnClick met le lecteur en pause ; nil sans lecteur.
	OnClick func()
}

// NewClientID génère l'identifiant d'une instance de bloc dans l'éditeur.
func NewClientID() string {
	return uuid.NewString()
}

type playPause struct {
	tr i18n.Translator
}

// NewPlayPause construit le type de bloc "play-pause-button".
func NewPlayPause(tr i18n.Translator) Type {
	if tr == nil {
		tr = i18n.New("")
	}
	return playPause{tr: tr}
}

func (p playPause) Name() string { return PlayPauseName }

func (p playPause) Title() string { return p.tr.Sprintf(i18n.PlayPauseButton) }

func (p playPause) Edit(props Props) Element {
	id := props.ClientID
	if id == "" {
		id = NewClientID()
	}
	scale := props.Scale
	if scale <= 0 {
		scale = 1
	}
	el := Element{
		ClientID:  id,
		ClassName: blockClassName(props.ClassName),
		Label:     p.Title(),
		IsPaused:  true,
		Scale:     scale,
	}
	if props.Player != nil {
		pl := props.Player
		el.IsPaused = pl.IsPaused()
		el.OnClick = pl.Pause
	}
	return el
}

// Save produit le balisage statique ; l'état de lecture est résolu côté client.
func (p playPause) Save(attrs Attributes) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="%s">`, html.EscapeString(blockClassName(attrs.ClassName)))
	fmt.Fprintf(&b, `<button type="button" class="play-pause-button__button" aria-label="%s"`, html.EscapeString(p.Title()))
	if attrs.Scale > 0 && attrs.Scale != 1 {
		fmt.Fprintf(&b, ` data-scale="%g"`, attrs.Scale)
	}
	b.WriteString(`></button></div>`)
	return b.String()
}

func blockClassName(extra string) string {
	cls := "wp-block-" + PlayPauseName
	if e := strings.TrimSpace(extra); e != "" {
		cls += " " + e
	}
	return cls
}
