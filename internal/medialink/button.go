package medialink

import (
	"go.uber.org/zap"

	"github.com/patrickprogramme/medialink/internal/i18n"
	"github.com/patrickprogramme/medialink/internal/logging"
	"github.com/patrickprogramme/medialink/internal/player"
	"github.com/patrickprogramme/medialink/internal/richtext"
	"github.com/patrickprogramme/medialink/internal/timecode"
)

// Mode est l'état d'édition du bouton de la barre d'outils.
type Mode int

const (
	ModeSingle Mode = iota
	ModeMultiple
)

func (m Mode) String() string {
	if m == ModeMultiple {
		return "multiple"
	}
	return "single"
}

// Context est l'état de l'éditeur au moment d'une action : la valeur et le
// texte de la sélection utilisateur (fourni par l'hôte).
type Context struct {
	Value     richtext.Value
	Selection string
}

// ContextFromValue utilise le texte sélectionné de v comme sélection.
func ContextFromValue(v richtext.Value) Context {
	return Context{Value: v, Selection: v.SelectedText()}
}

// Button est le contrôle "Link to media" de la barre d'outils.
type Button struct {
	f      *Formatter
	player player.Player
	mode   Mode
	log    *zap.SugaredLogger
}

// NewButton construit le contrôle ; p peut être nil (pas de lecteur dans la page).
func NewButton(f *Formatter, p player.Player) *Button {
	return &Button{f: f, player: p, log: logging.Logger("medialink.button")}
}

// Title retourne le libellé du bouton.
func (b *Button) Title() string {
	return b.f.tr.Sprintf(i18n.LinkToMedia)
}

func (b *Button) Mode() Mode {
	return b.mode
}

// IsActive indique si une annotation est active sur la sélection.
func (b *Button) IsActive(ctx Context) bool {
	_, ok := ctx.Value.ActiveFormat(FormatType)
	return ok
}

// Timestamp calcule la position proposée pour l'annotation :
//  1. la position de l'annotation active
//  2. le texte sélectionné s'il est un time-code (single = true)
//  3. la position courante du lecteur
func (b *Button) Timestamp(ctx Context) (seconds float64, single bool) {
	if active, ok := ctx.Value.ActiveFormat(FormatType); ok {
		if ts, err := Timestamp(active); err == nil {
			return ts, false
		}
	}
	if !ctx.Value.IsCollapsed() && timecode.IsTimeformat(ctx.Selection) {
		if ts, err := timecode.TimecodeToSeconds(ctx.Selection); err == nil {
			return ts, true
		}
	}
	if b.player != nil {
		return b.player.CurrentTime(), false
	}
	return 0, false
}

// MultipleTimeformats retourne les time-codes de la sélection s'il y en a plusieurs.
func (b *Button) MultipleTimeformats(ctx Context) []timecode.Match {
	return timecode.HasMultipleTimeformats(ctx.Selection)
}

// Click traite un clic sur le bouton. Passe en mode multiple quand la
// sélection contient plusieurs time-codes, n'est pas elle-même un time-code
// et qu'aucune annotation n'est active ; sinon bascule l'annotation unique.
func (b *Button) Click(ctx Context) richtext.Value {
	_, single := b.Timestamp(ctx)
	if len(b.MultipleTimeformats(ctx)) > 0 && !single && !b.IsActive(ctx) {
		b.mode = ModeMultiple
		return ctx.Value
	}
	return b.toggle(ctx)
}

// ApplyTime pose (ou remplace) l'annotation avec une nouvelle position.
func (b *Button) ApplyTime(ctx Context, seconds float64) richtext.Value {
	mark, err := b.f.Style(seconds)
	if err != nil {
		b.log.Debugw("apply time skipped", "seconds", seconds, "error", err)
		return ctx.Value
	}
	v := ctx.Value
	if v.IsCollapsed() {
		if active, ok := v.ActiveFormat(FormatType); ok {
			return v.ApplyFormat(mark, active.Range.From, active.Range.To)
		}
		return b.applyAtCursor(v, mark, seconds)
	}
	return v.ApplyFormat(mark, v.Start(), v.End())
}

// ApplyMultiple pose une annotation sur chaque time-code de la sélection et
// revient en mode simple.
func (b *Button) ApplyMultiple(ctx Context) richtext.Value {
	v, n := b.f.ApplyAllIn(ctx.Value, ctx.Selection)
	b.log.Debugw("bulk apply", "count", n)
	b.mode = ModeSingle
	return v
}

// CancelMultiple revient en mode simple et bascule l'annotation unique
// avec la position proposée.
func (b *Button) CancelMultiple(ctx Context) richtext.Value {
	b.mode = ModeSingle
	return b.toggle(ctx)
}

func (b *Button) toggle(ctx Context) richtext.Value {
	seconds, _ := b.Timestamp(ctx)
	mark, err := b.f.Style(seconds)
	if err != nil {
		b.log.Debugw("toggle skipped", "seconds", seconds, "error", err)
		return ctx.Value
	}
	v := ctx.Value
	if _, ok := v.ActiveFormat(FormatType); ok || !v.IsCollapsed() {
		return v.ToggleFormat(mark)
	}
	return b.applyAtCursor(v, mark, seconds)
}

// applyAtCursor annote le mot sous le curseur ; sans mot, insère le time-code.
func (b *Button) applyAtCursor(v richtext.Value, mark richtext.Mark, seconds float64) richtext.Value {
	word := v.WordAt(v.Start())
	if !word.Empty() {
		return v.ApplyFormat(mark, word.From, word.To)
	}
	code, err := timecode.SecondsToTimecode(seconds)
	if err != nil {
		return v
	}
	at := v.Start()
	v = v.Insert(code, at)
	return v.ApplyFormat(mark, at, v.Start())
}
