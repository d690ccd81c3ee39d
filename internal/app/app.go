package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/patrickprogramme/medialink/internal/blocks"
	"github.com/patrickprogramme/medialink/internal/clipboard"
	"github.com/patrickprogramme/medialink/internal/config"
	"github.com/patrickprogramme/medialink/internal/i18n"
	"github.com/patrickprogramme/medialink/internal/logging"
	"github.com/patrickprogramme/medialink/internal/markup"
	"github.com/patrickprogramme/medialink/internal/medialink"
	"github.com/patrickprogramme/medialink/internal/player"
	"github.com/patrickprogramme/medialink/internal/render"
	"github.com/patrickprogramme/medialink/internal/richtext"
	"github.com/patrickprogramme/medialink/internal/ui"
)

// ErrCanceled est retourné quand l'utilisateur abandonne l'opération.
var ErrCanceled = errors.New("opération annulée par l'utilisateur")

// NoSelection signale l'absence de --from/--to.
const NoSelection = -1

// CLIFlags contient les information venant des flags de l'app
type CLIFlags struct {
	ConfigPath string
	Auto       bool

	In        string // fichier d'entrée, "-" = stdin, vide = presse-papier
	Out       string // fichier de sortie, "-" ou vide = stdout
	InFormat  string
	OutFormat string

	From, To int     // sélection en runes ; NoSelection = tout le texte
	At       float64 // position du lecteur ; < 0 = config

	Wrap      bool
	Title     string
	Clipboard bool
}

// DefaultFlags retourne des flags sans sélection ni position forcée.
func DefaultFlags() *CLIFlags {
	return &CLIFlags{From: NoSelection, To: NoSelection, At: -1}
}

// App orchestre les différentes dépendances (UI, presse-papier, rendu...)
type App struct {
	cfg      *config.Config
	ui       ui.Interface
	flags    *CLIFlags
	renderer *render.Renderer
	clip     clipboard.Clipboard
	stdin    io.Reader
	stdout   io.Writer

	tr        i18n.Translator
	formatter *medialink.Formatter
	codec     *markup.Codec
	player    *player.Session
	registry  *blocks.Registry
	log       *zap.SugaredLogger
}

// Option modifie une App à la construction (tests).
type Option func(*App)

func WithClipboard(c clipboard.Clipboard) Option { return func(a *App) { a.clip = c } }

func WithStdio(in io.Reader, out io.Writer) Option {
	return func(a *App) { a.stdin, a.stdout = in, out }
}

// New construit l'application en initialisant les dépendances par défaut.
// Pour les tests, on injecte ui, presse-papier et flux via les options.
func New(cfg *config.Config, uiClient ui.Interface, flags *CLIFlags, renderer *render.Renderer, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if flags == nil {
		flags = DefaultFlags()
	}
	a := &App{
		cfg:      cfg,
		ui:       uiClient,
		flags:    flags,
		renderer: renderer,
		clip:     clipboard.System{},
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		log:      logging.Logger("app"),
	}
	for _, o := range opts {
		o(a)
	}

	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		a.log.Warnf("log level %q ignoré: %v", cfg.LogLevel, err)
	}

	a.tr = i18n.New(cfg.Locale)
	a.formatter = medialink.NewFormatter(a.tr)
	a.registry = blocks.NewRegistry()
	if err := blocks.RegisterDefaults(a.registry, a.tr); err != nil {
		return nil, fmt.Errorf("enregistrement des blocs: %w", err)
	}
	settings, err := a.registry.FormatType(medialink.FormatType)
	if err != nil {
		return nil, err
	}
	a.codec = markup.NewCodec(settings, a.formatter)

	position := cfg.Player.StartPosition
	if flags.At >= 0 {
		position = flags.At
	}
	a.player = player.NewSession(position, cfg.Player.Duration)
	return a, nil
}

// Registry expose les blocs et formats enregistrés.
func (a *App) Registry() *blocks.Registry {
	return a.registry
}

// Link convertit les time-codes du document en liens de lecture.
//   - sans sélection : un lien par time-code du texte (si link_all)
//   - avec sélection : comportement du bouton "Link to media" de l'éditeur
//
// La sélection --from/--to porte sur le texte lu ; elle suit la conversion
// des raccourcis "[hh:mm:ss]".
func (a *App) Link(ctx context.Context) error {
	doc, err := a.readDocument(ctx)
	if err != nil {
		return err
	}
	v := doc.value

	selected := a.flags.From != NoSelection || a.flags.To != NoSelection
	if selected {
		if v, err = a.withSelection(v); err != nil {
			return err
		}
	}

	if a.cfg.BracketShorthand {
		var n int
		v, n = a.formatter.ConvertBrackets(v)
		a.log.Debugf("%d bracket shorthand(s) converted", n)
	}

	if !selected {
		if a.cfg.LinkAll {
			var n int
			v, n = a.formatter.ApplyAllText(v)
			a.ui.PrintInfo(ctx, fmt.Sprintf("%d lien(s) créé(s).", n))
		}
	} else {
		v, err = a.applySelection(ctx, v)
		if err != nil {
			return err
		}
	}

	return a.writeDocument(ctx, doc, v)
}

// Brackets convertit uniquement la saisie "[hh:mm:ss]" du document.
func (a *App) Brackets(ctx context.Context) error {
	doc, err := a.readDocument(ctx)
	if err != nil {
		return err
	}
	v, n := a.formatter.ConvertBrackets(doc.value)
	a.ui.PrintInfo(ctx, fmt.Sprintf("%d raccourci(s) converti(s).", n))
	return a.writeDocument(ctx, doc, v)
}

// withSelection pose la sélection --from/--to sur v (un seul bord donné : curseur).
func (a *App) withSelection(v richtext.Value) (richtext.Value, error) {
	from, to := a.flags.From, a.flags.To
	if from == NoSelection {
		from = to
	}
	if to == NoSelection {
		to = from
	}
	if from < 0 || to < 0 || from > v.Len() || to > v.Len() {
		return v, fmt.Errorf("sélection %d-%d hors du texte (%d caractères)", from, to, v.Len())
	}
	return v.WithSelection(from, to), nil
}

// applySelection rejoue un clic sur le bouton de la barre d'outils avec la
// sélection courante de v.
func (a *App) applySelection(ctx context.Context, v richtext.Value) (richtext.Value, error) {
	button := medialink.NewButton(a.formatter, a.player)
	bctx := medialink.ContextFromValue(v)

	out := button.Click(bctx)
	if button.Mode() != medialink.ModeMultiple {
		return out, nil
	}

	matches := button.MultipleTimeformats(bctx)
	choice := ui.ChoiceAll
	if !a.cfg.AutoMode {
		c, err := a.ui.ChooseMultiple(ctx, matches)
		if err != nil {
			return v, fmt.Errorf("choix du mode de conversion: %w", err)
		}
		choice = c
	}

	switch choice {
	case ui.ChoiceAll:
		a.ui.PrintInfo(ctx, fmt.Sprintf("%d lien(s) créé(s).", len(matches)))
		return button.ApplyMultiple(bctx), nil
	case ui.ChoiceSingle:
		return button.CancelMultiple(bctx), nil
	default:
		button.CancelMultiple(bctx)
		return v, ErrCanceled
	}
}
