package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/patrickprogramme/medialink/internal/assets"
	"github.com/patrickprogramme/medialink/internal/blocks"
	"github.com/patrickprogramme/medialink/internal/bootstrap"
	"github.com/patrickprogramme/medialink/internal/fsutil"
	"github.com/patrickprogramme/medialink/internal/render"
	"github.com/patrickprogramme/medialink/internal/richtext"
	"github.com/patrickprogramme/medialink/internal/timecode"
	"github.com/patrickprogramme/medialink/internal/transcript"
	"github.com/patrickprogramme/medialink/internal/ui"
	"github.com/patrickprogramme/medialink/pkg/model"
)

const retryDelay = 250 * time.Millisecond

// document est un texte d'entrée décodé.
type document struct {
	value  richtext.Value
	format model.Format
	name   string // nom de base (sans extension), vide pour stdin / presse-papier
}

// ConvertTimecode convertit dans les deux sens : "00:01:05" -> "65" et "65" -> "00:01:05".
func ConvertTimecode(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if timecode.IsTimeformat(arg) {
		secs, err := timecode.TimecodeToSeconds(arg)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(secs, 'f', -1, 64), nil
	}
	secs, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return "", fmt.Errorf("%q n'est ni un time-code ni un nombre de secondes: %w", arg, timecode.ErrInvalidFormat)
	}
	return timecode.SecondsToTimecode(secs)
}

func (a *App) readDocument(ctx context.Context) (document, error) {
	var doc document
	src, name, err := a.readSource(ctx)
	if err != nil {
		return doc, err
	}
	format, err := a.inputFormat()
	if err != nil {
		return doc, err
	}
	v, err := a.codec.Decode(src, format)
	if err != nil {
		return doc, fmt.Errorf("décodage %s: %w", format, err)
	}
	doc = document{value: v, format: format, name: name}
	a.log.Debugw("document read", "format", format, "runes", v.Len(), "marks", len(v.Marks()))
	return doc, nil
}

// readSource lit le texte brut : fichier, stdin ("-") ou presse-papier.
// name est le nom de base du fichier, vide sinon.
func (a *App) readSource(ctx context.Context) (string, string, error) {
	switch a.flags.In {
	case "-":
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", fmt.Errorf("lecture stdin: %w", err)
		}
		return string(b), "", nil
	case "":
		s, err := a.readClipboard(ctx)
		return s, "", err
	default:
		b, err := os.ReadFile(a.flags.In)
		if err != nil {
			return "", "", fmt.Errorf("lecture de %s: %w", a.flags.In, err)
		}
		base := filepath.Base(a.flags.In)
		return string(b), strings.TrimSuffix(base, filepath.Ext(base)), nil
	}
}

// Transcript convertit une piste de sous-titres json3 en transcript lié :
// une phrase par ligne, précédée de son time-code cliquable.
func (a *App) Transcript(ctx context.Context) error {
	src, name, err := a.readSource(ctx)
	if err != nil {
		return err
	}
	tr, err := transcript.Parse([]byte(src), transcript.DefaultOptions())
	if err != nil {
		return fmt.Errorf("transcript: %w", err)
	}
	v, err := tr.Value(a.formatter)
	if err != nil {
		return fmt.Errorf("transcript: %w", err)
	}
	a.ui.PrintInfo(ctx, fmt.Sprintf("%d phrase(s) dans le transcript.", len(tr.Phrases)))
	return a.writeDocument(ctx, document{value: v, format: model.FormatTXT, name: name}, v)
}

// inputFormat : flag > config > extension du fichier > texte brut.
func (a *App) inputFormat() (model.Format, error) {
	for _, s := range []string{a.flags.InFormat, a.cfg.InputFormat} {
		if s != "" {
			return model.ParseFormat(s)
		}
	}
	if a.flags.In != "" && a.flags.In != "-" {
		if ext := strings.TrimPrefix(filepath.Ext(a.flags.In), "."); ext != "" {
			if f, err := model.ParseFormat(ext); err == nil {
				return f, nil
			}
		}
	}
	return model.FormatTXT, nil
}

func (a *App) outputFormat() (model.Format, error) {
	if a.flags.OutFormat != "" {
		return model.ParseFormat(a.flags.OutFormat)
	}
	return model.ParseFormat(a.cfg.OutputFormat)
}

// readClipboard lit le texte d'entrée depuis le presse-papier.
// En mode auto, le contenu est pris sans confirmation.
func (a *App) readClipboard(ctx context.Context) (string, error) {
	if a.cfg.AutoMode {
		s, err := a.clip.ReadAll()
		if err != nil {
			return "", fmt.Errorf("lecture du presse-papier: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("le presse-papier est vide")
		}
		return s, nil
	}
	for {
		content, choice, err := a.ui.GetClipboardChoice(ctx)
		if err != nil {
			return "", fmt.Errorf("get clipboard choice: %w", err)
		}
		switch choice {
		case ui.ChoiceUse:
			return content, nil
		case ui.ChoiceSkip:
			return "", ErrCanceled
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

func (a *App) writeDocument(ctx context.Context, doc document, v richtext.Value) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	body, err := a.codec.Encode(v, format)
	if err != nil {
		return err
	}

	title := a.flags.Title
	if title == "" {
		title = a.cfg.Title
	}
	if title == "" {
		title = doc.name
	}

	content := []byte(body)
	if a.flags.Wrap || a.cfg.WrapDocument {
		content, err = a.wrap(format, title, body, v)
		if err != nil {
			return err
		}
	}

	if a.flags.Out == "" || a.flags.Out == "-" {
		if _, err := a.stdout.Write(content); err != nil {
			return err
		}
		if len(content) > 0 && content[len(content)-1] != '\n' {
			_, _ = io.WriteString(a.stdout, "\n")
		}
	} else {
		outPath, err := a.save(format, title, content)
		if err != nil {
			return err
		}
		a.ui.PrintInfo(ctx, fmt.Sprintf("Document écrit : %s", outPath))
	}

	if a.flags.Clipboard || a.cfg.CopyToClipboard {
		if err := a.clip.WriteAll(string(content)); err != nil {
			a.ui.PrintError(ctx, fmt.Sprintf("warning: copie dans le presse-papier impossible: %v", err))
		} else {
			a.ui.PrintInfo(ctx, "Résultat copié dans le presse-papier.")
		}
	}
	return nil
}

// wrap enveloppe body dans le template du format ; le texte brut reste tel quel.
func (a *App) wrap(format model.Format, title, body string, v richtext.Value) ([]byte, error) {
	name, ok := render.TemplateFor(format)
	if !ok || a.renderer == nil {
		a.log.Debugf("no document template for %s", format)
		return []byte(body), nil
	}
	out, err := a.renderer.Render(name, render.NewDocument(title, a.cfg.Locale, body, v))
	if err != nil {
		return nil, fmt.Errorf("render error: %w", err)
	}
	return out, nil
}

// save écrit content dans --out ; un dossier reçoit un fichier nommé d'après le titre.
func (a *App) save(format model.Format, title string, content []byte) (string, error) {
	out := a.flags.Out
	if !filepath.IsAbs(out) {
		out = filepath.Join(a.cfg.OutputDir, out)
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		p, err := fsutil.SaveDocumentAtomic(out, title, string(format), content, false)
		if err != nil {
			return "", fmt.Errorf("cannot save file to disk: %w", err)
		}
		return p, nil
	}
	if err := fsutil.WriteFileAtomic(out, content, 0o644); err != nil {
		return "", fmt.Errorf("cannot save file to disk: %w", err)
	}
	return out, nil
}

// Watch surveille le presse-papier et remplace chaque nouveau texte contenant
// des time-codes par sa version avec liens, jusqu'à l'annulation de ctx.
func (a *App) Watch(ctx context.Context, interval time.Duration) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	initial, _ := a.clip.ReadAll()
	a.ui.PrintInfo(ctx, "Surveillance du presse-papier (Ctrl+C pour quitter)...")
	for {
		text, err := a.ui.WaitForClipboardChange(ctx, initial, interval, 0)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("en attente d'un changement du presse-papier: %w", err)
		}
		initial = text

		v := richtext.New(text)
		var nb, nl int
		if a.cfg.BracketShorthand {
			v, nb = a.formatter.ConvertBrackets(v)
		}
		v, nl = a.formatter.ApplyAllText(v)
		if nb+nl == 0 {
			continue
		}
		out, err := a.codec.Encode(v, format)
		if err != nil {
			return err
		}
		if err := a.clip.WriteAll(out); err != nil {
			a.ui.PrintError(ctx, fmt.Sprintf("warning: copie dans le presse-papier impossible: %v", err))
			continue
		}
		initial = out
		a.ui.PrintInfo(ctx, fmt.Sprintf("%d lien(s) créé(s), résultat copié.", nl+nb))
	}
}

// InitConfig crée le fichier de configuration et exporte les templates à côté.
// force réécrit les templates modifiés (avec sauvegarde) et l'exemple de config.
func (a *App) InitConfig(ctx context.Context, configPath string, force bool) error {
	created, err := bootstrap.EnsureConfigPresent(configPath, assets.Embedded, assets.DefaultConfigAsset)
	if err != nil {
		return err
	}
	if created {
		a.ui.PrintInfo(ctx, fmt.Sprintf("Configuration créée : %s", configPath))
	} else {
		a.ui.PrintInfo(ctx, fmt.Sprintf("Configuration existante conservée : %s", configPath))
	}

	dir := filepath.Dir(configPath)
	status := make(map[string]string)
	if force {
		st, err := bootstrap.ExportDefaults(assets.Embedded, assets.DefaultConfigAsset, dir, true)
		if err != nil {
			return fmt.Errorf("export de l'exemple de configuration: %w", err)
		}
		for k, v := range st {
			status[k] = v
		}
	}
	st, err := bootstrap.ExportDefaults(assets.Embedded, "templates", filepath.Join(dir, "templates"), force)
	if err != nil {
		return fmt.Errorf("export des templates: %w", err)
	}
	for k, v := range st {
		status[k] = v
	}

	keys := make([]string, 0, len(status))
	for k := range status {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.ui.PrintInfo(ctx, fmt.Sprintf("  %s : %s", k, status[k]))
	}
	return nil
}

// Blocks liste les blocs et formats enregistrés et affiche le rendu enregistré
// de chaque bloc.
func (a *App) Blocks(ctx context.Context) error {
	for _, name := range a.registry.BlockNames() {
		t, err := a.registry.BlockType(name)
		if err != nil {
			return err
		}
		el := t.Edit(blocks.Props{Player: a.player})
		a.ui.PrintInfo(ctx, fmt.Sprintf("bloc %s (%s) paused=%t", name, t.Title(), el.IsPaused))
		a.ui.PrintInfo(ctx, "  "+t.Save(blocks.Attributes{}))
	}
	for _, name := range a.registry.FormatNames() {
		s, err := a.registry.FormatType(name)
		if err != nil {
			return err
		}
		a.ui.PrintInfo(ctx, fmt.Sprintf("format %s (%s) <%s class=%q>", name, s.Title, s.TagName, s.ClassName))
	}
	return nil
}
