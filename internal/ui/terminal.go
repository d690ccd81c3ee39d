package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/patrickprogramme/medialink/internal/clipboard"
	"github.com/patrickprogramme/medialink/internal/timecode"
)

type terminalUI struct {
	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer
	clip   clipboard.Clipboard
}

func NewTerminal() Interface {
	return NewTerminalWith(os.Stdin, os.Stdout, os.Stderr, clipboard.System{})
}

// NewTerminalWith construit l'interface sur des flux et un presse-papier donnés.
func NewTerminalWith(in io.Reader, out, errOut io.Writer, clip clipboard.Clipboard) Interface {
	return &terminalUI{reader: bufio.NewReader(in), out: out, errOut: errOut, clip: clip}
}

// Choix de l'utilisateur retournés par GetClipboardChoice
const (
	ChoiceUse   = "use"   // utiliser le texte du clipboard
	ChoiceRetry = "retry" // ne pas utiliser et relire le clipboard
	ChoiceSkip  = "skip"  // abandonner
)

// Choix retournés par ChooseMultiple
const (
	ChoiceAll    = "all"
	ChoiceSingle = "single"
	ChoiceCancel = "cancel"
)

const previewLines = 5

func (t *terminalUI) PrintInfo(ctx context.Context, s string) {
	fmt.Fprintln(t.out, s)
}

func (t *terminalUI) PrintError(ctx context.Context, s string) {
	fmt.Fprintln(t.errOut, s)
}

// readAnswer lit une ligne normalisée (minuscules, sans espaces).
// Une fin de flux sans réponse est une erreur : sinon les boucles de retry ne terminent pas.
func (t *terminalUI) readAnswer() (string, error) {
	input, err := t.reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", fmt.Errorf("lecture stdin: %w", err)
	}
	return strings.TrimSpace(strings.ToLower(input)), nil
}

// GetClipboardChoice propose d'utiliser le texte du presse-papier.
// Retourne (content, choice, err).
// - content : texte provenant du clipboard (vide si choice != ChoiceUse).
// - choice : one of "use", "retry", "skip".
func (t *terminalUI) GetClipboardChoice(ctx context.Context) (string, string, error) {
	clip, err := t.clip.ReadAll()
	if err != nil || strings.TrimSpace(clip) == "" {
		fmt.Fprintln(t.out, "Le presse-papier est vide ou inaccessible.")
		fmt.Fprintln(t.out, "Copiez le texte puis appuyez sur Entrée pour réessayer, ou tapez 's' puis Entrée pour abandonner.")
		input, rerr := t.readAnswer()
		if rerr != nil {
			return "", "", rerr
		}
		if input == "s" {
			return "", ChoiceSkip, nil
		}
		return "", ChoiceRetry, nil
	}

	// affiche un aperçu
	t.printPreview("Aperçu du presse-papier :", clip)
	fmt.Fprint(t.out, "(o) Utiliser ce texte  (n) Réessayer  (s) Abandonner  ? [o/n/s] : ")

	resp, err := t.readAnswer()
	if err != nil {
		return "", "", err
	}
	switch resp {
	case "o", "oui", "y", "yes":
		return clipboard.Normalize(clip), ChoiceUse, nil
	case "s":
		return "", ChoiceSkip, nil
	default:
		return "", ChoiceRetry, nil
	}
}

// ChooseMultiple liste les time-codes trouvés et demande le mode de conversion.
func (t *terminalUI) ChooseMultiple(ctx context.Context, matches []timecode.Match) (string, error) {
	fmt.Fprintf(t.out, "%d time-codes dans la sélection :\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(t.out, "  %s (position %d)\n", m.Text, m.Start)
	}
	for {
		fmt.Fprint(t.out, "(t) Un lien par time-code  (u) Un seul lien  (a) Annuler  ? [t/u/a] : ")
		resp, err := t.readAnswer()
		if err != nil {
			return "", err
		}
		switch resp {
		case "t", "tous", "all", "":
			return ChoiceAll, nil
		case "u", "un", "single":
			return ChoiceSingle, nil
		case "a", "annuler", "cancel":
			return ChoiceCancel, nil
		}
		fmt.Fprintln(t.out, "❌ Choix invalide. Essayez à nouveau.")
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
}

func (t *terminalUI) printPreview(title, text string) {
	lines := strings.SplitN(text, "\n", previewLines+1)
	fmt.Fprintln(t.out, title)
	fmt.Fprintln(t.out, "────────────────────────")
	fmt.Fprintln(t.out, strings.Join(lines[:min(len(lines), previewLines)], "\n"))
	if len(lines) > previewLines {
		fmt.Fprintln(t.out, "...")
	}
	fmt.Fprintln(t.out, "────────────────────────")
}

// WaitForClipboardChange poll le presse-papier jusqu'à ce que son contenu
// diffère de `initial` et soit non vide, ou jusqu'au timeout/context done.
// interval : durée entre lectures (ex: 500*time.Millisecond).
// timeout : 0 => attendre indéfiniment (ou utiliser ctx pour annulation).
func (t *terminalUI) WaitForClipboardChange(ctx context.Context, initial string, interval time.Duration, timeout time.Duration) (string, error) {
	normalize := func(s string) string {
		return strings.TrimSpace(clipboard.Normalize(s))
	}
	initial = normalize(initial)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if timeout > 0 {
		deadline = time.After(timeout)
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			current, err := t.clip.ReadAll()
			if err != nil {
				continue
			}
			current = normalize(current)
			if current != "" && current != initial {
				return current, nil
			}
		case <-deadline:
			return "", fmt.Errorf("timeout waiting clipboard change after %v", timeout)
		}
	}
}
