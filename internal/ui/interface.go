package ui

import (
	"context"
	"time"

	"github.com/patrickprogramme/medialink/internal/timecode"
)

type Interface interface {
	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)

	// GetClipboardChoice propose le contenu du presse-papier comme texte d'entrée.
	// - content : texte (potentiellement vide si choice != "use")
	// - choice  : "use", "retry" ou "skip"
	GetClipboardChoice(ctx context.Context) (content string, choice string, err error)

	// ChooseMultiple est appelé quand la sélection contient plusieurs time-codes.
	// Retourne "all" (un lien par time-code), "single" (un seul lien sur la
	// sélection) ou "cancel".
	ChooseMultiple(ctx context.Context, matches []timecode.Match) (string, error)

	WaitForClipboardChange(ctx context.Context, initial string, interval time.Duration, timeout time.Duration) (string, error)
}
