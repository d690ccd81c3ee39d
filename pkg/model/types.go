package model

import (
	"fmt"
	"strings"
)

// Seconds est un alias explicite pour représenter une position en secondes entières.
type Seconds int64

// TimestampHHMMSS formate Seconds en "HH:MM:SS" (toujours 2 chiffres par composant,
// plus si les heures dépassent 99).
// Exemple : 65 -> "00:01:05", 3661 -> "01:01:01".
func (s Seconds) TimestampHHMMSS() string {
	total := int64(s)
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// constantes pour les formats de sortie d'un document
type Format string

const (
	FormatHTML     Format = "html"
	FormatMARKDOWN Format = "md"
	FormatTXT      Format = "txt"
)

// du format en chaine à la constante de type Format, return une erreur si format inconnu
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMARKDOWN, nil
	case "txt", "text":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("format demandé inconnu: %s", s)
	}
}

// IsMarkup indique si le format conserve les annotations.
func (f Format) IsMarkup() bool {
	return f == FormatHTML || f == FormatMARKDOWN
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) String() string {
	return string(f)
}
