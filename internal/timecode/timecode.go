// Package timecode convertit les positions de lecture (secondes) en time-codes
// lisibles "HH:MM:SS" et inversement, et repère les time-codes dans un texte.
package timecode

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/patrickprogramme/medialink/pkg/model"
)

// Erreurs exportées
var (
	ErrInvalidFormat   = errors.New("invalid time-code format")
	ErrNegative        = errors.New("negative time position")
	ErrInvalidPosition = errors.New("invalid time position")
)

// TimestampMarker préfixe la valeur sérialisée d'un timestamp ("#12").
const TimestampMarker = "#"

// MaxPosition borne les positions acceptées (exclue) : au-delà, un float64 ne
// représente plus toutes les secondes entières.
const MaxPosition = 1 << 53

// timeformatRe : heures optionnelles (1 chiffre ou plus), minutes et secondes
// toujours sur 2 chiffres entre 00 et 59.
// - "01:02:03", "1:02:03", "02:03" sont valides
// - "1:2:3", "00:60:00" ne le sont pas
const timeformatPattern = `(?:(\d+):)?([0-5]\d):([0-5]\d)`

var (
	exactRe = regexp.MustCompile(`^` + timeformatPattern + `$`)
	// \b évite de matcher au milieu d'un nombre ("123:45:67")
	scanRe = regexp.MustCompile(`\b` + timeformatPattern + `\b`)
)

// Match est un time-code trouvé dans un texte.
// Start/End sont des offsets en runes (End exclusif) dans le texte d'origine.
type Match struct {
	Text  string
	Start int
	End   int
}

// SecondsToTimecode formate une position (en secondes) en "HH:MM:SS".
// La partie fractionnaire est tronquée ; une position négative est une erreur.
func SecondsToTimecode(seconds float64) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", fmt.Errorf("%w: %v", ErrInvalidPosition, seconds)
	}
	if seconds < 0 {
		return "", fmt.Errorf("%w: %v", ErrNegative, seconds)
	}
	if seconds >= MaxPosition {
		return "", fmt.Errorf("%w: %v out of range", ErrInvalidPosition, seconds)
	}
	return model.Seconds(math.Floor(seconds)).TimestampHHMMSS(), nil
}

// TimecodeToSeconds convertit un time-code valide en secondes. Le texte doit
// satisfaire IsTimeformat (aucun espace n'est retiré).
func TimecodeToSeconds(text string) (float64, error) {
	grp := exactRe.FindStringSubmatch(text)
	if grp == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}
	var h int64
	if grp[1] != "" {
		v, err := strconv.ParseInt(grp[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: hours %q: %v", ErrInvalidFormat, grp[1], err)
		}
		// borne avant multiplication : h*3600 ne doit pas déborder
		if v > MaxPosition/3600 {
			return 0, fmt.Errorf("%w: hours %q out of range", ErrInvalidFormat, grp[1])
		}
		h = v
	}
	// les groupes 2 et 3 sont garantis numériques par la regex
	m, _ := strconv.ParseInt(grp[2], 10, 64)
	s, _ := strconv.ParseInt(grp[3], 10, 64)
	total := h*3600 + m*60 + s
	if total >= MaxPosition {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidFormat, text)
	}
	return float64(total), nil
}

// IsTimeformat retourne true si text est exactement un time-code (pas d'espace autour).
func IsTimeformat(text string) bool {
	return exactRe.MatchString(text)
}

// FindAllTimeformats retourne une séquence paresseuse des time-codes de text,
// de gauche à droite, sans chevauchement. La séquence peut être parcourue
// plusieurs fois.
func FindAllTimeformats(text string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		bytePos := 0
		runePos := 0
		for bytePos <= len(text) {
			loc := scanRe.FindStringIndex(text[bytePos:])
			if loc == nil {
				return
			}
			start := bytePos + loc[0]
			end := bytePos + loc[1]
			runePos += utf8.RuneCountInString(text[bytePos:start])
			m := Match{
				Text:  text[start:end],
				Start: runePos,
				End:   runePos + utf8.RuneCountInString(text[start:end]),
			}
			if !yield(m) {
				return
			}
			runePos = m.End
			bytePos = end
		}
	}
}

// HasMultipleTimeformats retourne les time-codes de text s'il y en a au moins deux,
// nil sinon.
func HasMultipleTimeformats(text string) []Match {
	var out []Match
	for m := range FindAllTimeformats(text) {
		out = append(out, m)
	}
	if len(out) < 2 {
		return nil
	}
	return out
}

// FormatTimestamp sérialise une position sous la forme "#<secondes>".
func FormatTimestamp(seconds float64) string {
	return TimestampMarker + strconv.FormatFloat(seconds, 'f', -1, 64)
}

// ParseTimestamp lit une valeur "#<secondes>" (le marqueur est optionnel).
func ParseTimestamp(s string) (float64, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), TimestampMarker)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty timestamp", ErrInvalidPosition)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNegative, s)
	}
	if v >= MaxPosition {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidPosition, s)
	}
	return v, nil
}
