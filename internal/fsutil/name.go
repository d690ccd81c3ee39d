package fsutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultDocumentName est utilisé quand le titre ne donne aucun nom.
const DefaultDocumentName = "document"

// maxNameBytes laisse la place au suffixe et à l'extension sous la limite
// courante de 255 octets par nom.
const maxNameBytes = 200

// noms réservés sous Windows, quelle que soit l'extension
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// DocumentName tire un nom de fichier (sans extension) d'un titre de document.
//   - les crochets d'un raccourci "[00:01:05]" disparaissent
//   - les ':' d'un time-code deviennent '-' : "00:01:05" -> "00-01-05"
//   - les autres caractères interdits deviennent des espaces, fusionnés
//   - les points et espaces finaux sont retirés, le nom est borné
func DocumentName(title string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '[' || r == ']':
			return -1
		case r == ':':
			return '-'
		case unicode.IsControl(r) || strings.ContainsRune(`<>"/\|?*`, r):
			return ' '
		}
		return r
	}, title)
	clean = strings.Join(strings.Fields(clean), " ")
	clean = truncateBytes(clean, maxNameBytes)
	clean = strings.TrimRight(clean, ". ")

	if clean == "" {
		return DefaultDocumentName
	}
	if reservedNames[strings.ToUpper(clean)] {
		clean = "_" + clean
	}
	return clean
}

// truncateBytes coupe s à n octets au plus, sans couper une rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
