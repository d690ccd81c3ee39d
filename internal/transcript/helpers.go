package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// absTime : tStartMs de l'event + tOffsetMs du seg si présent.
func absTime(ev rawEvent, seg rawSeg) int64 {
	var base int64
	if ev.TStartMs != nil {
		base = *ev.TStartMs
	}
	if seg.TOffsetMs != nil {
		return base + *seg.TOffsetMs
	}
	return base
}

func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', ')', ']', '}', '»':
		return true
	}
	return false
}

// endsSentence indique si s se termine par . ! ou ?, en ignorant les
// guillemets et parenthèses fermantes qui suivent.
func endsSentence(s string) bool {
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[:len(s)-1]
			continue
		}
		if unicode.IsSpace(r) || isCloser(r) {
			s = s[:len(s)-size]
			continue
		}
		return isSentenceTerminator(r)
	}
	return false
}

// cleanText : "\n" (réel ou échappé) devient un espace, un seul espace entre mots.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, `\n`, " ")
	return strings.Join(strings.Fields(s), " ")
}
