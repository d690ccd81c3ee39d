package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// rawJSON3 est la piste de sous-titres "json3" telle que servie par le lecteur.
type rawJSON3 struct {
	WireMagic string     `json:"wireMagic,omitempty"`
	Events    []rawEvent `json:"events"`
}

type rawEvent struct {
	TStartMs    *int64   `json:"tStartMs,omitempty"`
	DDurationMs *int64   `json:"dDurationMs,omitempty"`
	AAppend     *int     `json:"aAppend,omitempty"`
	Segs        []rawSeg `json:"segs,omitempty"`
	// les autres champs (wpWinPosId, wWinId...) sont ignorés
}

type rawSeg struct {
	Utf8      string `json:"utf8"`
	TOffsetMs *int64 `json:"tOffsetMs,omitempty"`
}

// isNewlineOnly indique si l'event ne contient que des retours à la ligne ou des espaces.
func (e rawEvent) isNewlineOnly() bool {
	if len(e.Segs) == 0 {
		return false
	}
	for _, s := range e.Segs {
		t := strings.TrimSpace(s.Utf8)
		if t == "" || t == `\n` {
			continue
		}
		return false
	}
	return true
}

// hasWordTimings indique si la piste porte des timestamps par mot (sous-titres
// automatiques) plutôt qu'un texte par event.
func (r rawJSON3) hasWordTimings() bool {
	for _, ev := range r.Events {
		for _, s := range ev.Segs {
			if s.TOffsetMs != nil {
				return true
			}
		}
	}
	return false
}

// parseJSON3 décode une piste json3 déjà en mémoire.
// Les champs inconnus sont ignorés : la piste en contient beaucoup.
func parseJSON3(b []byte) (rawJSON3, error) {
	if len(b) == 0 {
		return rawJSON3{}, fmt.Errorf("parse json3: empty input")
	}
	return parseJSON3Reader(bytes.NewReader(b))
}

func parseJSON3Reader(r io.Reader) (rawJSON3, error) {
	var raw rawJSON3
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return raw, fmt.Errorf("parse json3: decode error: %w", err)
	}
	return raw, nil
}
