// Package richtext modélise la valeur de texte enrichi de l'éditeur hôte :
// un texte, une sélection et des annotations (marks) posées sur des plages.
//
// Une Value est immuable : chaque opération retourne une nouvelle Value et ne
// modifie jamais celle reçue. Toutes les positions sont des offsets en runes.
package richtext

import (
	"maps"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Range est une plage demi-ouverte [From, To) en runes.
type Range struct {
	From int
	To   int
}

func (r Range) Len() int {
	return r.To - r.From
}

func (r Range) Empty() bool {
	return r.To <= r.From
}

// Contains indique si la position p est dans la plage.
func (r Range) Contains(p int) bool {
	return p >= r.From && p < r.To
}

// Overlaps indique si les deux plages partagent au moins une rune.
func (r Range) Overlaps(o Range) bool {
	return r.From < o.To && o.From < r.To
}

// Mark est une annotation typée posée sur une plage du texte.
type Mark struct {
	Type       string
	Range      Range
	Attributes map[string]string
}

// Attr retourne l'attribut key (vide si absent).
func (m Mark) Attr(key string) string {
	return m.Attributes[key]
}

func (m Mark) clone() Mark {
	m.Attributes = maps.Clone(m.Attributes)
	return m
}

// Value est la valeur de texte enrichi : texte + sélection [Start, End) + marks.
type Value struct {
	text  string
	start int
	end   int
	marks []Mark
}

// New construit une Value sans annotation, curseur en fin de texte.
func New(text string) Value {
	n := utf8.RuneCountInString(text)
	return Value{text: text, start: n, end: n}
}

// NewWithMarks construit une Value avec des marks existants (hors bornes : tronqués).
func NewWithMarks(text string, marks ...Mark) Value {
	v := New(text)
	for _, m := range marks {
		v = v.ApplyFormat(m, m.Range.From, m.Range.To)
	}
	return v
}

// Text retourne le texte brut.
func (v Value) Text() string { return v.text }

// Len retourne la longueur du texte en runes.
func (v Value) Len() int { return utf8.RuneCountInString(v.text) }

// Start retourne le début de la sélection.
func (v Value) Start() int { return v.start }

// End retourne la fin de la sélection.
func (v Value) End() int { return v.end }

// Selection retourne la sélection courante.
func (v Value) Selection() Range { return Range{From: v.start, To: v.end} }

// Marks retourne une copie des annotations, triées par position.
func (v Value) Marks() []Mark {
	out := make([]Mark, 0, len(v.marks))
	for _, m := range v.marks {
		out = append(out, m.clone())
	}
	return out
}

// MarksOfType retourne les annotations du type donné.
func (v Value) MarksOfType(typ string) []Mark {
	var out []Mark
	for _, m := range v.marks {
		if m.Type == typ {
			out = append(out, m.clone())
		}
	}
	return out
}

// WithSelection retourne une copie avec la sélection [start, end) (bornée au texte).
func (v Value) WithSelection(start, end int) Value {
	n := v.Len()
	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if end < start {
		start, end = end, start
	}
	v.start, v.end = start, end
	return v
}

// IsCollapsed indique si la sélection est un simple curseur.
func (v Value) IsCollapsed() bool {
	return v.start == v.end
}

// Slice retourne le texte entre start et end (runes).
func (v Value) Slice(start, end int) string {
	r := []rune(v.text)
	start = clamp(start, 0, len(r))
	end = clamp(end, start, len(r))
	return string(r[start:end])
}

// SelectedText retourne le texte sélectionné.
func (v Value) SelectedText() string {
	return v.Slice(v.start, v.end)
}

// ActiveFormat retourne l'annotation de type typ active sur la sélection :
//   - sélection repliée : l'annotation qui contient le curseur ou se termine dessus
//   - sinon : l'annotation qui couvre toute la sélection
func (v Value) ActiveFormat(typ string) (Mark, bool) {
	for _, m := range v.marks {
		if m.Type != typ {
			continue
		}
		if v.IsCollapsed() {
			if m.Range.Contains(v.start) || (m.Range.To == v.start && m.Range.From < v.start) {
				return m.clone(), true
			}
			continue
		}
		if m.Range.From <= v.start && m.Range.To >= v.end {
			return m.clone(), true
		}
	}
	return Mark{}, false
}

// ApplyFormat pose mark sur [start, end). Les annotations du même type qui
// chevauchent la plage sont coupées : deux annotations d'un même type ne se
// chevauchent jamais. Une plage vide ne change rien.
func (v Value) ApplyFormat(mark Mark, start, end int) Value {
	n := v.Len()
	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if end <= start {
		return v
	}
	target := Range{From: start, To: end}
	out := v.withoutType(mark.Type, target)
	m := mark.clone()
	m.Range = target
	out.marks = append(out.marks, m)
	out.sortMarks()
	return out
}

// RemoveFormat retire les annotations de type typ sur [start, end).
func (v Value) RemoveFormat(typ string, start, end int) Value {
	start = clamp(start, 0, v.Len())
	end = clamp(end, 0, v.Len())
	if end <= start {
		return v
	}
	return v.withoutType(typ, Range{From: start, To: end})
}

// ToggleFormat retire l'annotation active du type de mark, ou l'applique sur
// la sélection si aucune n'est active.
func (v Value) ToggleFormat(mark Mark) Value {
	if active, ok := v.ActiveFormat(mark.Type); ok {
		if v.IsCollapsed() {
			return v.RemoveFormat(mark.Type, active.Range.From, active.Range.To)
		}
		return v.RemoveFormat(mark.Type, v.start, v.end)
	}
	return v.ApplyFormat(mark, v.start, v.end)
}

// Remove supprime le texte [start, end) et décale annotations et sélection.
func (v Value) Remove(start, end int) Value {
	r := []rune(v.text)
	start = clamp(start, 0, len(r))
	end = clamp(end, start, len(r))
	if end == start {
		return v
	}
	shift := func(p int) int {
		switch {
		case p < start:
			return p
		case p >= end:
			return p - (end - start)
		default:
			return start
		}
	}
	out := Value{
		text:  string(r[:start]) + string(r[end:]),
		start: shift(v.start),
		end:   shift(v.end),
	}
	for _, m := range v.marks {
		nm := m.clone()
		nm.Range = Range{From: shift(m.Range.From), To: shift(m.Range.To)}
		if nm.Range.Empty() {
			continue
		}
		out.marks = append(out.marks, nm)
	}
	return out
}

// Insert insère s à la position at ; les annotations qui contiennent at
// s'étendent, le curseur est placé après le texte inséré.
func (v Value) Insert(s string, at int) Value {
	r := []rune(v.text)
	at = clamp(at, 0, len(r))
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return v
	}
	shift := func(p int) int {
		if p > at {
			return p + n
		}
		return p
	}
	out := Value{
		text:  string(r[:at]) + s + string(r[at:]),
		start: at + n,
		end:   at + n,
	}
	for _, m := range v.marks {
		nm := m.clone()
		nm.Range = Range{From: shift(m.Range.From), To: shift(m.Range.To)}
		out.marks = append(out.marks, nm)
	}
	return out
}

// WordAt retourne la plage du mot qui contient (ou touche) la position p.
// Un mot est une suite de runes sans espace ; ':' en fait partie pour
// englober un time-code complet.
func (v Value) WordAt(p int) Range {
	r := []rune(v.text)
	p = clamp(p, 0, len(r))
	isWord := func(c rune) bool { return !unicode.IsSpace(c) }
	from := p
	for from > 0 && isWord(r[from-1]) {
		from--
	}
	to := p
	for to < len(r) && isWord(r[to]) {
		to++
	}
	return Range{From: from, To: to}
}

// Lines retourne les plages de chaque ligne (sans le '\n').
func (v Value) Lines() []Range {
	var out []Range
	pos := 0
	for _, line := range strings.Split(v.text, "\n") {
		n := utf8.RuneCountInString(line)
		out = append(out, Range{From: pos, To: pos + n})
		pos += n + 1
	}
	return out
}

// Equal compare texte, sélection et annotations.
func (v Value) Equal(o Value) bool {
	if v.text != o.text || v.start != o.start || v.end != o.end || len(v.marks) != len(o.marks) {
		return false
	}
	for i := range v.marks {
		a, b := v.marks[i], o.marks[i]
		if a.Type != b.Type || a.Range != b.Range || !maps.Equal(a.Attributes, b.Attributes) {
			return false
		}
	}
	return true
}

func (v Value) withoutType(typ string, target Range) Value {
	out := v
	out.marks = make([]Mark, 0, len(v.marks)+1)
	for _, m := range v.marks {
		if m.Type != typ || !m.Range.Overlaps(target) {
			out.marks = append(out.marks, m.clone())
			continue
		}
		// garder les morceaux hors de la plage
		if m.Range.From < target.From {
			left := m.clone()
			left.Range = Range{From: m.Range.From, To: target.From}
			out.marks = append(out.marks, left)
		}
		if m.Range.To > target.To {
			right := m.clone()
			right.Range = Range{From: target.To, To: m.Range.To}
			out.marks = append(out.marks, right)
		}
	}
	out.sortMarks()
	return out
}

func (v *Value) sortMarks() {
	sort.SliceStable(v.marks, func(i, j int) bool {
		a, b := v.marks[i].Range, v.marks[j].Range
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
