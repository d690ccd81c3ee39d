package markup

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/patrickprogramme/medialink/internal/medialink"
	"github.com/patrickprogramme/medialink/internal/richtext"
)

// Le texte d'une Value lue depuis du Markdown est la source elle-même : listes,
// citations, titres, emphase, code et liens web restent tels quels. Seuls les
// liens de lecture sont remplacés par leur libellé, qui porte l'annotation.
// Markdown fait l'inverse, d'où l'aller-retour Markdown -> ParseMarkdown.
//
// Limite : une annotation placée dans du code (bloc indenté, bloc délimité,
// `code`) est écrite mais n'est pas relue comme un lien.

// labelEscaper protège le texte d'un lien : crochets, échappements, entités,
// code et HTML en ligne.
var labelEscaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
	"`", "\\`",
	`&`, `\&`,
	`<`, `\<`,
)

var titleEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`&`, `\&`,
)

// Markdown sérialise v : une annotation devient [texte](#5 "libellé"), le
// reste du texte est écrit sans modification.
func (c *Codec) Markdown(v richtext.Value) string {
	var b strings.Builder
	for _, sp := range c.spans(v) {
		if sp.mark == nil {
			b.WriteString(sp.text)
			continue
		}
		fmt.Fprintf(&b, "[%s](%s", labelEscaper.Replace(sp.text), sp.mark.Attr(medialink.AttrTimestamp))
		if label := sp.mark.Attr(medialink.AttrLabel); label != "" {
			fmt.Fprintf(&b, ` "%s"`, titleEscaper.Replace(label))
		}
		b.WriteString(")")
	}
	return b.String()
}

// ParseMarkdown relit un document Markdown. Les liens "#<secondes>" deviennent
// des annotations sur leur libellé ; tout le reste de la source est conservé.
func (c *Codec) ParseMarkdown(src string) (richtext.Value, error) {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		b     strings.Builder
		pos   int
		last  int
		marks []richtext.Mark
	)
	write := func(s string) {
		b.WriteString(s)
		pos += len([]rune(s))
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		link, ok := n.(*ast.Link)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		m, ok := c.mark(string(link.Destination), decodeInline(link.Title))
		if !ok {
			return ast.WalkContinue, nil
		}
		open, closeAt, end, ok := linkBounds(source, link, last)
		if !ok {
			return ast.WalkSkipChildren, nil
		}

		write(string(source[last:open]))
		start := pos
		write(decodeInline(source[open+1 : closeAt]))
		last = end
		if pos > start {
			m.Range = richtext.Range{From: start, To: pos}
			marks = append(marks, m)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return richtext.Value{}, fmt.Errorf("parse markdown: %w", err)
	}
	write(string(source[last:]))
	return richtext.NewWithMarks(b.String(), marks...), nil
}

// linkBounds retrouve dans source la position du '[' ouvrant, du ']' fermant
// et la fin de la syntaxe du lien. ok=false si le libellé ne contient aucun texte.
func linkBounds(source []byte, link *ast.Link, after int) (open, closeAt, end int, ok bool) {
	first, last := textSegments(link)
	if first == nil {
		return 0, 0, 0, false
	}
	open = first.Segment.Start - 1
	for open >= after && source[open] != '[' {
		open--
	}
	closeAt = last.Segment.Stop
	for closeAt < len(source) && source[closeAt] != ']' {
		closeAt++
	}
	if open < after || closeAt >= len(source) {
		return 0, 0, 0, false
	}
	return open, closeAt, linkEnd(source, closeAt), true
}

// textSegments retourne le premier et le dernier texte sous n.
func textSegments(n ast.Node) (first, last *ast.Text) {
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			if first == nil {
				first = t
			}
			last = t
		}
		return ast.WalkContinue, nil
	})
	return first, last
}

// linkEnd retourne la position qui suit la destination d'un lien dont le ']'
// est en i : "(dest "titre")", "[ref]", "[]" ou rien (raccourci).
func linkEnd(source []byte, i int) int {
	i++
	if i >= len(source) {
		return i
	}
	switch source[i] {
	case '(':
		depth := 0
		var quote byte
		for j := i + 1; j < len(source); j++ {
			ch := source[j]
			switch {
			case ch == '\\':
				j++
			case quote != 0:
				if ch == quote {
					quote = 0
				}
			case (ch == '"' || ch == '\'') && isSpaceByte(source[j-1]):
				quote = ch
			case ch == '(':
				depth++
			case ch == ')':
				if depth == 0 {
					return j + 1
				}
				depth--
			}
		}
	case '[':
		for j := i + 1; j < len(source); j++ {
			switch source[j] {
			case '\\':
				j++
			case ']':
				return j + 1
			}
		}
	}
	return i
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// decodeInline résout les échappements et les entités d'un texte Markdown en
// ligne, avec les règles du rendu goldmark.
func decodeInline(src []byte) string {
	if len(src) == 0 {
		return ""
	}
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	gmhtml.DefaultWriter.Write(w, src)
	_ = w.Flush()
	// le rendu échappe le HTML : on revient au texte
	return html.UnescapeString(buf.String())
}
