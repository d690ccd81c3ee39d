package markup

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/patrickprogramme/medialink/internal/medialink"
	"github.com/patrickprogramme/medialink/internal/richtext"
)

// HTML sérialise v en fragment HTML. Les retours à la ligne deviennent <br>.
func (c *Codec) HTML(v richtext.Value) string {
	var b strings.Builder
	for _, sp := range c.spans(v) {
		if sp.mark == nil {
			b.WriteString(escapeHTML(sp.text))
			continue
		}
		b.WriteString("<")
		b.WriteString(c.settings.TagName)
		// ordre stable des attributs
		keys := make([]string, 0, len(sp.mark.Attributes))
		for k := range sp.mark.Attributes {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return c.htmlAttr(keys[i]) < c.htmlAttr(keys[j]) })
		for _, k := range keys {
			fmt.Fprintf(&b, ` %s="%s"`, c.htmlAttr(k), html.EscapeString(sp.mark.Attributes[k]))
		}
		if c.settings.ClassName != "" {
			fmt.Fprintf(&b, ` class="%s"`, html.EscapeString(c.settings.ClassName))
		}
		b.WriteString(">")
		b.WriteString(escapeHTML(sp.text))
		b.WriteString("</")
		b.WriteString(c.settings.TagName)
		b.WriteString(">")
	}
	return b.String()
}

func escapeHTML(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

// sanitizer : on ne garde que le texte, les sauts de ligne et les ancres.
func (c *Codec) sanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("br", "p", "div", "span")
	p.AllowAttrs(c.htmlAttr(medialink.AttrTimestamp), c.htmlAttr(medialink.AttrLabel), "class").OnElements(c.settings.TagName)
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https")
	return p
}

// ParseHTML relit un fragment HTML. Le balisage inconnu est retiré (son texte
// est conservé) ; seules les ancres dont le href est "#<secondes>" deviennent
// des annotations.
func (c *Codec) ParseHTML(src string) (richtext.Value, error) {
	clean := c.sanitizer().Sanitize(src)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return richtext.Value{}, fmt.Errorf("parse html: %w", err)
	}

	var (
		b     strings.Builder
		pos   int
		marks []richtext.Mark
	)
	write := func(s string) {
		b.WriteString(s)
		pos += len([]rune(s))
	}

	var walk func(sel *goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(i int, node *goquery.Selection) {
			switch goquery.NodeName(node) {
			case "#text":
				write(node.Text())
			case "br":
				write("\n")
			case "p", "div":
				if pos > 0 {
					write("\n")
				}
				walk(node)
			case c.settings.TagName:
				start := pos
				walk(node)
				href, _ := node.Attr(c.htmlAttr(medialink.AttrTimestamp))
				title, _ := node.Attr(c.htmlAttr(medialink.AttrLabel))
				if m, ok := c.mark(href, title); ok && pos > start {
					m.Range = richtext.Range{From: start, To: pos}
					marks = append(marks, m)
				}
			default:
				walk(node)
			}
		})
	}
	walk(doc.Find("body"))

	return richtext.NewWithMarks(b.String(), marks...), nil
}
