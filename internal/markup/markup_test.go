package markup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/medialink/internal/i18n"
	"github.com/patrickprogramme/medialink/internal/medialink"
	"github.com/patrickprogramme/medialink/internal/richtext"
	"github.com/patrickprogramme/medialink/pkg/model"
)

func newTestCodec() (*Codec, *medialink.Formatter) {
	tr := i18n.New("en")
	f := medialink.NewFormatter(tr)
	return NewCodec(medialink.DefaultSettings(tr), f), f
}

func linkedValue(t *testing.T, f *medialink.Formatter) richtext.Value {
	t.Helper()
	text := "see 00:00:10 & 00:00:20"
	v, n := f.ApplyAllText(richtext.New(text))
	require.Equal(t, 2, n)
	return v
}

func TestCodec_HTML(t *testing.T) {
	c, f := newTestCodec()
	got := c.HTML(linkedValue(t, f))
	want := `see <a href="#10" title="Playback at 00:00:10" class="media-link-format-type">00:00:10</a> &amp; ` +
		`<a href="#20" title="Playback at 00:00:20" class="media-link-format-type">00:00:20</a>`
	assert.Equal(t, want, got)
}

func TestCodec_HTMLNewlines(t *testing.T) {
	c, _ := newTestCodec()
	assert.Equal(t, "a<br>b &lt;c&gt;", c.HTML(richtext.New("a\nb <c>")))
}

func TestCodec_ParseHTML(t *testing.T) {
	c, f := newTestCodec()
	orig := linkedValue(t, f)

	got, err := c.ParseHTML(c.HTML(orig))
	require.NoError(t, err)
	assert.Equal(t, orig.Text(), got.Text())
	assert.Equal(t, orig.Marks(), got.Marks())
}

func TestCodec_ParseHTML_Foreign(t *testing.T) {
	c, _ := newTestCodec()
	src := `<p>go <a href="https://example.com">there</a> at <b><a href="#5">00:00:05</a></b>` +
		`<script>alert(1)</script></p><p>next<br>line</p>`

	got, err := c.ParseHTML(src)
	require.NoError(t, err)
	assert.Equal(t, "go there at 00:00:05\nnext\nline", got.Text())

	marks := got.MarksOfType(medialink.FormatType)
	require.Len(t, marks, 1)
	assert.Equal(t, richtext.Range{From: 12, To: 20}, marks[0].Range)
	assert.Equal(t, "#5", marks[0].Attr(medialink.AttrTimestamp))
	assert.Equal(t, "Playback at 00:00:05", marks[0].Attr(medialink.AttrLabel), "missing title is rebuilt")
}

func TestCodec_Markdown(t *testing.T) {
	c, f := newTestCodec()
	got := c.Markdown(linkedValue(t, f))
	want := `see [00:00:10](#10 "Playback at 00:00:10") & [00:00:20](#20 "Playback at 00:00:20")`
	assert.Equal(t, want, got)

	// le texte hors annotation est écrit tel quel
	assert.Equal(t, "a [b] *c*\n- d", c.Markdown(richtext.New("a [b] *c*\n- d")))

	v := richtext.NewWithMarks(`x [1] "y"`, richtext.Mark{
		Type:       medialink.FormatType,
		Range:      richtext.Range{From: 0, To: 9},
		Attributes: map[string]string{medialink.AttrTimestamp: "#5", medialink.AttrLabel: `say "hi"`},
	})
	assert.Equal(t, `[x \[1\] "y"](#5 "say \"hi\"")`, c.Markdown(v))

	back, err := c.ParseMarkdown(c.Markdown(v))
	require.NoError(t, err)
	assert.Equal(t, v.Text(), back.Text())
	assert.Equal(t, v.Marks(), back.Marks())
}

func TestCodec_ParseMarkdown(t *testing.T) {
	c, f := newTestCodec()
	orig := linkedValue(t, f)

	got, err := c.ParseMarkdown(c.Markdown(orig))
	require.NoError(t, err)
	assert.Equal(t, orig.Text(), got.Text())
	assert.Equal(t, orig.Marks(), got.Marks())
}

func TestCodec_ParseMarkdown_Paragraphs(t *testing.T) {
	c, _ := newTestCodec()
	src := "first [here](#65) and [web](https://example.com)\nsame paragraph\n\nsecond"

	got, err := c.ParseMarkdown(src)
	require.NoError(t, err)
	assert.Equal(t, "first here and [web](https://example.com)\nsame paragraph\n\nsecond", got.Text())
	marks := got.MarksOfType(medialink.FormatType)
	require.Len(t, marks, 1)
	assert.Equal(t, richtext.Range{From: 6, To: 10}, marks[0].Range)
	assert.Equal(t, "#65", marks[0].Attr(medialink.AttrTimestamp))
	assert.Equal(t, "Playback at 00:01:05", marks[0].Attr(medialink.AttrLabel))
}

func TestCodec_MarkdownRoundTripKeepsBlocks(t *testing.T) {
	c, f := newTestCodec()
	texts := []string{
		"- intro 00:00:10\n- outro 00:00:20\n1. one",
		"# Titre 00:00:01\n\n> cité 00:00:02\n> suite\n\n\n\nfin 00:00:03",
		"Sous-titre\n===\n  indenté 00:01:00  \n* puce *accent* `code`\n---\n",
		"\n\nlien [web](https://example.com) puis 00:00:04 & &amp; \\[x\\]",
		"1) a 00:00:05\n   + b 1:00:00\n\t\t00:00:06 tab",
	}
	for _, txt := range texts {
		orig, n := f.ApplyAllText(richtext.New(txt))
		require.NotZero(t, n, txt)

		got, err := c.ParseMarkdown(c.Markdown(orig))
		require.NoError(t, err)
		assert.Equal(t, orig.Text(), got.Text())
		assert.Equal(t, orig.Marks(), got.Marks(), txt)
	}
}

func TestCodec_ParseMarkdown_KeepsSource(t *testing.T) {
	c, _ := newTestCodec()
	src := "- voir [ici](#65 \"À \\\"ici\\\"\") et [*gras*](#70)\n- [web](https://example.com)\n\n```\n[code](#5)\n```\n"

	got, err := c.ParseMarkdown(src)
	require.NoError(t, err)
	assert.Equal(t, "- voir ici et *gras*\n- [web](https://example.com)\n\n```\n[code](#5)\n```\n", got.Text())

	marks := got.MarksOfType(medialink.FormatType)
	require.Len(t, marks, 2)
	assert.Equal(t, "ici", got.Slice(marks[0].Range.From, marks[0].Range.To))
	assert.Equal(t, `À "ici"`, marks[0].Attr(medialink.AttrLabel))
	assert.Equal(t, "*gras*", got.Slice(marks[1].Range.From, marks[1].Range.To))
	assert.Equal(t, "#70", marks[1].Attr(medialink.AttrTimestamp))
	assert.Equal(t, "Playback at 00:01:10", marks[1].Attr(medialink.AttrLabel))
}

func TestCodec_EncodeDecode(t *testing.T) {
	c, f := newTestCodec()
	orig := linkedValue(t, f)

	for _, format := range []model.Format{model.FormatHTML, model.FormatMARKDOWN} {
		out, err := c.Encode(orig, format)
		require.NoError(t, err)
		back, err := c.Decode(out, format)
		require.NoError(t, err)
		assert.Equal(t, orig.Marks(), back.Marks(), "format %s", format)
	}

	txt, err := c.Encode(orig, model.FormatTXT)
	require.NoError(t, err)
	assert.Equal(t, orig.Text(), txt)

	_, err = c.Encode(orig, model.Format("pdf"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	_, err = c.Decode("", model.Format("pdf"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
