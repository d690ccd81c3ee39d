package ui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/medialink/internal/clipboard"
	"github.com/patrickprogramme/medialink/internal/timecode"
)

func newTestUI(input string, clip clipboard.Clipboard) (Interface, *bytes.Buffer) {
	var out bytes.Buffer
	return NewTerminalWith(strings.NewReader(input), &out, &out, clip), &out
}

func TestGetClipboardChoice(t *testing.T) {
	tests := []struct {
		name        string
		clip        string
		input       string
		wantChoice  string
		wantContent string
	}{
		{"use", "intro 00:01:05\r\n", "o\n", ChoiceUse, "intro 00:01:05\n"},
		{"retry", "texte", "n\n", ChoiceRetry, ""},
		{"skip", "texte", "s\n", ChoiceSkip, ""},
		{"empty then skip", "  ", "s\n", ChoiceSkip, ""},
		{"empty then retry", "", "\n", ChoiceRetry, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, _ := newTestUI(tc.input, &clipboard.Memory{Text: tc.clip})
			content, choice, err := u.GetClipboardChoice(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.wantChoice, choice)
			assert.Equal(t, tc.wantContent, content)
		})
	}
}

func TestGetClipboardChoice_EOF(t *testing.T) {
	u, _ := newTestUI("", &clipboard.Memory{Text: "texte"})
	_, _, err := u.GetClipboardChoice(context.Background())
	assert.Error(t, err)
}

func TestGetClipboardChoice_PreviewTruncated(t *testing.T) {
	clip := "1\n2\n3\n4\n5\n6\n7"
	u, out := newTestUI("o\n", &clipboard.Memory{Text: clip})
	_, _, err := u.GetClipboardChoice(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "5\n...")
	assert.NotContains(t, out.String(), "6\n")
}

func TestChooseMultiple(t *testing.T) {
	matches := []timecode.Match{{Text: "00:01", Start: 0, End: 5}, {Text: "00:02", Start: 6, End: 11}}

	u, out := newTestUI("x\nu\n", &clipboard.Memory{})
	choice, err := u.ChooseMultiple(context.Background(), matches)
	require.NoError(t, err)
	assert.Equal(t, ChoiceSingle, choice)
	assert.Contains(t, out.String(), "2 time-codes")
	assert.Contains(t, out.String(), "Choix invalide")

	u, _ = newTestUI("\n", &clipboard.Memory{})
	choice, err = u.ChooseMultiple(context.Background(), matches)
	require.NoError(t, err)
	assert.Equal(t, ChoiceAll, choice)

	u, _ = newTestUI("a\n", &clipboard.Memory{})
	choice, err = u.ChooseMultiple(context.Background(), matches)
	require.NoError(t, err)
	assert.Equal(t, ChoiceCancel, choice)
}

// syncClip est un presse-papier modifiable depuis une autre goroutine.
type syncClip struct {
	mu   sync.Mutex
	text string
}

func (c *syncClip) ReadAll() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *syncClip) WriteAll(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = s
	return nil
}

func TestWaitForClipboardChange(t *testing.T) {
	clip := &syncClip{text: "initial"}
	u, _ := newTestUI("", clip)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = clip.WriteAll("  nouveau 00:00:05 ")
	}()

	got, err := u.WaitForClipboardChange(context.Background(), "initial", 5*time.Millisecond, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "nouveau 00:00:05", got)
}

func TestWaitForClipboardChange_TimeoutAndCancel(t *testing.T) {
	u, _ := newTestUI("", &syncClip{text: "same"})

	_, err := u.WaitForClipboardChange(context.Background(), "same", 5*time.Millisecond, 30*time.Millisecond)
	assert.ErrorContains(t, err, "timeout")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = u.WaitForClipboardChange(ctx, "same", 5*time.Millisecond, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
