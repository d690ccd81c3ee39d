package timecode

import (
	"errors"
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	for s := 0; s <= 359999; s++ {
		tc, err := SecondsToTimecode(float64(s))
		if err != nil {
			t.Fatalf("SecondsToTimecode(%d): %v", s, err)
		}
		if !IsTimeformat(tc) {
			t.Fatalf("formatter output %q is not a time-code", tc)
		}
		got, err := TimecodeToSeconds(tc)
		if err != nil {
			t.Fatalf("TimecodeToSeconds(%q): %v", tc, err)
		}
		if got != float64(s) {
			t.Fatalf("round trip %d -> %q -> %v", s, tc, got)
		}
	}
}

func TestSecondsToTimecode(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		want    string
		wantErr error
	}{
		{name: "zero", in: 0, want: "00:00:00"},
		{name: "under a minute", in: 5, want: "00:00:05"},
		{name: "fraction truncated", in: 83.9, want: "00:01:23"},
		{name: "hours", in: 5025, want: "01:23:45"},
		{name: "negative", in: -1, wantErr: ErrNegative},
		{name: "nan", in: math.NaN(), wantErr: ErrInvalidPosition},
		{name: "inf", in: math.Inf(1), wantErr: ErrInvalidPosition},
		{name: "largest position", in: MaxPosition - 1, want: "2501999792983:36:31"},
		{name: "beyond float precision", in: MaxPosition, wantErr: ErrInvalidPosition},
		{name: "huge", in: 1e20, wantErr: ErrInvalidPosition},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SecondsToTimecode(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v; want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q; want %q", got, tc.want)
			}
		})
	}
}

func TestIsTimeformat(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"01:02:03", true},
		{"1:02:03", true},
		{"02:03", true},
		{"100:00:00", true},
		{"1:2:3", false},
		{"00:60:00", false},
		{"abc", false},
		{" 01:02:03", false},
		{"01:02:03 ", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsTimeformat(tc.in); got != tc.want {
			t.Errorf("IsTimeformat(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestTimecodeToSeconds_Invalid(t *testing.T) {
	for _, in := range []string{
		"abc", "1:2:3", "12", "00:00:61",
		" 00:00:05 ", "00:00:05\n",
		"9000000000000000:00:00", "2501999792983:36:32",
		"99999999999999999999999:00:00",
	} {
		if _, err := TimecodeToSeconds(in); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("TimecodeToSeconds(%q) err = %v; want ErrInvalidFormat", in, err)
		}
	}
	got, err := TimecodeToSeconds("02:03")
	if err != nil || got != 123 {
		t.Errorf("TimecodeToSeconds(02:03) = %v, %v; want 123", got, err)
	}
	got, err = TimecodeToSeconds("2501999792983:36:31")
	if err != nil || got != MaxPosition-1 {
		t.Errorf("TimecodeToSeconds(largest) = %v, %v; want %d", got, err, int64(MaxPosition-1))
	}
}

func TestFindAllTimeformats(t *testing.T) {
	text := "go to 00:01:02 then 00:02:00"
	var got []Match
	for m := range FindAllTimeformats(text) {
		got = append(got, m)
	}
	want := []Match{
		{Text: "00:01:02", Start: 6, End: 14},
		{Text: "00:02:00", Start: 20, End: 28},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d matches, want %d: %#v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d = %#v; want %#v", i, got[i], want[i])
		}
	}

	// la séquence est rejouable
	n := 0
	for range FindAllTimeformats(text) {
		n++
	}
	if n != 2 {
		t.Errorf("second iteration yielded %d matches; want 2", n)
	}
}

func TestFindAllTimeformats_RuneOffsets(t *testing.T) {
	text := "élan à 00:00:05 puis 1:00:00"
	var got []Match
	for m := range FindAllTimeformats(text) {
		got = append(got, m)
	}
	if len(got) != 2 {
		t.Fatalf("got %d matches: %#v", len(got), got)
	}
	runes := []rune(text)
	for _, m := range got {
		if string(runes[m.Start:m.End]) != m.Text {
			t.Errorf("offsets %d:%d give %q; want %q", m.Start, m.End, string(runes[m.Start:m.End]), m.Text)
		}
	}
}

func TestFindAllTimeformats_IgnoresEmbeddedNumbers(t *testing.T) {
	for m := range FindAllTimeformats("ref x12:34 and 123:4") {
		t.Errorf("unexpected match %#v", m)
	}
}

func TestFindAllTimeformats_EarlyStop(t *testing.T) {
	n := 0
	for range FindAllTimeformats("00:00:01 00:00:02 00:00:03") {
		n++
		if n == 1 {
			break
		}
	}
	if n != 1 {
		t.Errorf("iteration did not stop, n=%d", n)
	}
}

func TestHasMultipleTimeformats(t *testing.T) {
	if got := HasMultipleTimeformats("only 00:00:01 here"); got != nil {
		t.Errorf("single match should give nil, got %#v", got)
	}
	if got := HasMultipleTimeformats("00:00:01 and 00:00:02"); len(got) != 2 {
		t.Errorf("got %#v; want 2 matches", got)
	}
}

func TestTimestampAttribute(t *testing.T) {
	if got := FormatTimestamp(5); got != "#5" {
		t.Errorf("FormatTimestamp(5) = %q", got)
	}
	if got := FormatTimestamp(12.5); got != "#12.5" {
		t.Errorf("FormatTimestamp(12.5) = %q", got)
	}
	v, err := ParseTimestamp("#20")
	if err != nil || v != 20 {
		t.Errorf("ParseTimestamp(#20) = %v, %v", v, err)
	}
	for _, in := range []string{"#", "#abc", "#-3", "", "#NaN", "#1e20"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", in)
		}
	}
}
