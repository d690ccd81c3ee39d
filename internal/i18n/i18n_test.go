package i18n

import "testing"

func TestTranslator(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"", "Playback at 00:00:05"},
		{"en", "Playback at 00:00:05"},
		{"fr", "Lecture à 00:00:05"},
		{"fr-CA", "Lecture à 00:00:05"},
		{"not a locale!", "Playback at 00:00:05"},
	}
	for _, tc := range tests {
		if got := New(tc.locale).Sprintf(PlaybackAt, "00:00:05"); got != tc.want {
			t.Errorf("New(%q).Sprintf = %q; want %q", tc.locale, got, tc.want)
		}
	}
}
