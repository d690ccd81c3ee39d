package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic_CreatesParents(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a", "b", "out.html")
	if err := WriteFileAtomic(dest, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("content = %q; want hello", got)
	}

	// pas de fichier temporaire résiduel
	entries, _ := os.ReadDir(filepath.Dir(dest))
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestSaveDocumentAtomic_Collision(t *testing.T) {
	dir := t.TempDir()

	first, err := SaveDocumentAtomic(dir, "Notes", "md", []byte("1"), false)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if filepath.Base(first) != "Notes.md" {
		t.Errorf("first = %s", first)
	}

	second, err := SaveDocumentAtomic(dir, "Notes", "md", []byte("2"), false)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if filepath.Base(second) != "Notes_1.md" {
		t.Errorf("second = %s; want Notes_1.md", second)
	}

	third, err := SaveDocumentAtomic(dir, "Notes", "md", []byte("3"), true)
	if err != nil {
		t.Fatalf("overwrite save: %v", err)
	}
	if third != first {
		t.Errorf("overwrite path = %s; want %s", third, first)
	}
	got, _ := os.ReadFile(first)
	if string(got) != "3" {
		t.Errorf("overwritten content = %q", got)
	}
}

func TestSaveDocumentAtomic_NameFromTitle(t *testing.T) {
	dir := t.TempDir()
	got, err := SaveDocumentAtomic(dir, "Cours [00:01:05] : intro", "html", []byte("x"), false)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(got) != "Cours 00-01-05 - intro.html" {
		t.Errorf("path = %s", got)
	}

	got, err = SaveDocumentAtomic(dir, "", "md", []byte("x"), false)
	if err != nil || filepath.Base(got) != "document.md" {
		t.Errorf("empty title = %s, %v", got, err)
	}
}

func TestSaveDocumentAtomic_Errors(t *testing.T) {
	if _, err := SaveDocumentAtomic(t.TempDir(), "x", "", nil, false); err == nil {
		t.Error("expected error for empty extension")
	}
	// le dossier cible est un fichier
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := SaveDocumentAtomic(parent, "x", "md", nil, false); err == nil {
		t.Error("expected error when dir is a file")
	}
}

func TestFreePath(t *testing.T) {
	dir := t.TempDir()
	if got := FreePath(dir, "a", "md"); got != filepath.Join(dir, "a.md") {
		t.Errorf("FreePath(empty dir) = %s", got)
	}
	for _, name := range []string{"a.md", "a_1.md", "a_2.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if got := FreePath(dir, "a", "md"); got != filepath.Join(dir, "a_3.md") {
		t.Errorf("FreePath = %s; want a_3.md", got)
	}
	if got := FreePath(dir, "a", "html"); got != filepath.Join(dir, "a.html") {
		t.Errorf("FreePath(other ext) = %s", got)
	}
}

func TestHasFiles(t *testing.T) {
	dir := t.TempDir()
	ok, err := HasFiles(dir)
	if err != nil || ok {
		t.Fatalf("HasFiles(new) = %v, %v", ok, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x.tmpl"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ok, err = HasFiles(dir)
	if err != nil || !ok {
		t.Fatalf("HasFiles(non-empty) = %v, %v", ok, err)
	}

	ok, err = HasFiles(dir, "*.md", "*.tmpl")
	if err != nil || !ok {
		t.Errorf("HasFiles(*.tmpl) = %v, %v", ok, err)
	}
	ok, err = HasFiles(dir, "*.md")
	if err != nil || ok {
		t.Errorf("HasFiles(*.md) = %v, %v", ok, err)
	}
	ok, err = HasFiles(filepath.Join(dir, "missing"), "*")
	if err != nil || ok {
		t.Errorf("HasFiles(missing) = %v, %v", ok, err)
	}
	if _, err := HasFiles(dir, "["); err == nil {
		t.Error("expected error for bad pattern")
	}
}

func TestDocumentName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "document"},
		{"cours 00:01:05", "cours 00-01-05"},
		{"[00:01:05] début", "00-01-05 début"},
		{"a/b\\c?", "a b c"},
		{"  plusieurs \t  espaces\n ", "plusieurs espaces"},
		{"fin... ", "fin"},
		{"???", "document"},
		{"[]", "document"},
		{"nul", "_nul"},
		{"Com1", "_Com1"},
		{strings.Repeat("é", 150), strings.Repeat("é", 100)},
	}
	for _, tc := range tests {
		if got := DocumentName(tc.in); got != tc.want {
			t.Errorf("DocumentName(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
