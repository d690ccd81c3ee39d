// Package clipboard lit la sélection copiée par l'utilisateur et y réécrit
// le texte converti.
package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

var ErrEmptyText = errors.New("le texte à copier ne peut pas être vide")

// Clipboard est la source/destination de texte utilisée par l'application.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System est le presse-papier du système d'exploitation.
type System struct{}

func (System) ReadAll() (string, error) { return ReadAll() }

func (System) WriteAll(text string) error { return WriteAll(text) }

// ReadAll lit le contenu texte du presse-papier, normalisé (BOM, fins de ligne).
func ReadAll() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return Normalize(text), nil
}

// WriteAll écrit une chaîne de caractères dans le presse-papier.
// Retourne une erreur si l'opération échoue.
func WriteAll(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	return clipboard.WriteAll(text)
}

// Equals vérifie si le contenu actuel de c est strictement égal à text.
// En cas d'erreur de lecture, retourne false.
// A utiliser pour tester si le presse-papier est vide, et aussi s'il a changé
func Equals(c Clipboard, text string) bool {
	current, err := c.ReadAll()
	if err != nil {
		return false
	}
	return current == text
}

// Normalize retire un BOM éventuel et ramène les fins de ligne à "\n".
func Normalize(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Memory est un presse-papier en mémoire (tests, environnements sans affichage).
type Memory struct {
	Text string
	Err  error
}

func (m *Memory) ReadAll() (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

func (m *Memory) WriteAll(text string) error {
	if text == "" {
		return ErrEmptyText
	}
	m.Text = text
	return nil
}
