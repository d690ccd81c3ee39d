// Package blocks enregistre les blocs et les formats exposés à l'éditeur hôte.
package blocks

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/patrickprogramme/medialink/internal/i18n"
	"github.com/patrickprogramme/medialink/internal/medialink"
)

// Erreurs exportées
var (
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotFound          = errors.New("not registered")
	ErrInvalidName       = errors.New("invalid name")
)

// Type décrit un type de bloc : un couple edit/save.
type Type interface {
	Name() string
	Title() string
	Edit(props Props) Element
	Save(attrs Attributes) string
}

// Registry conserve les types de blocs et de formats enregistrés.
type Registry struct {
	mu      sync.RWMutex
	blocks  map[string]Type
	formats map[string]medialink.Settings
}

func NewRegistry() *Registry {
	return &Registry{
		blocks:  make(map[string]Type),
		formats: make(map[string]medialink.Settings),
	}
}

// RegisterBlockType enregistre un type de bloc ; un nom déjà pris est une erreur.
func (r *Registry) RegisterBlockType(t Type) error {
	if t == nil || t.Name() == "" {
		return fmt.Errorf("register block: %w", ErrInvalidName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blocks[t.Name()]; ok {
		return fmt.Errorf("block %q: %w", t.Name(), ErrAlreadyRegistered)
	}
	r.blocks[t.Name()] = t
	return nil
}

// RegisterFormatType enregistre un format de texte enrichi.
func (r *Registry) RegisterFormatType(s medialink.Settings) error {
	if s.Name == "" {
		return fmt.Errorf("register format: %w", ErrInvalidName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.formats[s.Name]; ok {
		return fmt.Errorf("format %q: %w", s.Name, ErrAlreadyRegistered)
	}
	r.formats[s.Name] = s
	return nil
}

func (r *Registry) BlockType(name string) (Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.blocks[name]
	if !ok {
		return nil, fmt.Errorf("block %q: %w", name, ErrNotFound)
	}
	return t, nil
}

func (r *Registry) FormatType(name string) (medialink.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.formats[name]
	if !ok {
		return medialink.Settings{}, fmt.Errorf("format %q: %w", name, ErrNotFound)
	}
	return s, nil
}

// BlockNames retourne les noms des blocs, triés.
func (r *Registry) BlockNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.blocks))
	for n := range r.blocks {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// FormatNames retourne les noms des formats, triés.
func (r *Registry) FormatNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.formats))
	for n := range r.formats {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// RegisterDefaults enregistre le bloc lecture/pause et le format media link.
func RegisterDefaults(r *Registry, tr i18n.Translator) error {
	if err := r.RegisterBlockType(NewPlayPause(tr)); err != nil {
		return err
	}
	return r.RegisterFormatType(medialink.DefaultSettings(tr))
}
