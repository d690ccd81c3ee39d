// Package player décrit le lecteur média de l'hôte tel que vu par l'éditeur.
package player

import (
	"sync"
	"time"
)

// Player est le contrat fourni par le composant lecteur de l'hôte.
type Player interface {
	// CurrentTime retourne la position de lecture courante en secondes.
	CurrentTime() float64
	IsPaused() bool
	Pause()
}

// Session est un lecteur en mémoire : la position avance avec l'horloge
// tant que la lecture n'est pas en pause.
type Session struct {
	mu       sync.Mutex
	now      func() time.Time
	position float64   // position au moment de startedAt
	started  time.Time // zéro si en pause
	duration float64   // 0 = inconnue
}

// NewSession construit une session en pause à la position donnée.
func NewSession(position, duration float64) *Session {
	return &Session{now: time.Now, position: position, duration: duration}
}

// Play démarre (ou reprend) la lecture.
func (s *Session) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		s.started = s.now()
	}
}

func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = s.currentLocked()
	s.started = time.Time{}
}

// Toggle alterne lecture/pause.
func (s *Session) Toggle() {
	if s.IsPaused() {
		s.Play()
		return
	}
	s.Pause()
}

func (s *Session) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started.IsZero()
}

func (s *Session) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

// Seek place la lecture à la position donnée (bornée à [0, durée]).
func (s *Session) Seek(position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = s.bound(position)
	if !s.started.IsZero() {
		s.started = s.now()
	}
}

func (s *Session) currentLocked() float64 {
	pos := s.position
	if !s.started.IsZero() {
		pos += s.now().Sub(s.started).Seconds()
	}
	return s.bound(pos)
}

func (s *Session) bound(pos float64) float64 {
	if pos < 0 {
		return 0
	}
	if s.duration > 0 && pos > s.duration {
		return s.duration
	}
	return pos
}
