package store

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned by Get when no snippet has the requested id.
	ErrNotFound = errors.New("snippet not found")

	// ErrInvalidInput is returned by Create when language or code is empty.
	ErrInvalidInput = errors.New("invalid snippet")
)

// Snippet is a single stored code sample.
type Snippet struct {
	ID       int64  `json:"id"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Store is a thread-safe in-memory snippet store keyed by id.
type Store struct {
	mu        sync.RWMutex
	data      map[int64]Snippet
	order     []int64 // insertion order, ascending by construction
	lastID    int64
	observers []func(Snippet)
}

// New creates a Store holding the given seed snippets. The id counter starts
// at the highest seed id. Seeds must have positive, distinct ids.
func New(seed ...Snippet) (*Store, error) {
	s := &Store{data: make(map[int64]Snippet, len(seed))}
	for _, sn := range seed {
		if sn.ID <= 0 {
			return nil, fmt.Errorf("store: seed id %d must be positive", sn.ID)
		}
		if _, dup := s.data[sn.ID]; dup {
			return nil, fmt.Errorf("store: duplicate seed id %d", sn.ID)
		}
		s.data[sn.ID] = sn
		s.order = append(s.order, sn.ID)
		if sn.ID > s.lastID {
			s.lastID = sn.ID
		}
	}
	slices.Sort(s.order)
	return s, nil
}

// OnCreate registers fn to be called with every successfully created snippet.
// Callbacks run on the creating goroutine after the store lock is released.
func (s *Store) OnCreate(fn func(Snippet)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// List returns a copy of all snippets, or only those whose language matches
// lang case-insensitively when lang is non-empty. The result is never nil.
func (s *Store) List(lang string) []Snippet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snippet, 0, len(s.order))
	for _, id := range s.order {
		sn := s.data[id]
		if lang != "" && !strings.EqualFold(sn.Language, lang) {
			continue
		}
		out = append(out, sn)
	}
	return out
}

// Get returns the snippet with the given id, or ErrNotFound.
func (s *Store) Get(id int64) (Snippet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sn, ok := s.data[id]
	if !ok {
		return Snippet{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return sn, nil
}

// Create stores a new snippet under the next id and returns it.
// It returns ErrInvalidInput if language or code is empty.
func (s *Store) Create(language, code string) (Snippet, error) {
	switch {
	case language == "":
		return Snippet{}, fmt.Errorf("%w: language is required", ErrInvalidInput)
	case code == "":
		return Snippet{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	s.mu.Lock()
	s.lastID++
	sn := Snippet{ID: s.lastID, Language: language, Code: code}
	s.data[sn.ID] = sn
	s.order = append(s.order, sn.ID)
	observers := s.observers
	s.mu.Unlock()

	slog.Debug("store: snippet created", "id", sn.ID, "language", sn.Language)
	for _, fn := range observers {
		fn(sn)
	}
	return sn, nil
}

// Count returns the number of stored snippets.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// LastID returns the most recently allocated id.
func (s *Store) LastID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastID
}
