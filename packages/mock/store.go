package mock

import (
	"strings"
	"sync"
)

// Store holds the last body written to each path.
type Store struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// Entry is a stored body and the content type it was written with.
type Entry struct {
	Body        []byte
	ContentType string
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*Entry),
	}
}

// Put replaces the body stored at path.
func (s *Store) Put(path string, body []byte, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := make([]byte, len(body))
	copy(data, body)
	s.entries[normalizePath(path)] = &Entry{Body: data, ContentType: contentType}
}

// Get returns a copy of the entry at path.
func (s *Store) Get(path string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[normalizePath(path)]
	if !ok {
		return Entry{}, false
	}
	data := make([]byte, len(e.Body))
	copy(data, e.Body)
	return Entry{Body: data, ContentType: e.ContentType}, true
}

// Delete removes the entry at path and reports whether one existed.
func (s *Store) Delete(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	path = normalizePath(path)
	if _, ok := s.entries[path]; !ok {
		return false
	}
	delete(s.entries, path)
	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}
