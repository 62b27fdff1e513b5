package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Document is the record kept for every successfully extracted upload.
// Records are immutable after creation and retained for the process lifetime;
// there is deliberately no eviction (see design notes).
type Document struct {
	ID         string
	Filename   string
	Text       string
	UploadedAt time.Time
}

// Store maps document identifiers to extracted documents. Implementations
// must be safe for concurrent use by HTTP handlers.
type Store interface {
	Put(filename, text string) Document
	Get(id string) (Document, bool)
	Has(id string) bool
}

type memoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemory() Store {
	return &memoryStore{
		docs: make(map[string]Document),
	}
}

func (s *memoryStore) Put(filename, text string) Document {
	doc := Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		Text:       text,
		UploadedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.mu.Unlock()

	return doc
}

func (s *memoryStore) Get(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	return doc, ok
}

func (s *memoryStore) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.docs[id]
	return ok
}
