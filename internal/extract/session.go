package extract

import (
	"sync"

	"github.com/google/uuid"

	"github.com/formulador-mga/mga-cli/internal/model"
)

// Session is a caller-owned cache of extraction results keyed by document
// type. New keys are always added; existing keys are overwritten only on
// explicit re-extraction. Safe for concurrent use.
type Session struct {
	id string

	mu     sync.RWMutex
	fields map[model.DocType]model.FieldMap
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		id:     uuid.NewString(),
		fields: make(map[model.DocType]model.FieldMap),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Put merges fields into the cached map for docType. reextract controls
// whether existing keys are overwritten.
func (s *Session) Put(docType model.DocType, fields model.FieldMap, reextract bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.fields[docType]
	if !ok {
		s.fields[docType] = fields.Clone()
		return
	}
	cached.Merge(fields, reextract)
}

// Get returns a copy of the cached map for docType, or nil when absent.
func (s *Session) Get(docType model.DocType) model.FieldMap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached, ok := s.fields[docType]
	if !ok {
		return nil
	}
	return cached.Clone()
}

// Snapshot folds every cached doc-type map into one FieldMap, earlier doc
// types winning on key collisions, in the fixed fan-out order.
func (s *Session) Snapshot() model.FieldMap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := model.FieldMap{}
	for _, dt := range model.AllDocTypes() {
		if cached, ok := s.fields[dt]; ok {
			out.Merge(cached, false)
		}
	}
	return out
}
