// Package localstore implements the file-backed JSON store used in demo
// mode, when no MariaDB backend is configured. It persists named
// collections of records to a single JSON file: the whole file is loaded
// at open and rewritten after every mutation. That is acceptable because
// demo mode exists for single-user local evaluation, not production load.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a file-backed collection of JSON document lists. All access
// goes through the package-level generic helpers so documents stay typed
// at the call site.
type Store struct {
	path string

	mu   sync.RWMutex
	data map[string][]json.RawMessage
}

// Open loads the store from path. A missing file yields an empty store;
// the file is created on first write.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("local store file path is required")
	}

	s := &Store{
		path: path,
		data: make(map[string][]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read local store file: %w", err)
	}
	if len(b) == 0 {
		return nil
	}

	if err := json.Unmarshal(b, &s.data); err != nil {
		return fmt.Errorf("decode local store file: %w", err)
	}
	return nil
}

// persistLocked writes the full store back to disk. Caller must hold the
// write lock.
func (s *Store) persistLocked() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir local store dir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write local store file: %w", err)
	}
	return nil
}

// --- Typed accessors ---

// All returns every document in the collection decoded as T.
func All[T any](s *Store, collection string) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raws := s.data[collection]
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

// Find returns the first document matching pred, or ok=false.
func Find[T any](s *Store, collection string, pred func(T) bool) (T, bool, error) {
	var zero T
	docs, err := All[T](s, collection)
	if err != nil {
		return zero, false, err
	}
	for _, doc := range docs {
		if pred(doc) {
			return doc, true, nil
		}
	}
	return zero, false, nil
}

// Insert appends a document to the collection and persists.
func Insert[T any](s *Store, collection string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[collection] = append(s.data[collection], json.RawMessage(raw))
	return s.persistLocked()
}

// Update applies fn to every document matching pred and persists. Returns
// the number of documents changed.
func Update[T any](s *Store, collection string, pred func(T) bool, fn func(*T)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	raws := s.data[collection]
	for i, raw := range raws {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return 0, fmt.Errorf("decode %s document: %w", collection, err)
		}
		if !pred(doc) {
			continue
		}
		fn(&doc)
		updated, err := json.Marshal(doc)
		if err != nil {
			return 0, fmt.Errorf("encode %s document: %w", collection, err)
		}
		raws[i] = json.RawMessage(updated)
		changed++
	}

	if changed == 0 {
		return 0, nil
	}
	return changed, s.persistLocked()
}

// Delete removes every document matching pred and persists. Returns the
// number of documents removed.
func Delete[T any](s *Store, collection string, pred func(T) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raws := s.data[collection]
	kept := raws[:0]
	removed := 0
	for _, raw := range raws {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return 0, fmt.Errorf("decode %s document: %w", collection, err)
		}
		if pred(doc) {
			removed++
			continue
		}
		kept = append(kept, raw)
	}

	if removed == 0 {
		return 0, nil
	}
	s.data[collection] = kept
	return removed, s.persistLocked()
}
