package favorites

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"openshelf/internal/metrics"
	"openshelf/internal/openlibrary"
)

// MaxEntries caps the list; adding beyond it evicts the oldest entries.
const MaxEntries = 100

// Entry is one bookmarked document, keyed by its derived identity rather
// than list position.
type Entry struct {
	Key string          `json:"key"`
	Doc openlibrary.Doc `json:"doc"`
}

// Store is the in-memory favorites list backed by a Slot. It is the single
// writable copy; every mutation rewrites the whole persisted payload. A
// failed write is logged and counted but the in-memory mutation stands —
// favorites are a convenience, not critical data.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	slot    Slot
	logger  *logrus.Logger
}

// Load builds a store from whatever the slot holds. An empty, unreadable,
// or malformed payload yields an empty list; startup never fails on it.
func Load(slot Slot, logger *logrus.Logger) *Store {
	s := &Store{slot: slot, logger: logger}

	data, err := slot.Load()
	if err != nil {
		if err != ErrEmptySlot {
			logger.WithError(err).Warn("favorites.load.failed")
		}
		return s
	}
	if !validPayload(data) {
		logger.Warn("favorites.load.corrupt, starting empty")
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		logger.WithError(err).Warn("favorites.load.corrupt, starting empty")
		s.entries = nil
	}
	return s
}

// Toggle adds the document when absent and removes it when present,
// returning true when the document ends up bookmarked. New entries go to the
// front; the list is truncated to MaxEntries.
func (s *Store) Toggle(doc openlibrary.Doc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := doc.IdentityKey()
	for i, e := range s.entries {
		if e.Key == key {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			metrics.FavoriteMutationsTotal.WithLabelValues("remove").Inc()
			s.persist()
			return false
		}
	}

	s.entries = append([]Entry{{Key: key, Doc: doc}}, s.entries...)
	if len(s.entries) > MaxEntries {
		s.entries = s.entries[:MaxEntries]
	}
	metrics.FavoriteMutationsTotal.WithLabelValues("add").Inc()
	s.persist()
	return true
}

// IsFavorite reports whether a document with the same identity is stored.
func (s *Store) IsFavorite(doc openlibrary.Doc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := doc.IdentityKey()
	for _, e := range s.entries {
		if e.Key == key {
			return true
		}
	}
	return false
}

// List returns the entries most-recently-added first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// ListByTitle returns the entries collated alphabetically by title,
// case-insensitively, for the favorites view.
func (s *Store) ListByTitle() []Entry {
	out := s.List()
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i].Doc.Title, out[j].Doc.Title) < 0
	})
	return out
}

// Len reports the current number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// persist rewrites the full list; caller holds s.mu.
func (s *Store) persist() {
	list := s.entries
	if list == nil {
		list = []Entry{} // keep [] rather than null in the slot
	}
	data, err := json.Marshal(list)
	if err == nil {
		err = s.slot.Store(data)
	}
	if err != nil {
		metrics.FavoriteWriteFailuresTotal.Inc()
		s.logger.WithError(err).Warn("favorites.persist.failed")
	}
}
