package favorites

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrEmptySlot is returned by Load when nothing has been persisted yet.
var ErrEmptySlot = errors.New("favorites: empty slot")

// Slot is a single named storage cell holding the JSON-encoded favorites
// list. The whole payload is read once at startup and fully rewritten on
// every mutation.
type Slot interface {
	Load() ([]byte, error)
	Store(data []byte) error
}

// FileSlot persists the payload in one file, written atomically via a
// temp file and rename.
type FileSlot struct {
	Path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{Path: path}
}

func (s *FileSlot) Load() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrEmptySlot
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *FileSlot) Store(data []byte) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.Path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}

// MemorySlot keeps the payload in memory. Used by tests and as a fallback
// when no persistence is configured.
type MemorySlot struct {
	data []byte

	// FailWrites makes Store return an error, for exercising the
	// non-fatal write-failure path.
	FailWrites bool
}

func NewMemorySlot() *MemorySlot { return &MemorySlot{} }

func (s *MemorySlot) Load() ([]byte, error) {
	if s.data == nil {
		return nil, ErrEmptySlot
	}
	return s.data, nil
}

func (s *MemorySlot) Store(data []byte) error {
	if s.FailWrites {
		return errors.New("memory slot: writes disabled")
	}
	s.data = append([]byte(nil), data...)
	return nil
}

// Seed pre-populates the slot, bypassing the FailWrites switch.
func (s *MemorySlot) Seed(data []byte) {
	s.data = append([]byte(nil), data...)
}
