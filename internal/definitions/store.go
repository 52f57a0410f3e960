// Package definitions persists schedule definitions in a JSON Lines file and
// imports them from YAML documents. It is a collaborator of the engine; the
// resolver packages never touch the filesystem.
package definitions

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/aatumaykin/nextrun/internal/logger"
	"github.com/aatumaykin/nextrun/internal/resolver"
	"github.com/aatumaykin/nextrun/internal/schedule"
)

// ErrNotFound is returned when no definition has the requested ID.
var ErrNotFound = errors.New("definition not found")

// Store keeps one JSON-encoded definition per line. Writes replace the file
// atomically through a temporary file; lines that do not decode are carried
// over unchanged.
type Store struct {
	path   string
	logger *logger.Logger
	mu     sync.Mutex
}

// record is one non-empty line of the store. raw is set only for lines that
// failed to decode.
type record struct {
	def schedule.Definition
	raw []byte
}

// NewStore returns a store backed by path. The file is created on first write.
func NewStore(path string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{path: path, logger: log.WithComponent("definitions")}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns every stored definition in file order. A missing file is an
// empty store. Undecodable lines are logged and skipped.
func (s *Store) Load() ([]schedule.Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	defs := make([]schedule.Definition, 0, len(records))
	for _, r := range records {
		if r.raw == nil {
			defs = append(defs, r.def)
		}
	}
	return defs, nil
}

// Get returns the definition with the given ID.
func (s *Store) Get(id string) (schedule.Definition, error) {
	defs, err := s.Load()
	if err != nil {
		return schedule.Definition{}, err
	}
	for _, def := range defs {
		if def.ID == id {
			return def, nil
		}
	}
	return schedule.Definition{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Upsert validates defs and inserts or replaces them by ID in one write.
// Nothing is written when any definition is invalid. The second return
// value counts replaced definitions.
func (s *Store) Upsert(defs ...schedule.Definition) (int, error) {
	var errs []error
	for _, def := range defs {
		if err := resolver.Validate(def); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return 0, errors.Join(errs...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load()
	if err != nil {
		return 0, err
	}

	index := make(map[string]int, len(stored))
	for i, r := range stored {
		if r.raw == nil {
			index[r.def.ID] = i
		}
	}

	replaced := 0
	for _, def := range defs {
		if i, ok := index[def.ID]; ok {
			stored[i] = record{def: def}
			replaced++
			continue
		}
		index[def.ID] = len(stored)
		stored = append(stored, record{def: def})
	}

	if err := s.save(stored); err != nil {
		return 0, err
	}
	s.logger.Debug("definitions upserted",
		logger.Field{Key: "count", Value: len(defs)},
		logger.Field{Key: "replaced", Value: replaced})
	return replaced, nil
}

// Remove deletes the definition with the given ID.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load()
	if err != nil {
		return err
	}

	kept := stored[:0]
	for _, r := range stored {
		if r.raw != nil || r.def.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(stored) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.save(kept); err != nil {
		return err
	}
	s.logger.Debug("definition removed", logger.Field{Key: "id", Value: id})
	return nil
}

func (s *Store) load() ([]record, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open definition store: %w", err)
	}
	defer file.Close()

	var records []record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var def schedule.Definition
		if err := json.Unmarshal(raw, &def); err != nil {
			s.logger.Error("skipping undecodable definition", err,
				logger.Field{Key: "file", Value: s.path},
				logger.Field{Key: "line", Value: line})
			records = append(records, record{raw: append([]byte(nil), raw...)})
			continue
		}
		records = append(records, record{def: def})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read definition store: %w", err)
	}
	return records, nil
}

func (s *Store) save(records []record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create temporary store file: %w", err)
	}

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if r.raw != nil {
			if _, err := w.Write(append(r.raw, '\n')); err != nil {
				file.Close()
				return fmt.Errorf("write store: %w", err)
			}
			continue
		}
		if err := enc.Encode(r.def); err != nil {
			file.Close()
			return fmt.Errorf("encode definition %q: %w", r.def.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("sync store: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
