package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/balkashynov/shyft/internal/models"
)

// ErrNotFound is returned by Get, Update and Delete for unknown shift ids
var ErrNotFound = errors.New("shift not found")

// PersistenceError wraps a failure to read or write the backing file
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// document is the on-disk layout of data.json
type document struct {
	Data map[string]models.ShiftRecord `json:"data"`
}

// Store keeps every shift in memory and rewrites the whole file on each
// mutation. It assumes a single writer.
type Store struct {
	path    string
	logsDir string
	log     *slog.Logger
	data    map[string]models.ShiftRecord
}

// Open loads the store at path. A missing file is an empty store.
// logsDir is where exported markdown for each shift lives.
func Open(path, logsDir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	s := &Store{
		path:    path,
		logsDir: logsDir,
		log:     logger.With("component", "store"),
		data:    make(map[string]models.ShiftRecord),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("no data file yet, starting empty", "path", path)
			return s, nil
		}
		perr := &PersistenceError{Op: "load", Path: path, Err: err}
		s.log.Error("load failed", "error", perr)
		return nil, perr
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		perr := &PersistenceError{Op: "load", Path: path, Err: err}
		s.log.Error("decode failed", "error", perr)
		return nil, perr
	}
	if doc.Data != nil {
		s.data = doc.Data
	}
	s.log.Info("loaded shifts", "path", path, "count", len(s.data))
	return s, nil
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// All returns a copy of every shift keyed by id
func (s *Store) All() map[string]models.ShiftRecord {
	out := make(map[string]models.ShiftRecord, len(s.data))
	for id, rec := range s.data {
		out[id] = rec
	}
	return out
}

// Get returns a single shift
func (s *Store) Get(id string) (models.ShiftRecord, error) {
	rec, ok := s.data[id]
	if !ok {
		return models.ShiftRecord{}, fmt.Errorf("shift %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

// Add inserts or overwrites a shift and saves
func (s *Store) Add(id string, rec models.ShiftRecord) error {
	s.data[id] = rec
	s.log.Debug("shift added", "id", id)
	return s.save()
}

// Update overwrites an existing shift and saves
func (s *Store) Update(id string, rec models.ShiftRecord) error {
	if _, ok := s.data[id]; !ok {
		return fmt.Errorf("shift %s: %w", id, ErrNotFound)
	}
	s.data[id] = rec
	s.log.Debug("shift updated", "id", id)
	return s.save()
}

// Delete removes a shift, saves, and tries to remove its markdown export
func (s *Store) Delete(id string) error {
	if _, ok := s.data[id]; !ok {
		return fmt.Errorf("shift %s: %w", id, ErrNotFound)
	}
	delete(s.data, id)
	if err := s.save(); err != nil {
		return err
	}
	s.log.Info("shift deleted", "id", id)
	s.removeMarkdown(id)
	return nil
}

// MaxID returns the largest numeric id, or 0 when the store is empty
func (s *Store) MaxID() int {
	max := 0
	for id := range s.data {
		n, err := strconv.Atoi(id)
		if err != nil {
			s.log.Warn("skipping non-numeric shift id", "id", id)
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// NextID returns the formatted id the next new shift should use
func (s *Store) NextID() string {
	return models.FormatID(s.MaxID() + 1)
}

// save rewrites the whole file. It is not atomic.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return s.saveErr(err)
	}

	raw, err := json.MarshalIndent(document{Data: s.data}, "", "    ")
	if err != nil {
		return s.saveErr(err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return s.saveErr(err)
	}
	s.log.Debug("data saved", "path", s.path, "count", len(s.data))
	return nil
}

func (s *Store) saveErr(err error) error {
	perr := &PersistenceError{Op: "save", Path: s.path, Err: err}
	s.log.Error("save failed", "error", perr)
	return perr
}

// removeMarkdown deletes logs/{id}.md; failures are only logged
func (s *Store) removeMarkdown(id string) {
	if s.logsDir == "" {
		return
	}
	mdPath := filepath.Join(s.logsDir, id+".md")
	if err := os.Remove(mdPath); err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("no markdown export to remove", "id", id, "path", mdPath)
			return
		}
		s.log.Warn("failed to remove markdown export", "id", id, "path", mdPath, "error", err)
		return
	}
	s.log.Debug("markdown export removed", "id", id, "path", mdPath)
}
