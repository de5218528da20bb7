// Package localdir serves library document queries from a local
// mirror of the shared document library. Workstations sync the library
// folder out-of-band; this adapter lists it once and keeps the listing
// fresh with a filesystem watcher, so library searches keep working
// when the backend is unreachable.
package localdir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/core/ports/driven"
	"github.com/paritel/osm-search/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.SourceQuerier = (*Store)(nil)

// fileEntry is one mirrored library file.
type fileEntry struct {
	name    string
	modTime time.Time
}

// Store is a library-document source over a mirrored local folder.
type Store struct {
	dir     string
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	files map[string]fileEntry

	done chan struct{}
}

// NewStore lists dir and starts watching it for changes.
func NewStore(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("library dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library dir %s: %w", dir, domain.ErrInvalidInput)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	s := &Store{
		dir:     dir,
		watcher: watcher,
		files:   make(map[string]fileEntry),
		done:    make(chan struct{}),
	}

	if err := s.scan(); err != nil {
		watcher.Close()
		return nil, err
	}

	go s.watch()
	return s, nil
}

// Close stops the watcher.
func (s *Store) Close() error {
	close(s.done)
	return s.watcher.Close()
}

// Type returns the result type this querier serves.
func (s *Store) Type() domain.ResultType { return domain.TypeLibraryDocument }

// Search returns the mirrored files whose name contains term.
func (s *Store) Search(_ context.Context, term string) ([]domain.RawRecord, error) {
	needle := strings.ToLower(term)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.RawRecord
	for name, entry := range s.files {
		if !strings.Contains(strings.ToLower(name), needle) {
			continue
		}

		modTime := entry.modTime
		records = append(records, domain.RawRecord{
			Type: domain.TypeLibraryDocument,
			Document: &domain.RawDocument{
				ID:        name,
				FileName:  name,
				FileType:  fileType(name),
				UpdatedAt: &modTime,
				Fields:    map[string]any{"path": filepath.Join(s.dir, name)},
			},
		})
	}
	return records, nil
}

// scan lists the mirror directory. Subdirectories and dotfiles are
// skipped; the mirror is flat.
func (s *Store) scan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("listing library dir: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = make(map[string]fileEntry, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		s.files[entry.Name()] = fileEntry{name: entry.Name(), modTime: info.ModTime()}
	}

	logger.Debug("Library mirror: %d files in %s", len(s.files), s.dir)
	return nil
}

// watch applies filesystem events to the in-memory listing.
func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.apply(event)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Library watcher: %v", err)
		}
	}
}

func (s *Store) apply(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return
		}
		s.mu.Lock()
		s.files[name] = fileEntry{name: name, modTime: info.ModTime()}
		s.mu.Unlock()
		logger.Debug("Library mirror: updated %s", name)

	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		s.mu.Lock()
		delete(s.files, name)
		s.mu.Unlock()
		logger.Debug("Library mirror: removed %s", name)
	}
}

// fileType derives the display type from the file extension.
func fileType(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return strings.ToLower(ext)
}
