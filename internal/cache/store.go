// Package cache provides the two-tier shader bytecode cache.
//
// The first tier is an in-process map keyed by the shader's logical name,
// holding the bytecode for the most recent key seen under that name. The
// second tier is a directory of binary records, one file per (name, key)
// pair, which persists across runs. Lookups check memory first and backfill
// it from disk on a disk hit.
//
// The cache is a performance optimization, not a correctness dependency:
// every filesystem error is logged as a warning and reported as a miss (or
// a no-op for writes), so a broken cache degrades to recompilation.
package cache

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultDir is the default cache directory.
const DefaultDir = "cache/shaders"

type memEntry struct {
	key      Key
	bytecode []byte
	stamp    time.Time
}

// Store is the two-tier bytecode cache. It is safe for concurrent use;
// distinct keys never collide on a file path, so disk writes are naturally
// race-free between writers.
type Store struct {
	mu    sync.Mutex
	dir   string
	mem   map[string]memEntry
	index *Index
	log   *slog.Logger
}

// NewStore creates a cache store rooted at dir (DefaultDir if empty).
// The bbolt metadata index is opened best-effort; if it cannot be opened
// the store runs without one.
func NewStore(dir string, logger *slog.Logger) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		dir: dir,
		mem: make(map[string]memEntry),
		log: logger,
	}

	index, err := openIndex(indexPath(dir))
	if err != nil {
		logger.Warn("shader cache index unavailable", "path", indexPath(dir), "error", err)
	} else {
		s.index = index
	}

	return s
}

// indexPath places the index database next to the record directory, not
// inside it, so Clear can remove the record tree without deleting the
// open database file.
func indexPath(dir string) string {
	return strings.TrimRight(dir, "/\\") + ".db"
}

// Dir returns the record directory.
func (s *Store) Dir() string { return s.dir }

// Index returns the metadata index, or nil if it is unavailable.
func (s *Store) Index() *Index { return s.index }

// Path returns the deterministic record path for a logical name and key:
// <dir>/<stem>_<hex(key)>.cache.
func (s *Store) Path(name string, key Key) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return filepath.Join(s.dir, stem+"_"+key.Hex()+".cache")
}

// Get returns the cached bytecode for (name, key). The memory tier hits
// only if its stored key equals key exactly; otherwise the disk tier is
// consulted and, on success, backfills the memory tier.
func (s *Store) Get(name string, key Key) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.mem[name]; ok && entry.key == key {
		return bytes.Clone(entry.bytecode), true
	}

	path := s.Path(name, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("failed to read cached shader", "name", name, "path", path, "error", err)
		}

		return nil, false
	}

	payload, err := decodeRecord(data, key)
	if err != nil {
		s.log.Warn("invalid shader cache record", "name", name, "path", path, "error", err)
		return nil, false
	}

	stamp := time.Now()
	if info, err := os.Stat(path); err == nil {
		stamp = info.ModTime()
	}

	s.mem[name] = memEntry{key: key, bytecode: bytes.Clone(payload), stamp: stamp}

	return payload, true
}

// Put writes a disk record for (name, key) and updates the memory tier.
// The record is written to a temporary file and renamed into place, so a
// partially written record is never observable under the final path.
func (s *Store) Put(name string, key Key, bytecode []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mem[name] = memEntry{key: key, bytecode: bytes.Clone(bytecode), stamp: time.Now()}

	if err := s.writeRecord(name, key, bytecode); err != nil {
		s.log.Warn("failed to cache shader", "name", name, "error", err)
		return
	}

	if s.index != nil {
		if err := s.index.Record(name, key, len(bytecode)); err != nil {
			s.log.Warn("failed to update shader cache index", "name", name, "error", err)
		}
	}

	s.log.Debug("cached shader", "name", name, "key", key.Hex(), "bytes", len(bytecode))
}

func (s *Store) writeRecord(name string, key Key, bytecode []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}

	record := encodeRecord(key, bytecode)
	if _, err := tmp.Write(record); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), s.Path(name, key)); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}

// Clear drops the memory tier and removes the record directory tree.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mem = make(map[string]memEntry)

	if err := os.RemoveAll(s.dir); err != nil {
		s.log.Warn("failed to clear shader cache", "dir", s.dir, "error", err)
	}

	if s.index != nil {
		if err := s.index.Reset(); err != nil {
			s.log.Warn("failed to reset shader cache index", "error", err)
		}
	}
}

// Close releases the metadata index, if any.
func (s *Store) Close() error {
	if s.index != nil {
		return s.index.Close()
	}

	return nil
}
