package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"travelia/internal/metrics"

	"github.com/rs/zerolog"
)

// DB persists every collection as one flat JSON array document under the
// data directory. There is no partial update: each mutation re-reads the
// whole document, rewrites it and renames it into place. A mutex per
// collection serializes the load-mutate-save sequence so that two
// concurrent appends to the same collection can never drop one another.
type DB struct {
	dir    string
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	logger zerolog.Logger
}

func NewDB(dir string, logger *zerolog.Logger) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	var dbLogger zerolog.Logger
	if logger != nil {
		dbLogger = logger.With().Str("component", "database").Logger()
	}

	dbLogger.Info().Str("dir", dir).Msg("document store initialized")
	return &DB{
		dir:    dir,
		locks:  make(map[string]*sync.Mutex),
		logger: dbLogger,
	}, nil
}

// Dir returns the data directory holding the collection documents.
func (db *DB) Dir() string {
	return db.dir
}

func (db *DB) collectionLock(name string) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	lock, ok := db.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		db.locks[name] = lock
	}
	return lock
}

func (db *DB) path(name string) string {
	return filepath.Join(db.dir, name+".json")
}

// load decodes the named collection into out, which must be a pointer to
// a slice. A missing, unreadable or non-array document degrades to an
// empty collection: the fault is logged and counted, never returned.
// Callers must hold the collection lock when loading as part of a
// read-modify-write sequence.
func (db *DB) load(name string, out any) {
	data, err := os.ReadFile(db.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			db.logger.Error().Err(err).Str("collection", name).Msg("failed to read collection")
			metrics.IncStoreReadFault(name)
		}
		return
	}

	if err := json.Unmarshal(data, out); err != nil {
		db.logger.Error().Err(err).Str("collection", name).Msg("collection document is not a valid array")
		metrics.IncStoreReadFault(name)
	}
}

// save rewrites the named collection wholesale. The document is written
// to a temp file in the same directory and renamed into place, so a
// subsequent load never observes a half-written array. A failed write is
// logged and counted but never surfaced: the caller proceeds as if the
// mutation succeeded and the previous on-disk content stays intact.
func (db *DB) save(name string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		db.logger.Error().Err(err).Str("collection", name).Msg("failed to encode collection")
		metrics.IncStoreWriteFailure(name)
		return
	}

	tmp, err := os.CreateTemp(db.dir, name+"-*.tmp")
	if err != nil {
		db.logger.Error().Err(err).Str("collection", name).Msg("failed to create temp document")
		metrics.IncStoreWriteFailure(name)
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		db.logger.Error().Err(err).Str("collection", name).Msg("failed to write collection")
		metrics.IncStoreWriteFailure(name)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		db.logger.Error().Err(err).Str("collection", name).Msg("failed to close temp document")
		metrics.IncStoreWriteFailure(name)
		return
	}

	if err := os.Rename(tmpName, db.path(name)); err != nil {
		os.Remove(tmpName)
		db.logger.Error().Err(err).Str("collection", name).Msg("failed to replace collection document")
		metrics.IncStoreWriteFailure(name)
	}
}
