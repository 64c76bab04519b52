package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const indexFilename = "cache_index.json"

// DefaultEvictTarget is the fraction of the size budget cleanup reduces
// usage to, so small overages don't trigger a cleanup on every save.
const DefaultEvictTarget = 0.9

// Store is the disk tier: a directory of encoded image files plus a JSON
// sidecar mapping filename to size in bytes. It enforces a byte budget by
// deleting the oldest files first. Index bookkeeping and deletions are
// serialized by a store-wide lock; file content writes for distinct ids
// proceed outside it.
type Store struct {
	fs          afero.Fs
	dir         string
	maxBytes    int64
	evictTarget float64
	ext         string

	mu    sync.Mutex
	index map[string]int64
}

// NewStore opens (or creates) the cache directory and loads the index,
// dropping entries whose file has gone missing.
func NewStore(fs afero.Fs, dir string, maxBytes int64, evictTarget float64, ext string) (*Store, error) {
	if evictTarget <= 0 || evictTarget > 1 {
		evictTarget = DefaultEvictTarget
	}

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	s := &Store{
		fs:          fs,
		dir:         dir,
		maxBytes:    maxBytes,
		evictTarget: evictTarget,
		ext:         ext,
		index:       map[string]int64{},
	}

	s.loadIndex()
	return s, nil
}

// Has reports whether the image is cached: the index must list it and the
// file must still exist on disk.
func (s *Store) Has(id string) bool {
	filename := id + s.ext

	s.mu.Lock()
	_, indexed := s.index[filename]
	s.mu.Unlock()
	if !indexed {
		return false
	}

	exists, err := afero.Exists(s.fs, s.path(filename))
	return err == nil && exists
}

// Load reads a cached image. A read failure removes the stale index entry
// and reports absence rather than surfacing the error.
func (s *Store) Load(id string) ([]byte, bool) {
	filename := id + s.ext

	data, err := afero.ReadFile(s.fs, s.path(filename))
	if err != nil {
		s.mu.Lock()
		if _, ok := s.index[filename]; ok {
			log.Warn().Str("file", filename).Err(err).Msg("Purging unreadable cache entry")
			delete(s.index, filename)
			s.persistIndexLocked()
		}
		s.mu.Unlock()
		return nil, false
	}

	return data, true
}

// Save writes the encoded image, records its size in the index, and evicts
// old entries if the budget is now exceeded. On write failure the cache is
// left unmodified.
func (s *Store) Save(id string, data []byte) error {
	filename := id + s.ext

	if err := afero.WriteFile(s.fs, s.path(filename), data, 0o644); err != nil {
		return fmt.Errorf("write cache file %s: %w", filename, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.index[filename] = int64(len(data))
	s.persistIndexLocked()
	s.cleanupLocked()

	return nil
}

// Size returns the total indexed size in bytes.
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, size := range s.index {
		total += size
	}
	return total
}

func (s *Store) path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// cleanupLocked deletes the oldest files until total indexed size is at or
// below evictTarget of the budget. Entries whose file has vanished are
// purged from the index without counting toward the target. Caller holds mu.
func (s *Store) cleanupLocked() {
	if s.maxBytes <= 0 {
		return
	}

	var total int64
	for _, size := range s.index {
		total += size
	}
	if total <= s.maxBytes {
		return
	}

	log.Info().
		Int64("totalBytes", total).
		Int64("maxBytes", s.maxBytes).
		Msg("Cache over budget, cleaning up")

	type fileAge struct {
		filename string
		size     int64
		created  time.Time
	}

	aged := make([]fileAge, 0, len(s.index))
	for filename, size := range s.index {
		info, err := s.fs.Stat(s.path(filename))
		if err != nil {
			if !os.IsNotExist(err) {
				log.Warn().Str("file", filename).Err(err).Msg("Failed to stat cache entry")
			}
			delete(s.index, filename)
			total -= size
			continue
		}
		// Cache files are written once and never modified, so the mod time
		// is the creation time.
		aged = append(aged, fileAge{filename: filename, size: size, created: info.ModTime()})
	}

	sort.Slice(aged, func(i, j int) bool {
		return aged[i].created.Before(aged[j].created)
	})

	target := int64(float64(s.maxBytes) * s.evictTarget)
	for _, f := range aged {
		if total <= target {
			break
		}

		if err := s.fs.Remove(s.path(f.filename)); err != nil {
			log.Error().Str("file", f.filename).Err(err).Msg("Failed to delete cache entry")
			continue
		}
		delete(s.index, f.filename)
		total -= f.size
	}

	s.persistIndexLocked()
	log.Info().Int64("totalBytes", total).Msg("Cache cleanup complete")
}

func (s *Store) loadIndex() {
	data, err := afero.ReadFile(s.fs, s.path(indexFilename))
	if err != nil {
		return
	}

	index := map[string]int64{}
	if err := json.Unmarshal(data, &index); err != nil {
		log.Warn().Err(err).Msg("Cache index is corrupted, rebuilding")
		return
	}

	// Self-heal: an index entry without its file is dropped.
	for filename := range index {
		exists, err := afero.Exists(s.fs, s.path(filename))
		if err != nil || !exists {
			log.Warn().Str("file", filename).Msg("Dropping index entry with missing file")
			delete(index, filename)
		}
	}

	s.index = index
}

// persistIndexLocked writes the index sidecar; failures are logged, not
// fatal, since the index self-heals on the next load. Caller holds mu.
func (s *Store) persistIndexLocked() {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal cache index")
		return
	}

	if err := afero.WriteFile(s.fs, s.path(indexFilename), data, 0o644); err != nil {
		log.Error().Err(err).Msg("Failed to persist cache index")
	}
}
