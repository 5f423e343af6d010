package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"ohdl/internal/diag"
	"ohdl/internal/irdump"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результат компиляции файла на диске по CacheKey.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what a cache entry holds. Spans are stored without their
// FileID and re-anchored to the loading FileSet.
type DiskPayload struct {
	Schema      uint16
	Path        string
	Diagnostics []diag.Diagnostic
	Stages      []StageReport
	Snapshot    *irdump.Snapshot
}

// OpenDiskCache opens (creating if needed) a cache rooted at dir. An empty
// dir selects $XDG_CACHE_HOME/ohdl or ~/.cache/ohdl.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "ohdl")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open disk cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir is the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key CacheKey) string {
	return filepath.Join(c.dir, "units", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload. A missing entry or a payload of another schema is
// a miss, not an error.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every cached unit.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "units"))
}

func fromCache(c *DiskCache, key CacheKey, res *Result, entry *log.Entry) bool {
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	if err != nil {
		entry.WithError(err).Warn("ignoring unreadable cache entry")
		return false
	}
	if !ok {
		return false
	}
	for _, d := range payload.Diagnostics {
		d.Primary.File = res.FileID
		if len(d.Notes) > 0 {
			notes := make([]diag.Note, len(d.Notes))
			for i, n := range d.Notes {
				n.Span.File = res.FileID
				notes[i] = n
			}
			d.Notes = notes
		}
		res.Bag.Add(d)
	}
	res.Stages = payload.Stages
	res.Snapshot = payload.Snapshot
	res.Cached = true
	entry.WithField("key", key.String()[:12]).Debug("cache hit")
	return true
}

func storeCache(c *DiskCache, key CacheKey, res *Result, entry *log.Entry) {
	if c == nil {
		return
	}
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        res.Path,
		Diagnostics: res.Bag.Items(),
		Stages:      res.Stages,
		Snapshot:    res.Snapshot,
	}
	if err := c.Put(key, payload); err != nil {
		entry.WithError(err).Warn("cannot write cache entry")
	}
}
