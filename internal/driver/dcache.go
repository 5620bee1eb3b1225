package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"funlang/internal/ast"
	"funlang/internal/parser"
	"funlang/internal/project"
	"funlang/internal/source"
)

// Current schema version - increment when ParsePayload format changes
const parseCacheSchema uint16 = 1

// DiskCache хранит результаты разбора по хэшу содержимого файла.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// ParsePayload is one cached parse result.
type ParsePayload struct {
	Schema uint16
	Hash   project.Digest // содержимое файла
	Entry  uint8
	Tokens uint32

	Nodes []ast.Node
	Names []byte
	Views []source.StringView
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses dir as the cache root.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

// Key derives the cache key of file parsed from entry.
func (c *DiskCache) Key(file *source.File, entry parser.Entry) project.Digest {
	if c == nil {
		return project.Digest{}
	}
	return project.Salt(project.Digest(file.Hash), fmt.Sprintf("parse/v%d/%s", parseCacheSchema, entry))
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "parse", key.Hex()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *ParsePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *ParsePayload) (bool, error) {
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
	defer func() { _ = f.Close() }()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименовываем, чтобы параллельный читатель не увидел полупустой каталог
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func lookupCache(c *DiskCache, key project.Digest, file *source.File, log *zap.Logger) ([]ast.Node, *source.StringSet, bool) {
	var payload ParsePayload
	hit, err := c.Get(key, &payload)
	switch {
	case err != nil:
		log.Warn("parse cache read failed", zap.String("key", key.Hex()), zap.Error(err))
		return nil, nil, false
	case !hit:
		log.Debug("parse cache miss", zap.String("key", key.Hex()))
		return nil, nil, false
	case payload.Schema != parseCacheSchema || payload.Hash != project.Digest(file.Hash):
		log.Debug("parse cache stale", zap.String("key", key.Hex()), zap.Uint16("schema", payload.Schema))
		return nil, nil, false
	}
	names, err := source.RestoreStringSet(payload.Names, payload.Views)
	if err != nil {
		log.Warn("parse cache entry corrupt", zap.String("key", key.Hex()), zap.Error(err))
		return nil, nil, false
	}
	log.Debug("parse cache hit", zap.String("key", key.Hex()), zap.Int("nodes", len(payload.Nodes)))
	return payload.Nodes, names, true
}

func storeCache(c *DiskCache, key project.Digest, file *source.File, res *ParseResult, entry parser.Entry, log *zap.Logger) {
	payload := &ParsePayload{
		Schema: parseCacheSchema,
		Hash:   project.Digest(file.Hash),
		Entry:  uint8(entry),
		Tokens: uint32(len(res.Lex.Tokens)), // #nosec G115 -- the lexer caps the count at uint32
		Nodes:  res.Nodes,
		Names:  res.Names.Backing(),
		Views:  res.Names.Views(),
	}
	if err := c.Put(key, payload); err != nil {
		log.Warn("parse cache write failed", zap.String("key", key.Hex()), zap.Error(err))
		return
	}
	log.Debug("parse cache store", zap.String("key", key.Hex()))
}
