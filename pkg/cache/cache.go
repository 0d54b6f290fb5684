// Package cache stores rendered HTML fragments in a bbolt database keyed by
// the hash of the engine name, the renderer fingerprint and the markdown
// source.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/folio-site/folio/pkg/logging"
)

const bucketFragments = "fragments"

// ErrClosed is returned when the cache is used after Close.
var ErrClosed = errors.New("render cache is closed")

// Cache is a content-addressed store of rendered fragments.
type Cache struct {
	db *bolt.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketFragments))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Key returns the cache key for markdown rendered by engine.
func Key(engine, markdown string) []byte {
	sum := sha256.Sum256([]byte(engine + "\x00" + markdown))
	return []byte(hex.EncodeToString(sum[:]))
}

// Get returns the cached fragment, if any.
func (c *Cache) Get(engine, markdown string) (string, bool, error) {
	if c == nil || c.db == nil {
		return "", false, ErrClosed
	}
	var html string
	var found bool
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketFragments)).Get(Key(engine, markdown))
		if v != nil {
			html = string(v)
			found = true
		}
		return nil
	})
	return html, found, err
}

// Put stores a rendered fragment.
func (c *Cache) Put(engine, markdown, html string) error {
	if c == nil || c.db == nil {
		return ErrClosed
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketFragments)).Put(Key(engine, markdown), []byte(html))
	})
}

// Len returns the number of cached fragments.
func (c *Cache) Len() (int, error) {
	if c == nil || c.db == nil {
		return 0, ErrClosed
	}
	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketFragments)).Stats().KeyN
		return nil
	})
	return n, err
}

// Purge removes every cached fragment.
func (c *Cache) Purge() error {
	if c == nil || c.db == nil {
		return ErrClosed
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketFragments)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketFragments))
		return err
	})
}

// Close releases the database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Converter is the engine contract the cache wraps.
type Converter interface {
	Convert(markdown string) (string, error)
}

// Engine is a read-through caching wrapper around a Converter. Cache
// failures are logged and never fail a conversion.
type Engine struct {
	Name string
	// Fingerprint identifies the renderer build; a new one never sees
	// fragments stored by an older one.
	Fingerprint string
	Inner       Converter
	Cache  *Cache
	Logger logrus.FieldLogger

	hits   atomic.Int64
	misses atomic.Int64
}

// Wrap returns a caching engine. A nil cache returns a pass-through wrapper.
func Wrap(name, fingerprint string, inner Converter, c *Cache, logger logrus.FieldLogger) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{Name: name, Fingerprint: fingerprint, Inner: inner, Cache: c, Logger: logger}
}

// keyName is the engine part of the cache key.
func (e *Engine) keyName() string {
	if e.Fingerprint == "" {
		return e.Name
	}
	return e.Name + "@" + e.Fingerprint
}

// Convert returns the cached fragment or renders and stores it.
func (e *Engine) Convert(markdown string) (string, error) {
	if e.Cache != nil {
		html, ok, err := e.Cache.Get(e.keyName(), markdown)
		if err != nil {
			e.Logger.WithError(err).WithField("engine", e.Name).Warn("cache read failed")
		} else if ok {
			e.hits.Add(1)
			return html, nil
		}
	}

	html, err := e.Inner.Convert(markdown)
	if err != nil {
		return "", err
	}
	e.misses.Add(1)

	if e.Cache != nil {
		if err := e.Cache.Put(e.keyName(), markdown, html); err != nil {
			e.Logger.WithError(err).WithField("engine", e.Name).Warn("cache write failed")
		}
	}
	return html, nil
}

// Stats returns hit and miss counts since creation.
func (e *Engine) Stats() (hits, misses int) {
	return int(e.hits.Load()), int(e.misses.Load())
}
