package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/buntdb"
)

// ErrCacheMiss is returned when no fresh document is stored for a chart state
var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "chart:"

// Entry is one rendered chart document in a given toggle state
type Entry struct {
	Chart      string    `json:"chart"`
	Hidden     []string  `json:"hidden"`
	SVG        string    `json:"svg"`
	RenderedAt time.Time `json:"rendered_at"`
}

// BuntCache keeps rendered documents in BuntDB with a time to live
type BuntCache struct {
	hits   int64
	misses int64
	ttl    time.Duration
	db     *buntdb.DB
}

// FromMemory creates an in-memory cache
func FromMemory(ttl time.Duration) (*BuntCache, error) {
	return NewBuntCache(":memory:", ttl)
}

// NewBuntCache opens a BuntDB cache. A zero ttl keeps entries until invalidated.
func NewBuntCache(sourceFile string, ttl time.Duration) (*BuntCache, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex("rendered_index", keyPrefix+"*", buntdb.IndexJSON("rendered_at"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BuntCache{
		ttl: ttl,
		db:  db,
	}, nil
}

// Key identifies a chart in a toggle state: its name plus the ids of its hidden series.
// Every component is query-escaped, so names holding separators or glob characters
// never collide with another state or chart.
func Key(chart string, hidden []string) string {
	var b strings.Builder
	b.WriteString(chartPrefix(chart))
	for _, id := range hidden {
		b.WriteString(url.QueryEscape(id))
		b.WriteByte(',')
	}
	return b.String()
}

func chartPrefix(chart string) string {
	return keyPrefix + url.QueryEscape(chart) + ":"
}

// Get returns the stored document of a chart state
func (b *BuntCache) Get(chart string, hidden []string) (Entry, error) {
	var entry Entry

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(Key(chart, hidden))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(value), &entry)
	})

	if errors.Is(err, buntdb.ErrNotFound) {
		atomic.AddInt64(&b.misses, 1)
		return Entry{}, ErrCacheMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read cache entry: %w", err)
	}

	atomic.AddInt64(&b.hits, 1)
	return entry, nil
}

// Set stores a document, replacing any previous one for the same state
func (b *BuntCache) Set(entry Entry) error {
	if entry.RenderedAt.IsZero() {
		entry.RenderedAt = time.Now().UTC()
	}
	if entry.Hidden == nil {
		entry.Hidden = []string{}
	}

	content, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	var opts *buntdb.SetOptions
	if b.ttl > 0 {
		opts = &buntdb.SetOptions{Expires: true, TTL: b.ttl}
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(Key(entry.Chart, entry.Hidden), string(content), opts)
		if err != nil {
			return fmt.Errorf("failed to store cache entry: %w", err)
		}
		return nil
	})
}

// Invalidate drops every stored state of a chart and returns how many were removed
func (b *BuntCache) Invalidate(chart string) (int, error) {
	var removed int

	err := b.db.Update(func(tx *buntdb.Tx) error {
		var keys []string
		err := tx.AscendKeys(chartPrefix(chart)+"*", func(key, _ string) bool {
			keys = append(keys, key)
			return true
		})
		if err != nil {
			return err
		}

		for _, key := range keys {
			if _, err := tx.Delete(key); err != nil && !errors.Is(err, buntdb.ErrNotFound) {
				return err
			}
			removed++
		}
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to invalidate %s: %w", chart, err)
	}

	log.WithFields(log.Fields{"chart": chart, "removed": removed}).Debug("cache invalidated")
	return removed, nil
}

// Entries returns every live entry ordered by render time
func (b *BuntCache) Entries() ([]Entry, error) {
	entries := make([]Entry, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("rendered_index", func(key, value string) bool {
			var entry Entry
			if err := json.Unmarshal([]byte(value), &entry); err != nil {
				log.WithField("key", key).Warnf("failed to unmarshal cache entry: %v", err)
				return true
			}
			entries = append(entries, entry)
			return true
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to iterate over cache: %w", err)
	}

	return entries, nil
}

// Stats returns the hit and miss counters
func (b *BuntCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&b.hits), atomic.LoadInt64(&b.misses)
}

// Close closes the database
func (b *BuntCache) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
