package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) *BuntCache {
	t.Helper()
	cache, err := FromMemory(ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestKey(t *testing.T) {
	require.Equal(t, "chart:awareness:", Key("awareness", nil))
	require.Equal(t, "chart:awareness:Tor,Signal,", Key("awareness", []string{"Tor", "Signal"}))

	require.NotEqual(t, Key("c", []string{"A", "B"}), Key("c", []string{"A,B"}))
	require.NotEqual(t, Key("c", nil), Key("c", []string{""}))
	require.NotEqual(t, Key("a", []string{"b"}), Key("a:b", nil))
}

func TestBuntCache_SeparatorsInIDs(t *testing.T) {
	cache := newCache(t, 0)

	require.NoError(t, cache.Set(Entry{Chart: "c", Hidden: []string{"A", "B"}, SVG: "two"}))
	require.NoError(t, cache.Set(Entry{Chart: "c", Hidden: []string{"A,B"}, SVG: "one"}))

	entry, err := cache.Get("c", []string{"A", "B"})
	require.NoError(t, err)
	require.Equal(t, "two", entry.SVG)

	entry, err = cache.Get("c", []string{"A,B"})
	require.NoError(t, err)
	require.Equal(t, "one", entry.SVG)
}

func TestBuntCache_InvalidateLeavesSimilarNames(t *testing.T) {
	cache := newCache(t, 0)

	require.NoError(t, cache.Set(Entry{Chart: "a", SVG: "a"}))
	require.NoError(t, cache.Set(Entry{Chart: "a:b", SVG: "ab"}))
	require.NoError(t, cache.Set(Entry{Chart: "a*", SVG: "star"}))

	removed, err := cache.Invalidate("a")
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	entry, err := cache.Get("a:b", nil)
	require.NoError(t, err)
	require.Equal(t, "ab", entry.SVG)

	removed, err = cache.Invalidate("a*")
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = cache.Get("a:b", nil)
	require.NoError(t, err)
}

func TestBuntCache_SetGet(t *testing.T) {
	cache := newCache(t, 0)

	_, err := cache.Get("awareness", nil)
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(Entry{Chart: "awareness", SVG: "<svg/>"}))
	require.NoError(t, cache.Set(Entry{Chart: "awareness", Hidden: []string{"Tor"}, SVG: "<svg>tor</svg>"}))

	entry, err := cache.Get("awareness", nil)
	require.NoError(t, err)
	require.Equal(t, "<svg/>", entry.SVG)
	require.False(t, entry.RenderedAt.IsZero())

	entry, err = cache.Get("awareness", []string{"Tor"})
	require.NoError(t, err)
	require.Equal(t, "<svg>tor</svg>", entry.SVG)

	hits, misses := cache.Stats()
	require.Equal(t, int64(2), hits)
	require.Equal(t, int64(1), misses)
}

func TestBuntCache_Invalidate(t *testing.T) {
	cache := newCache(t, 0)

	require.NoError(t, cache.Set(Entry{Chart: "awareness", SVG: "a"}))
	require.NoError(t, cache.Set(Entry{Chart: "awareness", Hidden: []string{"Tor"}, SVG: "b"}))
	require.NoError(t, cache.Set(Entry{Chart: "socialmedia", SVG: "c"}))

	removed, err := cache.Invalidate("awareness")
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	_, err = cache.Get("awareness", nil)
	require.ErrorIs(t, err, ErrCacheMiss)

	entry, err := cache.Get("socialmedia", nil)
	require.NoError(t, err)
	require.Equal(t, "c", entry.SVG)
}

func TestBuntCache_Entries(t *testing.T) {
	cache := newCache(t, 0)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Set(Entry{Chart: "b", SVG: "2", RenderedAt: base.Add(time.Hour)}))
	require.NoError(t, cache.Set(Entry{Chart: "a", SVG: "1", RenderedAt: base}))

	entries, err := cache.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "a", entries[0].Chart)
	require.Equal(t, "b", entries[1].Chart)
}

func TestBuntCache_Expiry(t *testing.T) {
	cache := newCache(t, 50*time.Millisecond)
	require.NoError(t, cache.Set(Entry{Chart: "awareness", SVG: "a"}))

	_, err := cache.Get("awareness", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := cache.Get("awareness", nil)
		return err == ErrCacheMiss
	}, 2*time.Second, 20*time.Millisecond)
}
