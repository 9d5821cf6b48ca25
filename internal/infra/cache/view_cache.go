package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/zeebo/xxh3"
)

const (
	viewKeyPrefix       = "fl:view:"
	viewGenerationInfix = ":gen"
)

// Memcache is the subset of *memcache.Client the view cache uses.
type Memcache interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Add(item *memcache.Item) error
	Increment(key string, delta uint64) (uint64, error)
}

// ViewCache keeps rendered view payloads in memcached, keyed by logical view
// path and a per-path generation. Invalidation advances the generation, so a
// render filled from data read before the invalidation is stored under a key
// no later read asks for.
type ViewCache struct {
	mc  Memcache
	ttl time.Duration
	now func() time.Time
}

func NewViewCache(mc Memcache, ttl time.Duration) *ViewCache {
	return &ViewCache{mc: mc, ttl: ttl, now: time.Now}
}

// ViewKey is the hashed base key of a view path. View paths may contain
// spaces, which memcached keys may not.
func ViewKey(path string) string {
	return viewKeyPrefix + strconv.FormatUint(xxh3.HashString(path), 16)
}

func generationKey(path string) string {
	return ViewKey(path) + viewGenerationInfix
}

func renderKey(path, generation string) string {
	return ViewKey(path) + ":" + generation
}

// seed starts a generation counter. Wall-clock nanoseconds keep a counter
// evicted by memcached from restarting at a value an old render used.
func (c *ViewCache) seed() string {
	return strconv.FormatUint(uint64(c.now().UnixNano()), 10)
}

func (c *ViewCache) generation(path string) (string, error) {
	key := generationKey(path)

	item, err := c.mc.Get(key)
	if err == nil {
		return string(item.Value), nil
	}
	if !errors.Is(err, memcache.ErrCacheMiss) {
		return "", err
	}

	seed := c.seed()
	err = c.mc.Add(&memcache.Item{Key: key, Value: []byte(seed)})
	if err == nil {
		return seed, nil
	}
	if !errors.Is(err, memcache.ErrNotStored) {
		return "", err
	}

	// lost the race to another seeder
	item, err = c.mc.Get(key)
	if err != nil {
		return "", err
	}
	return string(item.Value), nil
}

// Delete makes the current render of path unreachable by advancing its
// generation. A path that was never cached is not an error.
func (c *ViewCache) Delete(ctx context.Context, path string) error {
	key := generationKey(path)

	_, err := c.mc.Increment(key, 1)
	if err == nil {
		return nil
	}
	if !errors.Is(err, memcache.ErrCacheMiss) {
		return err
	}

	err = c.mc.Add(&memcache.Item{Key: key, Value: []byte(c.seed())})
	if errors.Is(err, memcache.ErrNotStored) {
		_, err = c.mc.Increment(key, 1)
	}
	return err
}

// Fetch returns the cached render of path, rendering and storing it with
// fill on a miss. Cache faults degrade to rendering on every call.
func (c *ViewCache) Fetch(ctx context.Context, path string, fill func() ([]byte, error)) ([]byte, error) {
	generation, err := c.generation(path)
	if err != nil {
		c.warn(ctx, "view cache generation read failed", path, err)
		return fill()
	}
	key := renderKey(path, generation)

	item, err := c.mc.Get(key)
	switch {
	case err == nil:
		return item.Value, nil
	case !errors.Is(err, memcache.ErrCacheMiss):
		c.warn(ctx, "view cache read failed", path, err)
	}

	value, err := fill()
	if err != nil {
		return nil, err
	}

	err = c.mc.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(c.ttl.Seconds()),
	})
	if err != nil {
		c.warn(ctx, "view cache write failed", path, err)
	}
	return value, nil
}

func (c *ViewCache) warn(ctx context.Context, msg, path string, err error) {
	slog.WarnContext(
		ctx, msg,
		slog.String("path", path),
		slog.String("error", err.Error()),
		slog.String("module", "viewcache"),
	)
}
