package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yasmngoncalves/PolarisApp/internal"
	"github.com/yasmngoncalves/PolarisApp/internal/cache"
	"github.com/yasmngoncalves/PolarisApp/internal/storage"
)

var brt = time.FixedZone("BRT", -3*3600)

// countingCache is an in-memory versioned DashboardCache that records invalidations.
type countingCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	versions    map[string]int64
	invalidated int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: make(map[string][]byte), versions: make(map[string]int64)}
}

func (c *countingCache) Get(_ context.Context, userID, key string, dst interface{}) (bool, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.versions[userID]
	raw, ok := c.entries[cache.EntryKey("test", userID, v, key)]
	if !ok {
		return false, v, nil
	}
	return true, v, json.Unmarshal(raw, dst)
}

func (c *countingCache) Set(_ context.Context, userID, key string, version int64, v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[cache.EntryKey("test", userID, version, key)] = raw
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[userID]++
	c.invalidated++
	return nil
}

var _ cache.DashboardCache = (*countingCache)(nil)

func setupJournal(t *testing.T) (*Journal, *storage.FileStorage, *countingCache) {
	t.Helper()
	store, err := storage.NewFileStorage(t.TempDir(), internal.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	c := newCountingCache()
	return NewJournal(store, c, brt, internal.NopLogger()), store, c
}

// at returns hour:00 local time on day.
func at(day string, hour int) time.Time {
	t, err := time.ParseInLocation(internal.DayLayout, day, brt)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func ptr[T any](v T) *T { return &v }
