package service

import (
	"sync"
	"testing"
	"time"

	"github.com/pageza/foodtrove/internal/cache"
	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/storage"
	"github.com/pageza/foodtrove/internal/testhelpers"
	"gorm.io/gorm"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	api    *testhelpers.FakeAPI
	client *client.Client
	db     *gorm.DB
	store  *storage.Store
	clock  *testClock
	data   *DataService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := testhelpers.NewFakeAPI(t)
	c := client.New(api.URL(), 5*time.Second)
	db := testhelpers.SetupSQLite(t)
	clock := &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	return &testEnv{
		api:    api,
		client: c,
		db:     db,
		store:  storage.New(db),
		clock:  clock,
		data:   NewDataService(c, c, cache.NewMemoryStore(), 5*time.Minute).WithClock(clock.Now),
	}
}
