package sqlite

import (
	"context"
	"sync"
	"testing"

	"github.com/Jonniie/memoirly/internal/store"
	"github.com/Jonniie/memoirly/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Bootstrap(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("sqlite bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db)
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}

// An in-memory database is private to the connection that opened it, so the
// pool must stay at one connection or concurrent queries land on empty copies.
func TestOpen_InMemorySharesOneConnection(t *testing.T) {
	db, err := Bootstrap(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("sqlite bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("MaxOpenConnections = %d, want 1", got)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var n int
			if err := db.QueryRowContext(context.Background(),
				`SELECT COUNT(*) FROM media`).Scan(&n); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent query: %v", err)
	}
}
