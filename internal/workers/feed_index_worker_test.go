package workers

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	dbadapter "chirp/internal/adapters/database"
	"chirp/internal/config"
	"chirp/internal/core/post"
	postPort "chirp/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.uber.org/zap/zaptest"
)

type recordingIndex struct {
	mu      sync.Mutex
	ids     map[string]time.Time
	batches int
	fail    bool
}

func (r *recordingIndex) Add(_ context.Context, entries ...postPort.IndexEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("index down")
	}
	if r.ids == nil {
		r.ids = make(map[string]time.Time)
	}
	for _, e := range entries {
		r.ids[e.PostID] = e.CreatedAt
	}
	r.batches++
	return nil
}

func (r *recordingIndex) Recent(context.Context, int64) ([]string, error) { return nil, nil }

func (r *recordingIndex) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

func newPostRepo(t *testing.T) *dbadapter.PostRepositoryDatabase {
	t.Helper()
	db, err := config.OpenDatabase(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := dbadapter.Migrate(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = config.CloseDatabase(db) })
	return dbadapter.NewPostRepositoryDatabase(db)
}

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T, repo *dbadapter.PostRepositoryDatabase, from, n int) {
	t.Helper()
	author := uuid.Must(uuid.NewV4())
	for i := from; i < from+n; i++ {
		if _, err := repo.Create(context.Background(), post.NewOriginal(author, "post", base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFeedIndexWorkerSync(t *testing.T) {
	ctx := context.Background()
	repo := newPostRepo(t)
	index := &recordingIndex{}
	w := NewFeedIndexWorker(repo, index, 3, time.Minute, zaptest.NewLogger(t))
	w.Lookback = 0

	seed(t, repo, 0, 7)
	n, err := w.Sync(ctx)
	if err != nil || n != 7 {
		t.Fatalf("first sync: %d %v", n, err)
	}
	if index.size() != 7 || index.batches != 3 {
		t.Fatalf("expected 7 posts in 3 batches, have %d in %d", index.size(), index.batches)
	}

	n, err = w.Sync(ctx)
	if err != nil || n != 0 {
		t.Fatalf("idle sync should add nothing: %d %v", n, err)
	}

	seed(t, repo, 7, 2)
	n, err = w.Sync(ctx)
	if err != nil || n != 2 || index.size() != 9 {
		t.Fatalf("incremental sync: %d %v (index %d)", n, err, index.size())
	}
}

func TestFeedIndexWorkerPicksUpLateCommits(t *testing.T) {
	ctx := context.Background()
	repo := newPostRepo(t)
	index := &recordingIndex{}
	w := NewFeedIndexWorker(repo, index, 2, time.Minute, zaptest.NewLogger(t))

	seed(t, repo, 0, 5)
	if _, err := w.Sync(ctx); err != nil {
		t.Fatal(err)
	}

	// stamped before the newest indexed post but committed after the pass
	late := post.NewOriginal(uuid.Must(uuid.NewV4()), "late", base.Add(2500*time.Millisecond))
	if _, err := repo.Create(ctx, late); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Sync(ctx); err != nil {
		t.Fatal(err)
	}
	if index.size() != 6 {
		t.Fatalf("expected the late post to be indexed, have %d", index.size())
	}
	if _, ok := index.ids[late.ID.String()]; !ok {
		t.Fatal("late post missing from the index")
	}
}

func TestFeedIndexWorkerRetriesAfterFailure(t *testing.T) {
	ctx := context.Background()
	repo := newPostRepo(t)
	index := &recordingIndex{fail: true}
	w := NewFeedIndexWorker(repo, index, 10, time.Minute, zaptest.NewLogger(t))

	seed(t, repo, 0, 4)
	if _, err := w.Sync(ctx); err == nil {
		t.Fatal("expected the index error")
	}

	index.fail = false
	n, err := w.Sync(ctx)
	if err != nil || n != 4 {
		t.Fatalf("retry should index everything: %d %v", n, err)
	}
}

func TestFeedIndexWorkerRunStops(t *testing.T) {
	repo := newPostRepo(t)
	index := &recordingIndex{}
	seed(t, repo, 0, 2)
	w := NewFeedIndexWorker(repo, index, 10, 10*time.Millisecond, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for index.size() != 2 {
		if time.Now().After(deadline) {
			t.Fatal("worker never indexed the seeded posts")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
