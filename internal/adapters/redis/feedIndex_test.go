package redis

import (
	"context"
	"testing"
	"time"

	postPort "chirp/internal/ports/post"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap/zaptest"
)

func newTestIndex(t *testing.T) (*FeedIndexRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFeedIndexRedis(client, zaptest.NewLogger(t)), mr
}

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func entry(id string, offset time.Duration) postPort.IndexEntry {
	return postPort.IndexEntry{PostID: id, CreatedAt: base.Add(offset)}
}

func TestFeedIndexRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	index, _ := newTestIndex(t)

	if err := index.Add(ctx, entry("b", 2*time.Second), entry("a", time.Second)); err != nil {
		t.Fatal(err)
	}
	if err := index.Add(ctx, entry("c", 3*time.Second)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		limit int64
		want  []string
	}{
		{0, []string{"c", "b", "a"}},
		{-1, []string{"c", "b", "a"}},
		{2, []string{"c", "b"}},
		{10, []string{"c", "b", "a"}},
	}
	for _, tt := range tests {
		got, err := index.Recent(ctx, tt.limit)
		if err != nil {
			t.Fatal(err)
		}
		if !equal(got, tt.want) {
			t.Fatalf("limit %d: expected %v, got %v", tt.limit, tt.want, got)
		}
	}
}

func TestFeedIndexAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	index, mr := newTestIndex(t)

	for i := 0; i < 3; i++ {
		if err := index.Add(ctx, entry("a", time.Second)); err != nil {
			t.Fatal(err)
		}
	}
	if err := index.Add(ctx); err != nil {
		t.Fatalf("empty add: %v", err)
	}

	members, err := mr.ZMembers(GlobalFeedKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 1 {
		t.Fatalf("expected one member, have %v", members)
	}
	score, err := mr.ZScore(GlobalFeedKey, "a")
	if err != nil || score != float64(base.Add(time.Second).UnixMilli()) {
		t.Fatalf("unexpected score %v %v", score, err)
	}
}

// The store breaks created_at ties by id descending; the index must agree.
func TestFeedIndexSameMillisecondMatchesStoreOrder(t *testing.T) {
	ctx := context.Background()
	index, _ := newTestIndex(t)

	low := "1b4e28ba-2fa1-4d2a-8b3c-000000000001"
	high := "9f0e28ba-2fa1-4d2a-8b3c-000000000002"
	if err := index.Add(ctx, entry(low, 0), entry(high, 0), entry("older", -time.Millisecond)); err != nil {
		t.Fatal(err)
	}

	got, err := index.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{high, low, "older"}; !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFeedIndexUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	index := NewFeedIndexRedis(client, zaptest.NewLogger(t))
	mr.Close()

	if err := index.Add(ctx, entry("a", 0)); err == nil {
		t.Fatal("expected an error from Add")
	}
	if _, err := index.Recent(ctx, 0); err == nil {
		t.Fatal("expected an error from Recent")
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
