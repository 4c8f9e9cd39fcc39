package post

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
)

func TestRootID(t *testing.T) {
	author := uuid.Must(uuid.NewV4())
	now := time.Now()

	original := NewOriginal(author, "hello", now)
	if original.IsRepost() {
		t.Fatal("original reported as repost")
	}
	if original.RootID() != original.ID {
		t.Fatal("original should be its own root")
	}

	repost := NewRepost(author, original.ID, now)
	if !repost.IsRepost() {
		t.Fatal("repost not reported as repost")
	}
	if repost.Content != "" {
		t.Fatal("repost must not carry content")
	}
	if repost.RootID() != original.ID {
		t.Fatalf("expected root %s, got %s", original.ID, repost.RootID())
	}
}
