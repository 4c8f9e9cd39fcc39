package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"chirp/internal/config"
	"chirp/internal/core/errs"
	"chirp/internal/core/post"
	"chirp/internal/core/user"
	postPort "chirp/internal/ports/post"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = config.CloseDatabase(db) })
	return db
}

func newUser(username string) *user.User {
	return &user.User{
		ID:                uuid.Must(uuid.NewV4()),
		Username:          username,
		Password:          "hash",
		DisplayName:       username,
		ProfilePictureURL: user.DefaultProfilePictureURL,
		CreatedAt:         time.Now().UTC(),
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepositoryDatabase(openTestDB(t))

	alice, err := repo.Create(ctx, newUser("alice"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.Create(ctx, newUser("alice")); !errors.Is(err, errs.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	found, err := repo.FindByUsername(ctx, "alice")
	if err != nil || found.ID != alice.ID {
		t.Fatalf("find by username: %v %+v", err, found)
	}
	if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	updated, err := repo.UpdateProfilePicture(ctx, alice.ID, "/uploads/a.png")
	if err != nil {
		t.Fatalf("update picture: %v", err)
	}
	if updated.ProfilePictureURL != "/uploads/a.png" {
		t.Fatalf("picture not updated: %s", updated.ProfilePictureURL)
	}
	if _, err := repo.UpdateProfilePicture(ctx, uuid.Must(uuid.NewV4()), "/x"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}

	bob, _ := repo.Create(ctx, newUser("bob"))
	users, err := repo.FindByIDs(ctx, []uuid.UUID{alice.ID, bob.ID})
	if err != nil || len(users) != 2 {
		t.Fatalf("find by ids: %v %d", err, len(users))
	}
}

func TestPostRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepositoryDatabase(openTestDB(t))
	author := uuid.Must(uuid.NewV4())
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, post.NewOriginal(author, "first", base))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, _ := repo.Create(ctx, post.NewOriginal(author, "second", base.Add(time.Second)))
	repost, _ := repo.Create(ctx, post.NewRepost(uuid.Must(uuid.NewV4()), first.ID, base.Add(2*time.Second)))

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 3 || all[0].ID != repost.ID || all[2].ID != first.ID {
		t.Fatalf("unexpected order: %+v", all)
	}
	if !all[0].IsRepost() || *all[0].OriginalPostID != first.ID {
		t.Fatalf("repost reference lost: %+v", all[0])
	}

	mine, err := repo.FindByUserID(ctx, author)
	if err != nil || len(mine) != 2 || mine[0].ID != second.ID {
		t.Fatalf("find by user: %v %+v", err, mine)
	}

	page, err := repo.FindAfter(ctx, postPort.CursorOf(first), 10)
	if err != nil || len(page) != 2 || page[0].ID != second.ID {
		t.Fatalf("find after: %v %+v", err, page)
	}
	page, err = repo.FindAfter(ctx, postPort.Cursor{}, 1)
	if err != nil || len(page) != 1 || page[0].ID != first.ID {
		t.Fatalf("find after zero cursor: %v %+v", err, page)
	}

	for i := 1; i <= 3; i++ {
		likes, err := repo.IncrementLikes(ctx, first.ID)
		if err != nil {
			t.Fatalf("like: %v", err)
		}
		if likes != int64(i) {
			t.Fatalf("expected %d likes, got %d", i, likes)
		}
	}
	if _, err := repo.IncrementLikes(ctx, uuid.Must(uuid.NewV4())); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
