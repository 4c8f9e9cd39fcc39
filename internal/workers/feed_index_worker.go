package workers

import (
	"context"
	"time"

	postPort "chirp/internal/ports/post"

	"go.uber.org/zap"
)

// DefaultLookback is how far behind its cursor each pass starts again.
// A post can commit after a newer one was already indexed; re-adding is harmless.
const DefaultLookback = time.Minute

// FeedIndexWorker copies posts from the content store into the feed index.
// The first pass walks the whole store; later passes resume Lookback before
// the last post seen, which also picks up posts whose inline indexing failed.
type FeedIndexWorker struct {
	PostRepo  postPort.PostRepository
	FeedIndex postPort.FeedIndex
	BatchSize int // posts per FindAfter page and per ZADD
	Interval  time.Duration
	Lookback  time.Duration
	Logger    *zap.Logger

	cursor postPort.Cursor
}

func NewFeedIndexWorker(
	postRepo postPort.PostRepository,
	feedIndex postPort.FeedIndex,
	batchSize int,
	interval time.Duration,
	logger *zap.Logger,
) *FeedIndexWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &FeedIndexWorker{
		PostRepo:  postRepo,
		FeedIndex: feedIndex,
		BatchSize: batchSize,
		Interval:  interval,
		Lookback:  DefaultLookback,
		Logger:    logger,
	}
}

// Run syncs every Interval until ctx is done. Callers run the first Sync
// themselves before serving reads from the index.
func (w *FeedIndexWorker) Run(ctx context.Context) {
	w.Logger.Info("🚀 FeedIndexWorker started", zap.Duration("interval", w.Interval))

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 FeedIndexWorker stopped")
			return
		case <-ticker.C:
		}

		if n, err := w.Sync(ctx); err != nil {
			w.Logger.Error("❌ Feed index sync failed", zap.Error(err))
		} else if n > 0 {
			w.Logger.Debug("✅ Feed index synced", zap.Int("count", n))
		}
	}
}

// Sync indexes every post from Lookback before the worker's cursor onwards
// and returns how many entries it wrote.
func (w *FeedIndexWorker) Sync(ctx context.Context) (int, error) {
	from := w.cursor
	if w.Lookback > 0 && !from.CreatedAt.IsZero() {
		from = postPort.Cursor{CreatedAt: from.CreatedAt.Add(-w.Lookback)}
	}

	total := 0
	for {
		posts, err := w.PostRepo.FindAfter(ctx, from, w.BatchSize)
		if err != nil {
			return total, err
		}
		if len(posts) == 0 {
			return total, nil
		}

		entries := make([]postPort.IndexEntry, 0, len(posts))
		for _, p := range posts {
			entries = append(entries, postPort.IndexEntry{PostID: p.ID.String(), CreatedAt: p.CreatedAt})
		}
		if err := w.FeedIndex.Add(ctx, entries...); err != nil {
			return total, err
		}

		total += len(posts)
		from = postPort.CursorOf(posts[len(posts)-1])
		w.cursor = from
		w.Logger.Debug("📦 Indexed batch", zap.Int("count", len(posts)), zap.String("lastID", from.ID.String()))

		if len(posts) < w.BatchSize {
			return total, nil
		}
	}
}
