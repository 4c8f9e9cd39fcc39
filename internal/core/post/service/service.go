package postapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chirp/internal/core/errs"
	postEntity "chirp/internal/core/post"
	userEntity "chirp/internal/core/user"
	"chirp/internal/core/validation"
	livePort "chirp/internal/ports/live"
	postPort "chirp/internal/ports/post"
	userPort "chirp/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type CreatePostInput struct {
	Content string `json:"content" validate:"required,max=280"`
}

// PostService creates posts and reposts, applies likes and builds feeds.
// FeedIndex is optional; without it the global feed is ordered by the store.
type PostService struct {
	PostRepository postPort.PostRepository
	UserRepository userPort.UserRepository
	FeedIndex      postPort.FeedIndex
	Notifier       livePort.Notifier
	Logger         *zap.Logger
	Clock          func() time.Time
}

func NewPostService(
	postRepo postPort.PostRepository,
	userRepo userPort.UserRepository,
	feedIndex postPort.FeedIndex,
	notifier livePort.Notifier,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository: postRepo,
		UserRepository: userRepo,
		FeedIndex:      feedIndex,
		Notifier:       notifier,
		Logger:         logger,
		Clock:          func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// CreatePost stores an original post by userID and announces it to live viewers.
func (s *PostService) CreatePost(ctx context.Context, content, userID string) (*postPort.PostDTO, error) {
	in := CreatePostInput{Content: strings.TrimSpace(content)}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.PostRepository.Create(ctx, postEntity.NewOriginal(author.ID, in.Content, s.Clock()))
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Post created", zap.String("postID", created.ID.String()), zap.String("userID", userID))

	return s.publish(ctx, created)
}

// Repost stores a repost of postID by userID. Reposting a repost references
// the post it reposts, so every repost points directly at an original.
func (s *PostService) Repost(ctx context.Context, postID, userID string) (*postPort.PostDTO, error) {
	target, err := s.findPost(ctx, postID, "original post not found")
	if err != nil {
		return nil, err
	}
	if target.IsRepost() {
		target, err = s.PostRepository.FindByID(ctx, target.RootID())
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, errs.NotFound("original post not found")
			}
			return nil, err
		}
	}

	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.PostRepository.Create(ctx, postEntity.NewRepost(author.ID, target.ID, s.Clock()))
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Post reposted",
		zap.String("postID", created.ID.String()),
		zap.String("originalID", target.ID.String()),
		zap.String("userID", userID))

	return s.publish(ctx, created)
}

// LikePost adds one like to exactly the post named by postID, whether it is
// an original or a repost, and announces the new count.
func (s *PostService) LikePost(ctx context.Context, postID string) (*postPort.LikeDTO, error) {
	id, err := uuid.FromString(postID)
	if err != nil {
		return nil, errs.NotFound("post not found")
	}

	likes, err := s.PostRepository.IncrementLikes(ctx, id)
	if err != nil {
		return nil, err
	}

	like := &postPort.LikeDTO{ID: id.String(), Likes: likes}
	s.Notifier.LikeUpdated(like)
	return like, nil
}

// ListPosts returns every post, newest first, resolved.
func (s *PostService) ListPosts(ctx context.Context) ([]*postPort.PostDTO, error) {
	posts, err := s.feedPosts(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, posts)
}

// GetProfile returns the public record of username and the posts they authored.
func (s *PostService) GetProfile(ctx context.Context, username string) (*postPort.ProfileDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, userEntity.NormalizeUsername(username))
	if err != nil {
		return nil, err
	}

	posts, err := s.PostRepository.FindByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolve(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &postPort.ProfileDTO{
		User:  userPort.ToUserDTO(u),
		Posts: resolved,
	}, nil
}

func (s *PostService) publish(ctx context.Context, p *postEntity.Post) (*postPort.PostDTO, error) {
	if s.FeedIndex != nil {
		entry := postPort.IndexEntry{PostID: p.ID.String(), CreatedAt: p.CreatedAt}
		if err := s.FeedIndex.Add(ctx, entry); err != nil {
			// the sync worker indexes it on its next pass
			s.Logger.Warn("⚠️ Could not index post", zap.String("postID", entry.PostID), zap.Error(err))
		}
	}

	resolved, err := s.resolve(ctx, []*postEntity.Post{p})
	if err != nil {
		return nil, err
	}
	s.Notifier.NewPost(resolved[0])
	return resolved[0], nil
}

func (s *PostService) feedPosts(ctx context.Context) ([]*postEntity.Post, error) {
	if s.FeedIndex == nil {
		return s.PostRepository.FindAll(ctx)
	}

	ids, err := s.FeedIndex.Recent(ctx, 0)
	if err != nil {
		s.Logger.Warn("⚠️ Feed index unavailable, reading from store", zap.Error(err))
		return s.PostRepository.FindAll(ctx)
	}

	postIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if pid, err := uuid.FromString(id); err == nil {
			postIDs = append(postIDs, pid)
		}
	}
	found, err := s.PostRepository.FindByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*postEntity.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]*postEntity.Post, 0, len(found))
	for _, id := range postIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// resolve attaches authors and, for reposts, the original post and its author.
// Lookups are batched: one query for originals, one for all authors.
func (s *PostService) resolve(ctx context.Context, posts []*postEntity.Post) ([]*postPort.PostDTO, error) {
	var originalIDs []uuid.UUID
	seenOriginal := make(map[uuid.UUID]bool)
	for _, p := range posts {
		if p.IsRepost() && !seenOriginal[*p.OriginalPostID] {
			seenOriginal[*p.OriginalPostID] = true
			originalIDs = append(originalIDs, *p.OriginalPostID)
		}
	}
	originals, err := s.PostRepository.FindByIDs(ctx, originalIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve originals: %w", err)
	}
	originalByID := make(map[uuid.UUID]*postEntity.Post, len(originals))
	for _, o := range originals {
		originalByID[o.ID] = o
	}

	var authorIDs []uuid.UUID
	seenAuthor := make(map[uuid.UUID]bool)
	for _, group := range [][]*postEntity.Post{posts, originals} {
		for _, p := range group {
			if !seenAuthor[p.UserID] {
				seenAuthor[p.UserID] = true
				authorIDs = append(authorIDs, p.UserID)
			}
		}
	}
	authors, err := s.UserRepository.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	authorByID := make(map[uuid.UUID]*userPort.UserDTO, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = userPort.ToUserDTO(a)
	}

	out := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dto := toDTO(p, authorByID)
		if p.IsRepost() {
			if original, ok := originalByID[*p.OriginalPostID]; ok {
				dto.OriginalPost = toDTO(original, authorByID)
			} else {
				s.Logger.Warn("Repost references a missing post", zap.String("postID", p.ID.String()))
			}
		}
		out = append(out, dto)
	}
	return out, nil
}

func toDTO(p *postEntity.Post, authors map[uuid.UUID]*userPort.UserDTO) *postPort.PostDTO {
	dto := &postPort.PostDTO{
		ID:        p.ID.String(),
		Kind:      p.Kind,
		Likes:     p.Likes,
		Author:    authors[p.UserID],
		CreatedAt: p.CreatedAt,
	}
	if !p.IsRepost() {
		dto.Content = p.Content
	}
	return dto
}

func (s *PostService) findPost(ctx context.Context, postID, notFoundMsg string) (*postEntity.Post, error) {
	id, err := uuid.FromString(postID)
	if err != nil {
		return nil, errs.NotFound(notFoundMsg)
	}
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound(notFoundMsg)
		}
		return nil, err
	}
	return p, nil
}

func (s *PostService) author(ctx context.Context, userID string) (*userEntity.User, error) {
	id, err := uuid.FromString(userID)
	if err != nil {
		return nil, errs.NotFound("user not found")
	}
	return s.UserRepository.FindByID(ctx, id)
}
