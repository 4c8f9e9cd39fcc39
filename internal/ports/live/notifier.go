package live

import (
	postPort "chirp/internal/ports/post"
)

//go:generate mockgen -destination=mock/notifier.go -package=mock chirp/internal/ports/live Notifier

const (
	EventNewPost    = "newPost"
	EventLikeUpdate = "likeUpdate"
)

// Notifier pushes feed events to every connected viewer. Delivery is best
// effort: calls never block on slow viewers and never report failures.
type Notifier interface {
	NewPost(post *postPort.PostDTO)
	LikeUpdated(like *postPort.LikeDTO)
}
