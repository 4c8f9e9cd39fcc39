package storage

import "context"

// AvatarStore persists uploaded profile pictures.
type AvatarStore interface {
	// Save writes data under name and returns the public URL it is served from.
	Save(ctx context.Context, name string, data []byte) (string, error)
}
