package database

import (
	"errors"

	"chirp/internal/core/errs"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(msg)
	}
	return err
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
