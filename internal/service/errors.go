package service

import (
	"errors"

	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

// FromRepository converts repository sentinels into application errors.
// Application errors already in err's chain are returned unchanged.
func FromRepository(resource, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource, err)
	case errors.Is(err, repository.ErrConflict):
		return apperrors.Conflict(resource+" already exists", err)
	case errors.Is(err, repository.ErrWardUnavailable):
		return apperrors.Conflict("ward is already occupied", err)
	case errors.Is(err, repository.ErrWardMismatch):
		return apperrors.BadRequest("ward does not belong to the appointment", err)
	default:
		return apperrors.NewInternal("failed to "+op, err)
	}
}
