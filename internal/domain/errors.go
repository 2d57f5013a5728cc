package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrPostNotFound = errors.New("post not found")

	// ErrStoreUnavailable marks store connectivity failures (unreachable,
	// timed out). Nothing is assumed committed; callers may retry the whole
	// submission.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// PartialIngestionError reports that an ingestion step failed after the post
// row was already written inside the unit. Transactional stores roll the
// unit back, so no partial rows survive, but the caller must still treat the
// submission as failed rather than as a plain validation problem.
type PartialIngestionError struct {
	Step   string
	PostID uuid.UUID
	Err    error
}

func (e *PartialIngestionError) Error() string {
	return fmt.Sprintf("partial ingestion: step %s failed for post %s: %v", e.Step, e.PostID, e.Err)
}

func (e *PartialIngestionError) Unwrap() error {
	return e.Err
}
