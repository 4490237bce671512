package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across services.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrMovieNotFound = errors.New("movie not found")
	ErrWatchNotFound = errors.New("watch not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrNotMember     = errors.New("user is not a member of this group")
	ErrAlreadyMember = errors.New("user is already a member of this group")
	ErrWrongPassword = errors.New("password incorrect")
)

// ValidationError reports a malformed or incomplete action batch. Messages
// are per-group/per-field and surfaced to the user as-is.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NotEligibleError reports a transfer target that no longer qualifies for
// ownership of the group. The caller must re-fetch eligibility and resubmit.
type NotEligibleError struct {
	GroupID uint
	UserID  uint
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("user %d is not eligible to receive ownership of group %d", e.UserID, e.GroupID)
}

// AuthorizationError reports an action on a group the acting user does not
// own. It deliberately carries no group detail.
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string {
	return "not authorized"
}

// ConflictError reports that a concurrent mutation invalidated the batch at
// apply time. Nothing was applied; the caller should re-fetch eligibility
// and retry.
type ConflictError struct {
	Messages []string
}

func (e *ConflictError) Error() string {
	return "conflict: " + strings.Join(e.Messages, "; ")
}
