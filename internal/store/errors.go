package store

import "github.com/plannerapp/planner-server/internal/errors"

// Sentinel errors returned by store operations. These are the shared domain
// sentinels, so callers can match with errors.Is across layers.
var (
	ErrNotFound      = errors.ErrNotFound
	ErrAlreadyExists = errors.ErrAlreadyExists
)
