package patient

import (
	"context"
	"errors"
)

// ErrNotFound reports a lookup miss. A miss is a data event, not a policy
// violation; the engine maps it to a not-found denial without trust impact.
var ErrNotFound = errors.New("patient not found")

// Directory resolves patients by name. Implemented by the records
// collaborator; the in-memory directory below serves dev and tests.
type Directory interface {
	FindByName(ctx context.Context, name string) (*Record, error)
}
