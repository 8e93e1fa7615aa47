package errmsg

import (
	"fmt"

	"github.com/pkg/errors"
)

// Wrap annotates kind with a message and, if present, the underlying cause.
// Both kind and cause stay reachable through errors.Is.
func Wrap(kind, cause error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return errors.Wrap(kind, msg)
	}
	return errors.WithStack(fmt.Errorf("%s: %w: %w", msg, kind, cause))
}
