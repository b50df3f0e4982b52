package reasoning

import "errors"

// transientError marks a failure that may succeed on retry.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

func transient(err error) error {
	return &transientError{err: err}
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}
