package dataset

import "errors"

// LoadError reports that a source could not be read: it is missing,
// malformed, or lacks required columns or properties.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return "load " + e.Source + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is or wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
