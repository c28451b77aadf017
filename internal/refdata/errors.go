package refdata

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRole        = errors.New("unknown role")
	ErrUnknownChapter     = errors.New("unknown chapter")
	ErrMissingReference   = errors.New("reference data missing")
	ErrMalformedReference = errors.New("reference data malformed")
)

// ConfigError reports a problem with the reference data needed to evaluate
// a role/chapter pair. Document is the reference file involved, if any.
type ConfigError struct {
	Role     string
	Chapter  string
	Document string
	Err      error
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Document != "" {
		msg += " in " + e.Document
	}
	if e.Role != "" {
		msg += fmt.Sprintf(" (role=%s", e.Role)
		if e.Chapter != "" {
			msg += fmt.Sprintf(", chapter=%s", e.Chapter)
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// UserFacing reports whether the error was caused by request input (an
// unknown role or chapter) rather than by broken deployment data.
func (e *ConfigError) UserFacing() bool {
	return errors.Is(e.Err, ErrUnknownRole) || errors.Is(e.Err, ErrUnknownChapter)
}

// IsConfigError reports whether err wraps a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
