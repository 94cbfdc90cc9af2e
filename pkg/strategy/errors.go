package strategy

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-viewcheck/pkg/schema"
)

// UnsupportedTypeError reports a field whose type has no registered
// constructor. Derivation fails on the first one encountered.
type UnsupportedTypeError struct {
	Path string
	Type schema.FieldType
}

func (e *UnsupportedTypeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("strategy: type %q is not supported", e.Type)
	}
	return fmt.Sprintf("strategy: field %q: type %q is not supported", e.Path, e.Type)
}

// InvalidConstraintError reports constraints a constructor cannot satisfy,
// such as an inverted range or an empty choice set.
type InvalidConstraintError struct {
	Path   string
	Reason string
}

func (e *InvalidConstraintError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("strategy: invalid constraints: %s", e.Reason)
	}
	return fmt.Sprintf("strategy: field %q: invalid constraints: %s", e.Path, e.Reason)
}

func invalidConstraintf(format string, args ...any) error {
	return &InvalidConstraintError{Reason: fmt.Sprintf(format, args...)}
}

// withFieldPath stamps the dotted path of the failing field onto a typed
// error raised inside a constructor. Errors that already carry a partial
// path, such as a table column, are prefixed instead.
func withFieldPath(err error, path string) error {
	if err == nil || path == "" {
		return err
	}
	var unsupported *UnsupportedTypeError
	if errors.As(err, &unsupported) {
		unsupported.Path = joinFieldPath(path, unsupported.Path)
		return err
	}
	var invalid *InvalidConstraintError
	if errors.As(err, &invalid) {
		invalid.Path = joinFieldPath(path, invalid.Path)
		return err
	}
	return fmt.Errorf("strategy: field %q: %w", path, err)
}

func joinFieldPath(prefix, suffix string) string {
	switch {
	case prefix == "":
		return suffix
	case suffix == "":
		return prefix
	default:
		return prefix + "." + suffix
	}
}
