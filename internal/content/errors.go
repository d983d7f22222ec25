package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrorKind classifies every failure the store reports.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindConflict           ErrorKind = "conflict"
	KindNotFound           ErrorKind = "not_found"
	KindStorageUnavailable ErrorKind = "storage_unavailable"
)

var (
	ErrValidation         = errors.New("content: validation failed")
	ErrConflict           = errors.New("content: slug already exists")
	ErrNotFound           = errors.New("content: record not found")
	ErrStorageUnavailable = errors.New("content: storage unavailable")
)

// ValidationError reports malformed input. Fields maps input paths such as
// "slug" or "sections.heroSection" to their failures.
type ValidationError struct {
	Message string
	Fields  validation.Errors
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "invalid input"
	}
	if len(e.Fields) == 0 {
		return "content: " + msg
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, e.Fields[key]))
	}
	return fmt.Sprintf("content: %s (%s)", msg, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FieldMessages flattens Fields into plain strings.
func (e *ValidationError) FieldMessages() map[string]string {
	if len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for key, err := range e.Fields {
		if err != nil {
			out[key] = err.Error()
		}
	}
	return out
}

func invalid(message string, fields validation.Errors) error {
	if len(fields) == 0 {
		fields = nil
	}
	return &ValidationError{Message: message, Fields: fields}
}

func invalidField(field, code, message string) error {
	return invalid(message, validation.Errors{field: validation.NewError(code, message)})
}

// ConflictError reports a (content type, slug) pair that is already taken.
type ConflictError struct {
	ContentType string
	Slug        string
	Cause       error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("content: %s with slug %q already exists", e.ContentType, e.Slug)
}

func (e *ConflictError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConflict}
	}
	return []error{ErrConflict, e.Cause}
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StorageError wraps failures of the backing store that are not attributable
// to the caller's input.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("content: storage %s failed", e.Op)
	}
	return fmt.Sprintf("content: storage %s failed: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrStorageUnavailable}
	}
	return []error{ErrStorageUnavailable, e.Cause}
}

// KindOf reports the kind of err. Unknown errors are treated as storage
// failures; nil yields the empty kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindStorageUnavailable
	}
}

func notFound(contentType, key string) error {
	return &NotFoundError{Resource: contentType, Key: key}
}
