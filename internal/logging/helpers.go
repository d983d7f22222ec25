package logging

import (
	"maps"

	"github.com/goliatone/go-site-cms/pkg/interfaces"
)

// WithFields attaches fields when the logger implements interfaces.FieldsLogger
// and returns it unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// WithRecord tags a logger with the content type and key of the record being
// operated on. Empty values are skipped.
func WithRecord(logger interfaces.Logger, contentType, key string) interfaces.Logger {
	fields := map[string]any{}
	if contentType != "" {
		fields["content_type"] = contentType
	}
	if key != "" {
		fields["key"] = key
	}
	return WithFields(logger, fields)
}
