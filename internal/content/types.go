package content

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is a single managed content entry. The sections map holds named
// structured blocks whose shape is described in the sections package.
type Record struct {
	bun.BaseModel `bun:"table:content_records,alias:cr"`

	ID          uuid.UUID      `bun:"id,pk,type:uuid"                json:"id"`
	Seq         int64          `bun:"seq,scanonly"                   json:"-"`
	ContentType string         `bun:"content_type,notnull"           json:"content_type"`
	Slug        string         `bun:"slug,notnull"                   json:"slug"`
	IsActive    bool           `bun:"is_active,notnull"              json:"is_active"`
	Fields      map[string]any `bun:"fields,type:jsonb,notnull"      json:"fields"`
	Sections    map[string]any `bun:"sections,type:jsonb,notnull"    json:"sections"`
	CreatedAt   time.Time      `bun:"created_at,notnull"             json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,notnull"             json:"updated_at"`
}

// StringField returns the named field when it holds a string.
func (r *Record) StringField(name string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	value, _ := r.Fields[name].(string)
	return value
}

// Title is shorthand for the conventional title field.
func (r *Record) Title() string {
	return r.StringField("title")
}

// ListFilter narrows List results.
type ListFilter struct {
	ActiveOnly bool
}

// CreateRequest captures the payload for a brand new record.
//
// ID wins over ExternalID when both are set. When neither is set a new id is
// generated. IsActive defaults to true.
type CreateRequest struct {
	ContentType string
	Slug        string
	ID          uuid.UUID
	ExternalID  string
	IsActive    *bool
	Fields      map[string]any
	Sections    map[string]any
}

// UpsertRequest creates or fully replaces a record. The record is matched by
// ID (or ExternalID) when supplied and by slug otherwise.
type UpsertRequest struct {
	ContentType string
	Slug        string
	ID          uuid.UUID
	ExternalID  string
	IsActive    *bool
	Fields      map[string]any
	Sections    map[string]any
}

// UpdateRequest fully replaces the mutable parts of an existing record.
// Slug is optional; when present it must match the stored slug.
type UpdateRequest struct {
	ContentType string
	ID          uuid.UUID
	Slug        string
	IsActive    *bool
	Fields      map[string]any
	Sections    map[string]any
}

// ChangeSlugRequest renames a record.
type ChangeSlugRequest struct {
	ContentType string
	ID          uuid.UUID
	Slug        string
}

func normalizeType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(contentType))
}

func cloneRecord(src *Record) *Record {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Fields = cloneMap(src.Fields)
	copied.Sections = cloneMap(src.Sections)
	return &copied
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
