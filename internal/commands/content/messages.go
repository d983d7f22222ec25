package contentcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/google/uuid"
)

const (
	createMessageType     = "sitecms.content.create"
	upsertMessageType     = "sitecms.content.upsert"
	updateMessageType     = "sitecms.content.update"
	changeSlugMessageType = "sitecms.content.change_slug"
	deleteMessageType     = "sitecms.content.delete"
)

// Output receives the record produced by a write command. Commands are passed
// by value so callers that need the result share a pointer to an Output.
type Output struct {
	Record *content.Record
}

func (o *Output) set(record *content.Record) {
	if o != nil {
		o.Record = record
	}
}

// CreateContentCommand inserts a new record.
type CreateContentCommand struct {
	ContentType string         `json:"content_type"`
	Slug        string         `json:"slug"`
	ID          uuid.UUID      `json:"id,omitempty"`
	ExternalID  string         `json:"external_id,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
	Fields      map[string]any `json:"fields"`
	Sections    map[string]any `json:"sections,omitempty"`
	Output      *Output        `json:"-"`
}

// Type implements command.Message.
func (CreateContentCommand) Type() string { return createMessageType }

// Validate checks the envelope only. Field and section rules belong to the
// content type and are enforced by the content service.
func (cmd CreateContentCommand) Validate() error {
	return validateEnvelope(createMessageType, cmd.ContentType, map[string]error{
		"slug": requiredString(createMessageType, "slug", cmd.Slug),
	})
}

// UpsertContentCommand creates a record or fully replaces the existing one.
type UpsertContentCommand struct {
	ContentType string         `json:"content_type"`
	Slug        string         `json:"slug"`
	ID          uuid.UUID      `json:"id,omitempty"`
	ExternalID  string         `json:"external_id,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
	Fields      map[string]any `json:"fields"`
	Sections    map[string]any `json:"sections,omitempty"`
	Output      *Output        `json:"-"`
}

// Type implements command.Message.
func (UpsertContentCommand) Type() string { return upsertMessageType }

func (cmd UpsertContentCommand) Validate() error {
	return validateEnvelope(upsertMessageType, cmd.ContentType, map[string]error{
		"slug": requiredString(upsertMessageType, "slug", cmd.Slug),
	})
}

// UpdateContentCommand replaces the fields and sections of an existing record.
type UpdateContentCommand struct {
	ContentType string         `json:"content_type"`
	ID          uuid.UUID      `json:"id"`
	Slug        string         `json:"slug,omitempty"`
	IsActive    *bool          `json:"is_active,omitempty"`
	Fields      map[string]any `json:"fields"`
	Sections    map[string]any `json:"sections,omitempty"`
	Output      *Output        `json:"-"`
}

// Type implements command.Message.
func (UpdateContentCommand) Type() string { return updateMessageType }

func (cmd UpdateContentCommand) Validate() error {
	return validateEnvelope(updateMessageType, cmd.ContentType, map[string]error{
		"id": requiredID(updateMessageType, cmd.ID),
	})
}

// ChangeSlugCommand renames an existing record.
type ChangeSlugCommand struct {
	ContentType string    `json:"content_type"`
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Output      *Output   `json:"-"`
}

// Type implements command.Message.
func (ChangeSlugCommand) Type() string { return changeSlugMessageType }

func (cmd ChangeSlugCommand) Validate() error {
	return validateEnvelope(changeSlugMessageType, cmd.ContentType, map[string]error{
		"id":   requiredID(changeSlugMessageType, cmd.ID),
		"slug": requiredString(changeSlugMessageType, "slug", cmd.Slug),
	})
}

// DeleteContentCommand removes a record addressed by id or slug.
type DeleteContentCommand struct {
	ContentType string `json:"content_type"`
	Key         string `json:"key"`
}

// Type implements command.Message.
func (DeleteContentCommand) Type() string { return deleteMessageType }

func (cmd DeleteContentCommand) Validate() error {
	return validateEnvelope(deleteMessageType, cmd.ContentType, map[string]error{
		"key": requiredString(deleteMessageType, "key", cmd.Key),
	})
}

func validateEnvelope(messageType, contentType string, checks map[string]error) error {
	errs := validation.Errors{}
	if err := requiredString(messageType, "content_type", contentType); err != nil {
		errs["content_type"] = err
	}
	for key, err := range checks {
		if err != nil {
			errs[key] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func requiredString(messageType, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return validation.NewError(messageType+"."+field+"_required", field+" is required")
	}
	return nil
}

func requiredID(messageType string, id uuid.UUID) error {
	if id == uuid.Nil {
		return validation.NewError(messageType+".id_required", "id is required")
	}
	return nil
}
