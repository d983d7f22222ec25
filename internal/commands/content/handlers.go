package contentcmd

import (
	"context"

	"github.com/goliatone/go-site-cms/internal/commands"
	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	createOperation     = "content.create"
	upsertOperation     = "content.upsert"
	updateOperation     = "content.update"
	changeSlugOperation = "content.change_slug"
	deleteOperation     = "content.delete"
)

var (
	_ command.Commander[CreateContentCommand] = (*CreateContentHandler)(nil)
	_ command.Commander[UpsertContentCommand] = (*UpsertContentHandler)(nil)
	_ command.Commander[UpdateContentCommand] = (*UpdateContentHandler)(nil)
	_ command.Commander[ChangeSlugCommand]    = (*ChangeSlugHandler)(nil)
	_ command.Commander[DeleteContentCommand] = (*DeleteContentHandler)(nil)
)

// CreateContentHandler creates records through the content service.
type CreateContentHandler struct {
	inner *commands.Handler[CreateContentCommand]
}

func NewCreateContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CreateContentCommand]) *CreateContentHandler {
	exec := func(ctx context.Context, msg CreateContentCommand) error {
		record, err := service.Create(ctx, content.CreateRequest{
			ContentType: msg.ContentType,
			Slug:        msg.Slug,
			ID:          msg.ID,
			ExternalID:  msg.ExternalID,
			IsActive:    msg.IsActive,
			Fields:      msg.Fields,
			Sections:    msg.Sections,
		})
		if err != nil {
			return err
		}
		msg.Output.set(record)
		return nil
	}

	handlerOpts := []commands.HandlerOption[CreateContentCommand]{
		commands.WithLogger[CreateContentCommand](logger),
		commands.WithOperation[CreateContentCommand](createOperation),
		commands.WithMessageFields(func(msg CreateContentCommand) map[string]any {
			return recordFields(msg.ContentType, msg.Slug)
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreateContentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CreateContentCommand].
func (h *CreateContentHandler) Execute(ctx context.Context, msg CreateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpsertContentHandler creates or replaces records through the content service.
type UpsertContentHandler struct {
	inner *commands.Handler[UpsertContentCommand]
}

func NewUpsertContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpsertContentCommand]) *UpsertContentHandler {
	exec := func(ctx context.Context, msg UpsertContentCommand) error {
		record, err := service.Upsert(ctx, content.UpsertRequest{
			ContentType: msg.ContentType,
			Slug:        msg.Slug,
			ID:          msg.ID,
			ExternalID:  msg.ExternalID,
			IsActive:    msg.IsActive,
			Fields:      msg.Fields,
			Sections:    msg.Sections,
		})
		if err != nil {
			return err
		}
		msg.Output.set(record)
		return nil
	}

	handlerOpts := []commands.HandlerOption[UpsertContentCommand]{
		commands.WithLogger[UpsertContentCommand](logger),
		commands.WithOperation[UpsertContentCommand](upsertOperation),
		commands.WithMessageFields(func(msg UpsertContentCommand) map[string]any {
			return recordFields(msg.ContentType, msg.Slug)
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpsertContentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[UpsertContentCommand].
func (h *UpsertContentHandler) Execute(ctx context.Context, msg UpsertContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UpdateContentHandler replaces existing records through the content service.
type UpdateContentHandler struct {
	inner *commands.Handler[UpdateContentCommand]
}

func NewUpdateContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UpdateContentCommand]) *UpdateContentHandler {
	exec := func(ctx context.Context, msg UpdateContentCommand) error {
		record, err := service.Update(ctx, content.UpdateRequest{
			ContentType: msg.ContentType,
			ID:          msg.ID,
			Slug:        msg.Slug,
			IsActive:    msg.IsActive,
			Fields:      msg.Fields,
			Sections:    msg.Sections,
		})
		if err != nil {
			return err
		}
		msg.Output.set(record)
		return nil
	}

	handlerOpts := []commands.HandlerOption[UpdateContentCommand]{
		commands.WithLogger[UpdateContentCommand](logger),
		commands.WithOperation[UpdateContentCommand](updateOperation),
		commands.WithMessageFields(func(msg UpdateContentCommand) map[string]any {
			return recordFields(msg.ContentType, msg.ID.String())
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpdateContentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[UpdateContentCommand].
func (h *UpdateContentHandler) Execute(ctx context.Context, msg UpdateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ChangeSlugHandler renames records through the content service.
type ChangeSlugHandler struct {
	inner *commands.Handler[ChangeSlugCommand]
}

func NewChangeSlugHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ChangeSlugCommand]) *ChangeSlugHandler {
	exec := func(ctx context.Context, msg ChangeSlugCommand) error {
		record, err := service.ChangeSlug(ctx, content.ChangeSlugRequest{
			ContentType: msg.ContentType,
			ID:          msg.ID,
			Slug:        msg.Slug,
		})
		if err != nil {
			return err
		}
		msg.Output.set(record)
		return nil
	}

	handlerOpts := []commands.HandlerOption[ChangeSlugCommand]{
		commands.WithLogger[ChangeSlugCommand](logger),
		commands.WithOperation[ChangeSlugCommand](changeSlugOperation),
		commands.WithMessageFields(func(msg ChangeSlugCommand) map[string]any {
			fields := recordFields(msg.ContentType, msg.ID.String())
			fields["slug"] = msg.Slug
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ChangeSlugHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ChangeSlugCommand].
func (h *ChangeSlugHandler) Execute(ctx context.Context, msg ChangeSlugCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteContentHandler removes records through the content service.
type DeleteContentHandler struct {
	inner *commands.Handler[DeleteContentCommand]
}

func NewDeleteContentHandler(service content.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteContentCommand]) *DeleteContentHandler {
	exec := func(ctx context.Context, msg DeleteContentCommand) error {
		return service.Delete(ctx, msg.ContentType, msg.Key)
	}

	handlerOpts := []commands.HandlerOption[DeleteContentCommand]{
		commands.WithLogger[DeleteContentCommand](logger),
		commands.WithOperation[DeleteContentCommand](deleteOperation),
		commands.WithMessageFields(func(msg DeleteContentCommand) map[string]any {
			return recordFields(msg.ContentType, msg.Key)
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteContentHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DeleteContentCommand].
func (h *DeleteContentHandler) Execute(ctx context.Context, msg DeleteContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

func recordFields(contentType, key string) map[string]any {
	return map[string]any{
		"content_type": contentType,
		"key":          key,
	}
}
