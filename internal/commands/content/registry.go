package contentcmd

import (
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-site-cms/internal/commands"
	"github.com/goliatone/go-site-cms/internal/content"
	"github.com/goliatone/go-site-cms/pkg/interfaces"
)

// Handlers groups the content command handlers so they can be built and
// registered together.
type Handlers struct {
	Create     *CreateContentHandler
	Upsert     *UpsertContentHandler
	Update     *UpdateContentHandler
	ChangeSlug *ChangeSlugHandler
	Delete     *DeleteContentHandler
}

// NewHandlers builds every content command handler around service. A zero
// timeout keeps the handler default.
func NewHandlers(service content.Service, logger interfaces.Logger, timeout time.Duration) Handlers {
	return Handlers{
		Create:     NewCreateContentHandler(service, logger, timeoutOption[CreateContentCommand](timeout)...),
		Upsert:     NewUpsertContentHandler(service, logger, timeoutOption[UpsertContentCommand](timeout)...),
		Update:     NewUpdateContentHandler(service, logger, timeoutOption[UpdateContentCommand](timeout)...),
		ChangeSlug: NewChangeSlugHandler(service, logger, timeoutOption[ChangeSlugCommand](timeout)...),
		Delete:     NewDeleteContentHandler(service, logger, timeoutOption[DeleteContentCommand](timeout)...),
	}
}

func timeoutOption[T command.Message](timeout time.Duration) []commands.HandlerOption[T] {
	if timeout <= 0 {
		return nil
	}
	return []commands.HandlerOption[T]{commands.WithTimeout[T](timeout)}
}
