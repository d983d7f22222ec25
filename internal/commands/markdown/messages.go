package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importDirectoryMessageType = "sitecms.markdown.import_directory"
	syncDirectoryMessageType   = "sitecms.markdown.sync_directory"
)

// ImportDirectoryCommand imports every Markdown document under Directory.
type ImportDirectoryCommand struct {
	// Directory is relative to the markdown service's base path.
	Directory string `json:"directory"`
	// ContentType overrides the configured target type.
	ContentType string `json:"content_type,omitempty"`
	DryRun      bool   `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(directoryRequired(importDirectoryMessageType))),
	)
}

// SyncDirectoryCommand imports Directory and optionally removes records that
// no longer have a source document.
type SyncDirectoryCommand struct {
	Directory      string `json:"directory"`
	ContentType    string `json:"content_type,omitempty"`
	DryRun         bool   `json:"dry_run,omitempty"`
	DeleteOrphaned bool   `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(directoryRequired(syncDirectoryMessageType))),
	)
}

func directoryRequired(messageType string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError(messageType+".directory_required", "directory is required")
		}
		return nil
	}
}
