package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-site-cms/internal/content"
	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"

	contentValidationCode  = "CONTENT_VALIDATION_FAILED"
	contentConflictCode    = "CONTENT_CONFLICT"
	contentNotFoundCode    = "CONTENT_NOT_FOUND"
	contentUnavailableCode = "CONTENT_STORAGE_UNAVAILABLE"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

// wrapExecuteError tags store failures with a text code per error kind so
// callers can branch on the code without importing the content package.
func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	switch content.KindOf(err) {
	case content.KindValidation:
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content validation failed").
			WithTextCode(contentValidationCode)
	case content.KindConflict:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "content conflict").
			WithTextCode(contentConflictCode)
	case content.KindNotFound:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "content not found").
			WithTextCode(contentNotFoundCode)
	}
	var storageErr *content.StorageError
	if errors.As(err, &storageErr) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "content storage unavailable").
			WithTextCode(contentUnavailableCode)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}
