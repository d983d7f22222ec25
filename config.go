package cms

import "github.com/goliatone/go-site-cms/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown        = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired          = runtimeconfig.ErrStorageDSNRequired
	ErrUploadsProviderUnknown      = runtimeconfig.ErrUploadsProviderUnknown
	ErrUploadsRootRequired         = runtimeconfig.ErrUploadsRootRequired
	ErrUploadsBucketRequired       = runtimeconfig.ErrUploadsBucketRequired
	ErrUploadsMaxBytesInvalid      = runtimeconfig.ErrUploadsMaxBytesInvalid
	ErrHTTPAddrRequired            = runtimeconfig.ErrHTTPAddrRequired
	ErrHTTPShutdownTimeoutNegative = runtimeconfig.ErrHTTPShutdownTimeoutNegative
	ErrRoutesBaseURLRequired       = runtimeconfig.ErrRoutesBaseURLRequired
	ErrMarkdownContentDirRequired  = runtimeconfig.ErrMarkdownContentDirRequired
	ErrCommandsTimeoutInvalid      = runtimeconfig.ErrCommandsTimeoutInvalid
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	StorageConfig        = runtimeconfig.StorageConfig
	UploadsConfig        = runtimeconfig.UploadsConfig
	S3Config             = runtimeconfig.S3Config
	HTTPConfig           = runtimeconfig.HTTPConfig
	RoutesConfig         = runtimeconfig.RoutesConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
