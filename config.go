package press

import "github.com/goliatone/go-press/internal/runtimeconfig"

var (
	ErrContentDirRequired         = runtimeconfig.ErrContentDirRequired
	ErrAuditFailOnInvalid         = runtimeconfig.ErrAuditFailOnInvalid
	ErrAuditCheckUnknown          = runtimeconfig.ErrAuditCheckUnknown
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid    = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrStorageDriverUnknown       = runtimeconfig.ErrStorageDriverUnknown
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrCacheTTLInvalid            = runtimeconfig.ErrCacheTTLInvalid
)

type (
	Config          = runtimeconfig.Config
	ContentConfig   = runtimeconfig.ContentConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	AuditConfig     = runtimeconfig.AuditConfig
	SiteConfig      = runtimeconfig.SiteConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	RoutesConfig    = runtimeconfig.RoutesConfig
	Features        = runtimeconfig.Features
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
