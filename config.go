package mdxcraft

import "github.com/goliatone/go-mdxcraft/internal/runtimeconfig"

var (
	ErrCacheSizeInvalid         = runtimeconfig.ErrCacheSizeInvalid
	ErrCacheTTLInvalid          = runtimeconfig.ErrCacheTTLInvalid
	ErrPipelinePresetUnknown    = runtimeconfig.ErrPipelinePresetUnknown
	ErrCompileTimeoutInvalid    = runtimeconfig.ErrCompileTimeoutInvalid
	ErrPrecompileWorkersInvalid = runtimeconfig.ErrPrecompileWorkersInvalid
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	CacheConfig    = runtimeconfig.CacheConfig
	PipelineConfig = runtimeconfig.PipelineConfig
	CompilerConfig = runtimeconfig.CompilerConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
