package mdxcmd

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-mdxcraft/internal/commands"
	"github.com/goliatone/go-mdxcraft/internal/mdx"
	"github.com/goliatone/go-mdxcraft/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Subscription is released when the dispatcher wiring is no longer needed.
type Subscription interface {
	Unsubscribe()
}

// HandlerSet groups the handlers produced by RegisterMDXCommands.
type HandlerSet struct {
	Precompile *PrecompileHandler
	ClearCache *ClearCacheHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	components     ComponentSource
	precompileOpts []commands.HandlerOption[PrecompileCommand]
	clearCacheOpts []commands.HandlerOption[ClearCacheCommand]
}

// WithComponents sets the component source used by precompile runs.
func WithComponents(source ComponentSource) Option {
	return func(cfg *options) {
		cfg.components = source
	}
}

// WithPrecompileHandlerOptions forwards options to the PrecompileHandler constructor.
func WithPrecompileHandlerOptions(opts ...commands.HandlerOption[PrecompileCommand]) Option {
	return func(cfg *options) {
		cfg.precompileOpts = append(cfg.precompileOpts, opts...)
	}
}

// WithClearCacheHandlerOptions forwards options to the ClearCacheHandler constructor.
func WithClearCacheHandlerOptions(opts ...commands.HandlerOption[ClearCacheCommand]) Option {
	return func(cfg *options) {
		cfg.clearCacheOpts = append(cfg.clearCacheOpts, opts...)
	}
}

// RegisterMDXCommands builds the MDX command handlers and registers them with
// reg when it is non-nil.
func RegisterMDXCommands(reg CommandRegistry, service *mdx.Service, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("mdx command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "mdx")
	set := &HandlerSet{
		Precompile: NewPrecompileHandler(service, cfg.components, logger, cfg.precompileOpts...),
		ClearCache: NewClearCacheHandler(service, logger, cfg.clearCacheOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Precompile); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.ClearCache); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Subscribe attaches the handlers to the process-wide go-command dispatcher
// so callers can use dispatcher.Dispatch. Failed runs are retried up to
// retries times.
func (s *HandlerSet) Subscribe(retries int) []Subscription {
	if s == nil {
		return nil
	}
	if retries < 0 {
		retries = 0
	}
	var subs []Subscription
	if s.Precompile != nil {
		var sub Subscription = dispatcher.SubscribeCommand(s.Precompile, runner.WithMaxRetries(retries))
		subs = append(subs, sub)
	}
	if s.ClearCache != nil {
		var sub Subscription = dispatcher.SubscribeCommand(s.ClearCache, runner.WithMaxRetries(retries))
		subs = append(subs, sub)
	}
	return subs
}
