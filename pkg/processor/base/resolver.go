package base

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

// Logger receives diagnostic lines. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the diagnostic sink. A nil logger discards output.
func WithLogger(logger Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// Resolver turns processor names into processor instances.
type Resolver struct {
	loader Loader
	logger Logger
}

// NewResolver creates a resolver over loader. Diagnostics go to the standard logger unless overridden.
func NewResolver(loader Loader, opts ...Option) *Resolver {
	r := &Resolver{
		loader: loader,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) debugf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// ResolveProcessor returns the processor for name, or nil when any step fails.
func (r *Resolver) ResolveProcessor(ctx context.Context, name string) types.Processor {
	res := r.Resolve(ctx, name)
	if !res.OK() {
		return nil
	}
	return res.Processor
}

// Resolve recompiles, imports and instantiates the processor for name.
// It never panics; every failure is reported through the Result.
func (r *Resolver) Resolve(ctx context.Context, name string) Result {
	r.debugf("getprocessor begins")
	res := Result{
		Name:       name,
		ModulePath: ModulePath(name),
		ClassName:  ClassName(name),
	}
	r.debugf("getprocessor - name=%s path=%s class=%s", name, res.ModulePath, res.ClassName)

	if r.loader == nil {
		return r.fail(res, StageRecompile, errors.New("no loader configured"))
	}

	if err := r.guard(ctx, func() error { return r.loader.Recompile(ctx, res.ModulePath) }); err != nil {
		return r.fail(res, StageRecompile, err)
	}

	if err := r.guard(ctx, func() error { return r.loader.Import(ctx, res.ModulePath) }); err != nil {
		return r.fail(res, StageImport, err)
	}

	var mod Module
	err := r.guard(ctx, func() error {
		var err error
		mod, err = r.loader.Module(ModuleName(name))
		if err == nil && mod == nil {
			err = ErrNoModule
		}
		return err
	})
	if err != nil {
		return r.fail(res, StageModule, err)
	}

	var ctor Constructor
	err = r.guard(ctx, func() error {
		var err error
		ctor, err = mod.Class(res.ClassName)
		if err == nil && ctor == nil {
			err = ErrNoClass
		}
		return err
	})
	if err != nil {
		return r.fail(res, StageClass, err)
	}

	var proc types.Processor
	err = r.guard(ctx, func() error {
		var err error
		proc, err = ctor()
		if err == nil && proc == nil {
			err = ErrNilProcessor
		}
		return err
	})
	if err != nil {
		return r.fail(res, StageInstantiate, err)
	}

	res.Processor = proc
	return res
}

// guard runs step after checking ctx and converts a panic into an error.
func (r *Resolver) guard(ctx context.Context, step func() error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("panic: %v", rec)
		}
	}()
	return step()
}

func (r *Resolver) fail(res Result, stage Stage, err error) Result {
	res.Stage = stage
	res.Err = &ResolveError{
		Stage:      stage,
		ModulePath: res.ModulePath,
		ClassName:  res.ClassName,
		Err:        err,
	}
	r.debugf("getprocessor - %v", res.Err)
	return res
}
