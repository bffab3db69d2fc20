package base

import (
	"context"
	"errors"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

var (
	// ErrSourceNotFound is returned by Recompile when no backing source exists.
	ErrSourceNotFound = errors.New("processor source not found")
	// ErrNotImported is returned when a module is looked up before it was imported.
	ErrNotImported = errors.New("processor module not imported")
	// ErrNoModule is returned when the namespace has no attribute for a module.
	ErrNoModule = errors.New("no such processor module")
	// ErrNoClass is returned when a module does not contain the requested class.
	ErrNoClass = errors.New("no such processor class")
	// ErrNilProcessor is returned when a constructor yields no instance.
	ErrNilProcessor = errors.New("constructor returned nil processor")
)

// Constructor creates a processor instance. It takes no arguments.
type Constructor func() (types.Processor, error)

// Module is an imported processor module holding one or more classes.
type Module interface {
	Class(name string) (Constructor, error)
}

// Loader refreshes, imports and exposes processor modules.
type Loader interface {
	// Recompile refreshes the backing source for modulePath.
	Recompile(ctx context.Context, modulePath string) error
	// Import loads modulePath so that it becomes visible under Namespace.
	Import(ctx context.Context, modulePath string) error
	// Module returns the imported module registered as name under Namespace.
	Module(name string) (Module, error)
}

// Provider is implemented by loaders that only serve some module paths.
type Provider interface {
	Provides(modulePath string) bool
}
