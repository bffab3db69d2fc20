package base

import (
	"context"
	"fmt"
)

// LayeredLoader routes every call to the first loader that provides the module path.
type LayeredLoader struct {
	loaders []Loader
}

// Layered combines loaders in priority order. Routing depends on the module
// path alone, so a failure in the selected loader is never retried elsewhere.
func Layered(loaders ...Loader) *LayeredLoader {
	return &LayeredLoader{loaders: loaders}
}

func (l *LayeredLoader) pick(modulePath string) (Loader, error) {
	for _, loader := range l.loaders {
		p, ok := loader.(Provider)
		if !ok || p.Provides(modulePath) {
			return loader, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", modulePath, ErrSourceNotFound)
}

// Provides reports whether any layer provides modulePath.
func (l *LayeredLoader) Provides(modulePath string) bool {
	_, err := l.pick(modulePath)
	return err == nil
}

func (l *LayeredLoader) Recompile(ctx context.Context, modulePath string) error {
	loader, err := l.pick(modulePath)
	if err != nil {
		return err
	}
	return loader.Recompile(ctx, modulePath)
}

func (l *LayeredLoader) Import(ctx context.Context, modulePath string) error {
	loader, err := l.pick(modulePath)
	if err != nil {
		return err
	}
	return loader.Import(ctx, modulePath)
}

func (l *LayeredLoader) Module(name string) (Module, error) {
	loader, err := l.pick(Namespace + "." + name)
	if err != nil {
		return nil, fmt.Errorf("%s has no attribute %s: %w", Namespace, name, ErrNoModule)
	}
	return loader.Module(name)
}
