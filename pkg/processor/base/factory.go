package base

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DefaultRegistry holds the processors registered by init functions.
var DefaultRegistry = NewRegistry()

// RegisterProcessor registers ctor as the conventional class for name in DefaultRegistry.
func RegisterProcessor(name string, ctor Constructor) {
	DefaultRegistry.Register(name, ctor)
}

// ReloadFunc refreshes a registered module. It stands in for recompiling source.
type ReloadFunc func(ctx context.Context) error

// RegisteredModule is a module held in memory by a Registry. Its classes and
// reload hook are guarded by the owning registry's lock.
type RegisteredModule struct {
	Path string
	Name string

	mu      *sync.RWMutex
	reload  ReloadFunc
	classes map[string]Constructor
}

// Class returns the constructor registered under name.
func (m *RegisteredModule) Class(name string) (Constructor, error) {
	m.mu.RLock()
	ctor, ok := m.classes[name]
	m.mu.RUnlock()
	if !ok || ctor == nil {
		return nil, fmt.Errorf("module %s has no class %s: %w", m.Path, name, ErrNoClass)
	}
	return ctor, nil
}

// Classes returns the sorted class names of the module.
func (m *RegisteredModule) Classes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.classes))
	for name := range m.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry is a Loader over modules registered explicitly at startup.
type Registry struct {
	mu       sync.RWMutex
	modules  map[string]*RegisteredModule
	imported map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules:  make(map[string]*RegisteredModule),
		imported: make(map[string]bool),
	}
}

// Register adds ctor under the module and class names derived from name.
func (r *Registry) Register(name string, ctor Constructor) {
	r.RegisterClass(name, ClassName(name), ctor)
}

// RegisterClass adds ctor as class inside the module derived from name.
// Registering a class again replaces it.
func (r *Registry) RegisterClass(name, class string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.module(name)
	m.classes[class] = ctor
}

// SetReload installs the hook run by Recompile for the module derived from name.
func (r *Registry) SetReload(name string, reload ReloadFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.module(name).reload = reload
}

func (r *Registry) module(name string) *RegisteredModule {
	path := ModulePath(name)
	m, ok := r.modules[path]
	if !ok {
		m = &RegisteredModule{
			Path:    path,
			Name:    ModuleName(name),
			mu:      &r.mu,
			classes: make(map[string]Constructor),
		}
		r.modules[path] = m
	}
	return m
}

// Provides reports whether modulePath is registered.
func (r *Registry) Provides(modulePath string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[modulePath]
	return ok
}

// Recompile runs the module's reload hook, if any.
func (r *Registry) Recompile(ctx context.Context, modulePath string) error {
	r.mu.RLock()
	m, ok := r.modules[modulePath]
	var reload ReloadFunc
	if ok {
		reload = m.reload
	}
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s: %w", modulePath, ErrSourceNotFound)
	}
	if reload == nil {
		return nil
	}
	if err := reload(ctx); err != nil {
		return fmt.Errorf("reload %s: %w", modulePath, err)
	}
	return nil
}

// Import makes a registered module visible under Namespace.
func (r *Registry) Import(ctx context.Context, modulePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[modulePath]; !ok {
		return fmt.Errorf("no module named %s: %w", modulePath, ErrSourceNotFound)
	}
	r.imported[modulePath] = true
	return nil
}

// Module returns the imported module whose attribute name under Namespace is name.
func (r *Registry) Module(name string) (Module, error) {
	path := Namespace + "." + name
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[path]
	if !ok {
		return nil, fmt.Errorf("%s has no attribute %s: %w", Namespace, name, ErrNoModule)
	}
	if !r.imported[path] {
		return nil, fmt.Errorf("%s: %w", path, ErrNotImported)
	}
	return m, nil
}

// Modules returns the registered modules sorted by path.
func (r *Registry) Modules() []*RegisteredModule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*RegisteredModule, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
