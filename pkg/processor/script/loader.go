// Package script loads processors from Go source interpreted at runtime.
//
// Sources live in a GOPATH style tree under the loader root:
//
//	<root>/src/pyffle/processor/<module>/*.go
//
// Each module declares `package <module>` and exports a constructor named
// New<Class> returning func(context.Context, []byte) ([]byte, error), with an
// optional trailing error. Every Recompile discards the previous interpreter so
// edits on disk are picked up by the next resolution.
package script

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/withObsrvr/procctl/pkg/processor/base"
)

// Loader is a base.Loader over interpreted Go sources.
type Loader struct {
	root string

	mu       sync.RWMutex
	compiled map[string]*unit
}

// unit is one recompiled module and the interpreter that owns it.
type unit struct {
	name     string
	pkg      string
	interp   *interp.Interpreter
	imported bool
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	if dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	return &Loader{
		root:     dir,
		compiled: make(map[string]*unit),
	}
}

// Root returns the loader's source root.
func (l *Loader) Root() string {
	return l.root
}

func (l *Loader) importPath(modulePath string) string {
	return strings.ReplaceAll(modulePath, ".", "/")
}

func (l *Loader) sourceDir(modulePath string) string {
	return filepath.Join(l.root, "src", filepath.FromSlash(l.importPath(modulePath)))
}

// Provides reports whether a source directory exists for modulePath.
func (l *Loader) Provides(modulePath string) bool {
	if l.root == "" {
		return false
	}
	info, err := os.Stat(l.sourceDir(modulePath))
	return err == nil && info.IsDir()
}

// Recompile parses the module sources and prepares a fresh interpreter for them.
func (l *Loader) Recompile(ctx context.Context, modulePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, ok := base.ModuleNameFromPath(modulePath)
	if !ok {
		return fmt.Errorf("%s is outside %s: %w", modulePath, base.Namespace, base.ErrSourceNotFound)
	}

	dir := l.sourceDir(modulePath)
	files, err := goFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%s: %w", dir, base.ErrSourceNotFound)
	}

	fset := token.NewFileSet()
	pkg := ""
	for _, file := range files {
		f, err := parser.ParseFile(fset, file, nil, parser.AllErrors)
		if err != nil {
			return errors.Wrapf(err, "parse %s", file)
		}
		switch {
		case pkg == "":
			pkg = f.Name.Name
		case pkg != f.Name.Name:
			return errors.Errorf("%s: found packages %s and %s", dir, pkg, f.Name.Name)
		}
	}

	i := interp.New(interp.Options{GoPath: l.root})
	if err := i.Use(stdlib.Symbols); err != nil {
		return errors.Wrap(err, "load stdlib symbols")
	}

	l.mu.Lock()
	l.compiled[modulePath] = &unit{name: name, pkg: pkg, interp: i}
	l.mu.Unlock()
	return nil
}

func goFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, base.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" || strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Import evaluates the module import inside the interpreter prepared by Recompile.
func (l *Loader) Import(ctx context.Context, modulePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.compiled[modulePath]
	if !ok {
		return errors.Errorf("%s has not been recompiled", modulePath)
	}
	src := fmt.Sprintf("import %s %q", u.pkg, l.importPath(modulePath))
	if _, err := u.interp.EvalWithContext(ctx, src); err != nil {
		return errors.Wrapf(err, "import %s", modulePath)
	}
	u.imported = true
	return nil
}

// Module returns the imported module registered as name.
func (l *Loader) Module(name string) (base.Module, error) {
	path := base.Namespace + "." + name
	l.mu.RLock()
	defer l.mu.RUnlock()
	u, ok := l.compiled[path]
	if !ok {
		return nil, fmt.Errorf("%s has no attribute %s: %w", base.Namespace, name, base.ErrNoModule)
	}
	if !u.imported {
		return nil, fmt.Errorf("%s: %w", path, base.ErrNotImported)
	}
	if u.pkg != name {
		return nil, fmt.Errorf("%s declares package %s, want %s: %w", path, u.pkg, name, base.ErrNoModule)
	}
	return &module{unit: u}, nil
}

// Modules lists the module names that have sources under the root.
func (l *Loader) Modules() ([]string, error) {
	dir := filepath.Join(l.root, "src", filepath.FromSlash(strings.ReplaceAll(base.Namespace, ".", "/")))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
