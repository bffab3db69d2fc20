package base

import (
	"fmt"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

// Stage identifies the resolution step that failed.
type Stage int

const (
	StageNone Stage = iota
	StageRecompile
	StageImport
	StageModule
	StageClass
	StageInstantiate
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageRecompile:
		return "recompile"
	case StageImport:
		return "import"
	case StageModule:
		return "module"
	case StageClass:
		return "class"
	case StageInstantiate:
		return "instantiate"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ResolveError reports the stage at which a processor could not be resolved.
type ResolveError struct {
	Stage      Stage
	ModulePath string
	ClassName  string
	Err        error
}

func (e *ResolveError) Error() string {
	switch e.Stage {
	case StageRecompile:
		return fmt.Sprintf("unable to recompile %s: %v", e.ModulePath, e.Err)
	case StageImport:
		return fmt.Sprintf("unable to import %s: %v", e.ModulePath, e.Err)
	case StageModule:
		return fmt.Sprintf("no attribute on %s for %s: %v", Namespace, e.ModulePath, e.Err)
	case StageClass:
		return fmt.Sprintf("module %s didn't contain a class %s: %v", e.ModulePath, e.ClassName, e.Err)
	case StageInstantiate:
		return fmt.Sprintf("unable to instantiate %s.%s: %v", e.ModulePath, e.ClassName, e.Err)
	default:
		return fmt.Sprintf("resolve %s.%s: %v", e.ModulePath, e.ClassName, e.Err)
	}
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a single resolution.
type Result struct {
	Name       string
	ModulePath string
	ClassName  string
	Processor  types.Processor
	// Stage is StageNone on success.
	Stage Stage
	Err   error
}

// OK reports whether the result carries a processor.
func (r Result) OK() bool {
	return r.Err == nil && r.Processor != nil
}
