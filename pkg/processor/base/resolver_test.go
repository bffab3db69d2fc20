package base

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

type stubProcessor struct {
	subscribers []types.Processor
}

func (s *stubProcessor) Process(ctx context.Context, msg types.Message) error { return nil }
func (s *stubProcessor) Subscribe(p types.Processor)                         { s.subscribers = append(s.subscribers, p) }

type fakeModule struct {
	classes map[string]Constructor
	calls   *[]string
}

func (m fakeModule) Class(name string) (Constructor, error) {
	*m.calls = append(*m.calls, "class:"+name)
	ctor, ok := m.classes[name]
	if !ok {
		return nil, ErrNoClass
	}
	return ctor, nil
}

// fakeLoader records every collaborator call so tests can assert which steps ran.
type fakeLoader struct {
	calls        []string
	recompileErr error
	importErr    error
	moduleErr    error
	classes      map[string]Constructor
}

func (f *fakeLoader) Recompile(ctx context.Context, path string) error {
	f.calls = append(f.calls, "recompile:"+path)
	return f.recompileErr
}

func (f *fakeLoader) Import(ctx context.Context, path string) error {
	f.calls = append(f.calls, "import:"+path)
	return f.importErr
}

func (f *fakeLoader) Module(name string) (Module, error) {
	f.calls = append(f.calls, "module:"+name)
	if f.moduleErr != nil {
		return nil, f.moduleErr
	}
	return fakeModule{classes: f.classes, calls: &f.calls}, nil
}

func quietResolver(loader Loader) (*Resolver, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewResolver(loader, WithLogger(log.New(&buf, "", 0))), &buf
}

func TestResolveSuccess(t *testing.T) {
	proc := &stubProcessor{}
	loader := &fakeLoader{classes: map[string]Constructor{
		"JsonProcessor": func() (types.Processor, error) { return proc, nil },
	}}
	r, _ := quietResolver(loader)

	res := r.Resolve(context.Background(), "Json")

	require.True(t, res.OK(), "unexpected error: %v", res.Err)
	assert.Same(t, proc, res.Processor)
	assert.Equal(t, StageNone, res.Stage)
	assert.Equal(t, "pyffle.processor.json", res.ModulePath)
	assert.Equal(t, "JsonProcessor", res.ClassName)
	assert.Equal(t, []string{
		"recompile:pyffle.processor.json",
		"import:pyffle.processor.json",
		"module:json",
		"class:JsonProcessor",
	}, loader.calls)
}

func TestResolveDefaultTargetsBareClass(t *testing.T) {
	loader := &fakeLoader{classes: map[string]Constructor{
		"Processor": func() (types.Processor, error) { return &stubProcessor{}, nil },
	}}
	r, _ := quietResolver(loader)

	res := r.Resolve(context.Background(), "Default")

	require.True(t, res.OK())
	assert.Equal(t, "pyffle.processor.default", res.ModulePath)
	assert.Equal(t, "Processor", res.ClassName)
}

func TestResolveStopsAtFailingStage(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name      string
		loader    *fakeLoader
		wantStage Stage
		wantCalls []string
	}{
		{
			name:      "recompile failure skips import",
			loader:    &fakeLoader{recompileErr: boom},
			wantStage: StageRecompile,
			wantCalls: []string{"recompile:pyffle.processor.json"},
		},
		{
			name:      "import failure skips module lookup",
			loader:    &fakeLoader{importErr: boom},
			wantStage: StageImport,
			wantCalls: []string{"recompile:pyffle.processor.json", "import:pyffle.processor.json"},
		},
		{
			name:      "missing module skips class lookup",
			loader:    &fakeLoader{moduleErr: ErrNoModule},
			wantStage: StageModule,
			wantCalls: []string{"recompile:pyffle.processor.json", "import:pyffle.processor.json", "module:json"},
		},
		{
			name:      "missing class skips instantiation",
			loader:    &fakeLoader{classes: map[string]Constructor{}},
			wantStage: StageClass,
			wantCalls: []string{"recompile:pyffle.processor.json", "import:pyffle.processor.json", "module:json", "class:JsonProcessor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := quietResolver(tt.loader)
			res := r.Resolve(context.Background(), "Json")

			assert.False(t, res.OK())
			assert.Nil(t, res.Processor)
			assert.Equal(t, tt.wantStage, res.Stage)
			assert.Equal(t, tt.wantCalls, tt.loader.calls)

			var rerr *ResolveError
			require.ErrorAs(t, res.Err, &rerr)
			assert.Equal(t, tt.wantStage, rerr.Stage)
		})
	}
}

func TestResolveInstantiateFailures(t *testing.T) {
	tests := []struct {
		name string
		ctor Constructor
	}{
		{"constructor error", func() (types.Processor, error) { return nil, errors.New("bad config") }},
		{"constructor panic", func() (types.Processor, error) { panic("kaboom") }},
		{"nil instance", func() (types.Processor, error) { return nil, nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &fakeLoader{classes: map[string]Constructor{"JsonProcessor": tt.ctor}}
			r, _ := quietResolver(loader)

			res := r.Resolve(context.Background(), "Json")

			assert.False(t, res.OK())
			assert.Equal(t, StageInstantiate, res.Stage)
			assert.Nil(t, r.ResolveProcessor(context.Background(), "Json"))
		})
	}
}

func TestResolveLogsFailureCause(t *testing.T) {
	loader := &fakeLoader{importErr: errors.New("syntax error at line 3")}
	r, buf := quietResolver(loader)

	r.Resolve(context.Background(), "Json")

	assert.Contains(t, buf.String(), "getprocessor - name=Json path=pyffle.processor.json class=JsonProcessor")
	assert.Contains(t, buf.String(), "unable to import pyffle.processor.json: syntax error at line 3")
}

func TestResolvePanickingLoader(t *testing.T) {
	r, _ := quietResolver(panicLoader{})

	res := r.Resolve(context.Background(), "Json")

	assert.Equal(t, StageRecompile, res.Stage)
	assert.Contains(t, res.Err.Error(), "panic: loader exploded")
}

type panicLoader struct{}

func (panicLoader) Recompile(context.Context, string) error { panic("loader exploded") }
func (panicLoader) Import(context.Context, string) error    { return nil }
func (panicLoader) Module(string) (Module, error)           { return nil, nil }

func TestResolveCancelledContext(t *testing.T) {
	loader := &fakeLoader{}
	r, _ := quietResolver(loader)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.Resolve(ctx, "Json")

	assert.Equal(t, StageRecompile, res.Stage)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Empty(t, loader.calls)
}

func TestResolveNilLoader(t *testing.T) {
	r, _ := quietResolver(nil)
	res := r.Resolve(context.Background(), "Json")
	assert.Equal(t, StageRecompile, res.Stage)
}

func TestResolveNonexistentAgainstRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Json", func() (types.Processor, error) { return &stubProcessor{}, nil })
	r, _ := quietResolver(reg)

	res := r.Resolve(context.Background(), "Nonexistent")

	assert.Nil(t, res.Processor)
	assert.Equal(t, StageRecompile, res.Stage)
	assert.ErrorIs(t, res.Err, ErrSourceNotFound)
}
