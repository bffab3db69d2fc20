package processor

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withObsrvr/procctl/pkg/processor/base"
	"github.com/withObsrvr/procctl/pkg/processor/filter"
	"github.com/withObsrvr/procctl/pkg/processor/jsonenc"
	"github.com/withObsrvr/procctl/pkg/processor/passthrough"
	"github.com/withObsrvr/procctl/pkg/processor/stdout"
)

func TestBuiltinsResolve(t *testing.T) {
	reg := base.NewRegistry()
	Register(reg)
	r := base.NewResolver(reg, base.WithLogger(log.New(&bytes.Buffer{}, "", 0)))

	tests := []struct {
		name      string
		wantClass string
		check     func(t *testing.T, v interface{})
	}{
		{"Default", "Processor", func(t *testing.T, v interface{}) { assert.IsType(t, &passthrough.Processor{}, v) }},
		{"Json", "JsonProcessor", func(t *testing.T, v interface{}) { assert.IsType(t, &jsonenc.JsonProcessor{}, v) }},
		{"Filter", "FilterProcessor", func(t *testing.T, v interface{}) { assert.IsType(t, &filter.FilterProcessor{}, v) }},
		{"Stdout", "StdoutProcessor", func(t *testing.T, v interface{}) { assert.IsType(t, &stdout.StdoutProcessor{}, v) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(context.Background(), tt.name)
			require.True(t, res.OK(), "resolve %s: %v", tt.name, res.Err)
			assert.Equal(t, tt.wantClass, res.ClassName)
			tt.check(t, res.Processor)
		})
	}
}

func TestBuiltinsCaseSensitiveClass(t *testing.T) {
	reg := base.NewRegistry()
	Register(reg)
	r := base.NewResolver(reg, base.WithLogger(log.New(&bytes.Buffer{}, "", 0)))

	// "json" shares the module but targets class "jsonProcessor".
	res := r.Resolve(context.Background(), "json")
	assert.Equal(t, base.StageClass, res.Stage)
}

func TestDefaultRegistryPopulated(t *testing.T) {
	for _, path := range []string{
		"pyffle.processor.default",
		"pyffle.processor.json",
		"pyffle.processor.filter",
		"pyffle.processor.stdout",
	} {
		assert.True(t, base.DefaultRegistry.Provides(path), path)
	}
}
