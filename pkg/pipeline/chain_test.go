package pipeline

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

type recorder struct {
	name  string
	trail *[]string
	next  []types.Processor
}

func (r *recorder) Process(ctx context.Context, msg types.Message) error {
	*r.trail = append(*r.trail, r.name)
	for _, n := range r.next {
		if err := n.Process(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *recorder) Subscribe(p types.Processor) { r.next = append(r.next, p) }

func TestBuildProcessorChain(t *testing.T) {
	var trail []string
	a := &recorder{name: "a", trail: &trail}
	b := &recorder{name: "b", trail: &trail}
	c := &recorder{name: "c", trail: &trail}

	var logs bytes.Buffer
	head := BuildProcessorChain([]types.Processor{a, b, c}, log.New(&logs, "", 0))
	require.NotNil(t, head)
	require.NoError(t, head.Process(context.Background(), types.Message{}))

	assert.Equal(t, []string{"a", "b", "c"}, trail)
	assert.Equal(t, 2, strings.Count(logs.String(), "Chained processor *pipeline.recorder -> *pipeline.recorder"))
}

func TestBuildProcessorChainNilLogger(t *testing.T) {
	var trail []string
	a := &recorder{name: "a", trail: &trail}
	b := &recorder{name: "b", trail: &trail}

	head := BuildProcessorChain([]types.Processor{a, b}, nil)
	require.NoError(t, head.Process(context.Background(), types.Message{}))
	assert.Equal(t, []string{"a", "b"}, trail)
}

func TestBuildProcessorChainEmpty(t *testing.T) {
	assert.Nil(t, BuildProcessorChain(nil, nil))
}
