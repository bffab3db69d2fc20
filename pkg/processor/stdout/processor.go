package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

// StdoutProcessor writes each payload followed by a newline. It is a sink.
type StdoutProcessor struct {
	mu     sync.Mutex
	out    io.Writer
	prefix string
	color  *color.Color
}

// New creates a StdoutProcessor writing to os.Stdout.
func New() *StdoutProcessor {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter creates a StdoutProcessor writing to w.
func NewWithWriter(w io.Writer) *StdoutProcessor {
	return &StdoutProcessor{out: w}
}

// Initialize reads the optional prefix and color settings.
func (s *StdoutProcessor) Initialize(config map[string]interface{}) error {
	if v, ok := config["prefix"].(string); ok {
		s.prefix = v
	}
	if v, ok := config["color"].(bool); ok && v {
		s.color = color.New(color.FgCyan)
	}
	return nil
}

// Process writes the payload. Non-byte payloads are marshaled to JSON.
func (s *StdoutProcessor) Process(ctx context.Context, msg types.Message) error {
	output, ok := msg.PayloadBytes()
	if !ok {
		var err error
		output, err = json.Marshal(msg.Payload)
		if err != nil {
			return fmt.Errorf("StdoutProcessor: error marshaling payload: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.prefix + string(output)
	if s.color != nil {
		_, err := s.color.Fprintln(s.out, line)
		return err
	}
	_, err := fmt.Fprintln(s.out, line)
	return err
}

// Subscribe is a no-op: StdoutProcessor is the final stage.
func (s *StdoutProcessor) Subscribe(proc types.Processor) {}
