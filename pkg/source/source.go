package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/withObsrvr/procctl/pkg/common/types"
	"github.com/withObsrvr/procctl/pkg/source/base"
)

// NewSourceAdapter creates the source named by config.Type.
func NewSourceAdapter(config base.SourceConfig) (base.SourceAdapter, error) {
	switch config.Type {
	case "lines", "LinesSourceAdapter", "":
		return NewLinesSourceAdapter(config.Config)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

// LinesSourceAdapter emits every non-empty line of a file as a []byte payload.
type LinesSourceAdapter struct {
	path       string
	stdin      io.Reader
	processors []types.Processor
}

// NewLinesSourceAdapter reads config["path"]; "-" or empty means stdin.
func NewLinesSourceAdapter(config map[string]interface{}) (*LinesSourceAdapter, error) {
	path := "-"
	if v, ok := config["path"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("invalid configuration for LinesSourceAdapter: 'path' must be a string")
		}
		if s != "" {
			path = s
		}
	}
	return &LinesSourceAdapter{path: path, stdin: os.Stdin}, nil
}

// NewLinesReaderSource reads lines from r instead of a file.
func NewLinesReaderSource(r io.Reader) *LinesSourceAdapter {
	return &LinesSourceAdapter{path: "-", stdin: r}
}

// Subscribe adds a processor to this source adapter
func (s *LinesSourceAdapter) Subscribe(p types.Processor) {
	s.processors = append(s.processors, p)
}

// Run reads until EOF or until ctx is cancelled.
func (s *LinesSourceAdapter) Run(ctx context.Context) error {
	r := s.stdin
	if s.path != "-" {
		f, err := os.Open(s.path)
		if err != nil {
			return fmt.Errorf("error opening source %s: %w", s.path, err)
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		payload := make([]byte, len(text))
		copy(payload, text)
		msg := types.Message{
			Payload:  payload,
			Metadata: map[string]interface{}{"source_path": s.path, "line": line},
		}
		for _, p := range s.processors {
			if err := p.Process(ctx, msg); err != nil {
				return fmt.Errorf("error processing line %d: %w", line, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading source %s: %w", s.path, err)
	}
	return nil
}
