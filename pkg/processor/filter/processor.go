// Package filter implements the Filter processor.
package filter

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

// FilterProcessor forwards JSON payloads whose field at path exists and,
// when equals is set, whose string value matches it.
type FilterProcessor struct {
	subscribers []types.Processor
	path        string
	equals      *string
	invert      bool
}

// New creates a FilterProcessor. An uninitialized filter passes every message;
// pipelines always initialize it, and Initialize requires path.
func New() *FilterProcessor {
	return &FilterProcessor{subscribers: []types.Processor{}}
}

// Initialize reads path, equals and invert. A missing or empty path is an error.
func (p *FilterProcessor) Initialize(config map[string]interface{}) error {
	path, ok := config["path"].(string)
	if !ok || path == "" {
		return fmt.Errorf("invalid configuration for FilterProcessor: missing 'path'")
	}
	p.path = path

	if v, ok := config["equals"]; ok {
		s := fmt.Sprint(v)
		p.equals = &s
	}
	if v, ok := config["invert"].(bool); ok {
		p.invert = v
	}
	return nil
}

// Subscribe adds a subscriber to receive processed messages
func (p *FilterProcessor) Subscribe(subscriber types.Processor) {
	p.subscribers = append(p.subscribers, subscriber)
}

// Process drops messages that do not match.
func (p *FilterProcessor) Process(ctx context.Context, msg types.Message) error {
	if p.path != "" {
		raw, ok := msg.PayloadBytes()
		if !ok {
			return fmt.Errorf("FilterProcessor: expected []byte payload, got %T", msg.Payload)
		}
		if p.matches(raw) == p.invert {
			return nil
		}
	}

	for _, subscriber := range p.subscribers {
		if err := subscriber.Process(ctx, msg); err != nil {
			return fmt.Errorf("error in subscriber processing: %w", err)
		}
	}
	return nil
}

func (p *FilterProcessor) matches(raw []byte) bool {
	result := gjson.GetBytes(raw, p.path)
	if !result.Exists() {
		return false
	}
	if p.equals == nil {
		return true
	}
	return result.String() == *p.equals
}
