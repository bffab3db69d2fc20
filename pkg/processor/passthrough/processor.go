package passthrough

import (
	"context"
	"fmt"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

// Processor forwards every message unchanged. It backs the Default processor name.
type Processor struct {
	subscribers []types.Processor
	addMetadata bool
}

// New creates a passthrough processor.
func New() *Processor {
	return &Processor{subscribers: []types.Processor{}}
}

// Initialize reads the optional add_metadata flag.
func (p *Processor) Initialize(config map[string]interface{}) error {
	if val, ok := config["add_metadata"].(bool); ok {
		p.addMetadata = val
	}
	return nil
}

// Subscribe adds a subscriber to receive processed messages
func (p *Processor) Subscribe(subscriber types.Processor) {
	p.subscribers = append(p.subscribers, subscriber)
}

// Process forwards msg to all subscribers
func (p *Processor) Process(ctx context.Context, msg types.Message) error {
	if p.addMetadata {
		msg.Metadata = msg.CloneMetadata()
		msg.Metadata["processor_passthrough"] = true
	}
	for _, subscriber := range p.subscribers {
		if err := subscriber.Process(ctx, msg); err != nil {
			return fmt.Errorf("error in subscriber processing: %w", err)
		}
	}
	return nil
}
