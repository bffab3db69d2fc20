package script

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

// ProcessFunc is the unit of work exported by a script. A nil output drops the message.
type ProcessFunc func(ctx context.Context, payload []byte) ([]byte, error)

// Processor runs a script ProcessFunc and forwards its output to subscribers.
type Processor struct {
	symbol      string
	fn          ProcessFunc
	subscribers []types.Processor
}

// NewProcessor wraps fn. symbol names the script constructor for error messages.
func NewProcessor(symbol string, fn ProcessFunc) *Processor {
	return &Processor{symbol: symbol, fn: fn}
}

// Subscribe adds a subscriber to receive processed messages
func (p *Processor) Subscribe(subscriber types.Processor) {
	p.subscribers = append(p.subscribers, subscriber)
}

func (p *Processor) Process(ctx context.Context, msg types.Message) error {
	payload, ok := msg.PayloadBytes()
	if !ok {
		var err error
		payload, err = json.Marshal(msg.Payload)
		if err != nil {
			return fmt.Errorf("%s: error marshaling payload: %w", p.symbol, err)
		}
	}

	out, err := p.fn(ctx, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", p.symbol, err)
	}
	if out == nil {
		return nil
	}

	outputMsg := types.Message{Payload: out, Metadata: msg.CloneMetadata()}
	outputMsg.Metadata["script"] = p.symbol
	for _, subscriber := range p.subscribers {
		if err := subscriber.Process(ctx, outputMsg); err != nil {
			return fmt.Errorf("error in subscriber processing: %w", err)
		}
	}
	return nil
}
