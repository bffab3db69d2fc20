// Package jsonenc implements the Json processor, which normalises payloads to JSON bytes.
package jsonenc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

// JsonProcessor encodes payloads as JSON. Byte and string payloads must already
// hold valid JSON and are re-encoded (compacted or indented) as is.
type JsonProcessor struct {
	subscribers []types.Processor
	indent      string
}

// New creates a JsonProcessor producing compact output.
func New() *JsonProcessor {
	return &JsonProcessor{subscribers: []types.Processor{}}
}

// Initialize reads the optional indent setting.
func (p *JsonProcessor) Initialize(config map[string]interface{}) error {
	switch v := config["indent"].(type) {
	case nil:
	case string:
		p.indent = v
	case int:
		p.indent = string(bytes.Repeat([]byte(" "), v))
	default:
		return fmt.Errorf("JsonProcessor: indent must be a string or integer, got %T", v)
	}
	return nil
}

// Subscribe adds a subscriber to receive processed messages
func (p *JsonProcessor) Subscribe(subscriber types.Processor) {
	p.subscribers = append(p.subscribers, subscriber)
}

// Process encodes msg.Payload and forwards the JSON bytes.
func (p *JsonProcessor) Process(ctx context.Context, msg types.Message) error {
	encoded, err := p.encode(msg)
	if err != nil {
		return err
	}

	outputMsg := types.Message{Payload: encoded, Metadata: msg.CloneMetadata()}
	outputMsg.Metadata["output_format"] = "json"

	for _, subscriber := range p.subscribers {
		if err := subscriber.Process(ctx, outputMsg); err != nil {
			return fmt.Errorf("error in subscriber processing: %w", err)
		}
	}
	return nil
}

func (p *JsonProcessor) encode(msg types.Message) ([]byte, error) {
	var buf bytes.Buffer
	if raw, ok := msg.PayloadBytes(); ok {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("JsonProcessor: payload is not valid JSON")
		}
		var err error
		if p.indent != "" {
			err = json.Indent(&buf, raw, "", p.indent)
		} else {
			err = json.Compact(&buf, raw)
		}
		if err != nil {
			return nil, fmt.Errorf("JsonProcessor: %w", err)
		}
		return buf.Bytes(), nil
	}

	var (
		out []byte
		err error
	)
	if p.indent != "" {
		out, err = json.MarshalIndent(msg.Payload, "", p.indent)
	} else {
		out, err = json.Marshal(msg.Payload)
	}
	if err != nil {
		return nil, fmt.Errorf("JsonProcessor: error marshaling payload: %w", err)
	}
	return out, nil
}
