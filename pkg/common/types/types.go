package types

import (
	"context"
)

// Message encapsulates the payload to be processed with optional metadata.
type Message struct {
	Payload  interface{}            `json:"payload"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ProcessorConfig defines configuration for a processor
type ProcessorConfig struct {
	Type   string                 `yaml:"type"`
	Config map[string]interface{} `yaml:"config"`
}

// Processor defines the interface for processing messages.
type Processor interface {
	Process(context.Context, Message) error
	Subscribe(Processor)
}

// Initializer is implemented by processors that accept configuration after construction.
type Initializer interface {
	Initialize(config map[string]interface{}) error
}

// PayloadBytes returns the payload as raw bytes when it is []byte or string.
func (m Message) PayloadBytes() ([]byte, bool) {
	switch p := m.Payload.(type) {
	case []byte:
		return p, true
	case string:
		return []byte(p), true
	}
	return nil, false
}

// CloneMetadata returns a shallow copy of the metadata, never nil.
func (m Message) CloneMetadata() map[string]interface{} {
	out := make(map[string]interface{}, len(m.Metadata))
	for k, v := range m.Metadata {
		out[k] = v
	}
	return out
}
