package upper

import (
	"bytes"
	"context"
)

// NewUpperProcessor upper-cases every payload.
func NewUpperProcessor() func(context.Context, []byte) ([]byte, error) {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		return bytes.ToUpper(payload), nil
	}
}
