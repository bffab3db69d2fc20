// Package base holds the contracts shared by pipeline sources.
package base

import (
	"context"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

// SourceAdapter produces messages and pushes them to its subscribers until its
// input is exhausted or ctx is cancelled.
type SourceAdapter interface {
	Run(context.Context) error
	Subscribe(types.Processor)
}

// SourceConfig is the `source` block of a pipeline definition.
type SourceConfig struct {
	Type   string                 `yaml:"type"`
	Config map[string]interface{} `yaml:"config"`
}

// Factory creates the source described by a SourceConfig.
type Factory func(SourceConfig) (SourceAdapter, error)

// String returns the config value at key, or def when it is unset or not a string.
func (c SourceConfig) String(key, def string) string {
	if v, ok := c.Config[key].(string); ok && v != "" {
		return v
	}
	return def
}
