package processor

import (
	"github.com/withObsrvr/procctl/pkg/common/types"
	"github.com/withObsrvr/procctl/pkg/processor/base"
	"github.com/withObsrvr/procctl/pkg/processor/filter"
	"github.com/withObsrvr/procctl/pkg/processor/jsonenc"
	"github.com/withObsrvr/procctl/pkg/processor/passthrough"
	"github.com/withObsrvr/procctl/pkg/processor/stdout"
)

// init registers all built-in processors
func init() {
	Register(base.DefaultRegistry)
}

// Register adds the built-in processors to reg.
func Register(reg *base.Registry) {
	reg.Register(base.DefaultName, func() (types.Processor, error) {
		return passthrough.New(), nil
	})

	reg.Register("Json", func() (types.Processor, error) {
		return jsonenc.New(), nil
	})

	reg.Register("Filter", func() (types.Processor, error) {
		return filter.New(), nil
	})

	reg.Register("Stdout", func() (types.Processor, error) {
		return stdout.New(), nil
	})
}
