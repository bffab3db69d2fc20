package pipeline

import (
	"github.com/withObsrvr/procctl/pkg/common/types"
	"github.com/withObsrvr/procctl/pkg/processor/base"
)

// BuildProcessorChain chains processors sequentially and returns the head of
// the chain, or nil when processors is empty. Each link is reported to logger
// when it is non-nil.
func BuildProcessorChain(processors []types.Processor, logger base.Logger) types.Processor {
	var lastProcessor types.Processor

	for _, p := range processors {
		if lastProcessor != nil {
			lastProcessor.Subscribe(p)
			if logger != nil {
				logger.Printf("Chained processor %T -> %T", lastProcessor, p)
			}
		}
		lastProcessor = p
	}

	if len(processors) == 0 {
		return nil
	}
	return processors[0]
}
