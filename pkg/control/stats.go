package control

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/withObsrvr/procctl/pkg/common/types"
)

// StatsProvider is implemented by components that track statistics
type StatsProvider interface {
	GetStats() ComponentStats
}

// ComponentStats represents statistics from a single component
type ComponentStats struct {
	ComponentType string
	ComponentName string
	Stats         map[string]interface{}
	LastUpdated   time.Time
}

// PipelineStats aggregates stats from all components
type PipelineStats struct {
	mu         sync.RWMutex
	PipelineID string
	StartTime  time.Time
	Components []ComponentStats
}

func NewPipelineStats(pipelineID string) *PipelineStats {
	return &PipelineStats{
		PipelineID: pipelineID,
		StartTime:  time.Now(),
		Components: make([]ComponentStats, 0),
	}
}

func (ps *PipelineStats) UpdateComponentStats(stats ComponentStats) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, cs := range ps.Components {
		if cs.ComponentName == stats.ComponentName {
			ps.Components[i] = stats
			return
		}
	}
	ps.Components = append(ps.Components, stats)
}

// Collect refreshes component stats from every provider.
func (ps *PipelineStats) Collect(providers ...StatsProvider) {
	for _, p := range providers {
		ps.UpdateComponentStats(p.GetStats())
	}
}

func (ps *PipelineStats) GetMetrics() map[string]float64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	metrics := make(map[string]float64)
	metrics["pipeline.uptime_seconds"] = time.Since(ps.StartTime).Seconds()
	metrics["pipeline.component_count"] = float64(len(ps.Components))

	for _, comp := range ps.Components {
		prefix := comp.ComponentType + "." + comp.ComponentName
		for key, value := range comp.Stats {
			switch v := value.(type) {
			case float64:
				metrics[prefix+"."+key] = v
			case int:
				metrics[prefix+"."+key] = float64(v)
			case int64:
				metrics[prefix+"."+key] = float64(v)
			case uint64:
				metrics[prefix+"."+key] = float64(v)
			}
		}
	}
	return metrics
}

// MetricNames returns the metric keys in sorted order.
func MetricNames(metrics map[string]float64) []string {
	names := make([]string, 0, len(metrics))
	for k := range metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Tracked wraps a processor and counts the messages it handles.
type Tracked struct {
	types.Processor
	name      string
	processed atomic.Int64
	failed    atomic.Int64
	last      atomic.Int64
}

// Track wraps p under name.
func Track(name string, p types.Processor) *Tracked {
	return &Tracked{Processor: p, name: name}
}

func (t *Tracked) Process(ctx context.Context, msg types.Message) error {
	err := t.Processor.Process(ctx, msg)
	t.processed.Add(1)
	if err != nil {
		t.failed.Add(1)
	}
	t.last.Store(time.Now().UnixNano())
	return err
}

// Unwrap returns the wrapped processor.
func (t *Tracked) Unwrap() types.Processor {
	return t.Processor
}

func (t *Tracked) GetStats() ComponentStats {
	updated := time.Time{}
	if ns := t.last.Load(); ns != 0 {
		updated = time.Unix(0, ns)
	}
	return ComponentStats{
		ComponentType: "processor",
		ComponentName: t.name,
		Stats: map[string]interface{}{
			"messages_processed": t.processed.Load(),
			"messages_failed":    t.failed.Load(),
		},
		LastUpdated: updated,
	}
}
