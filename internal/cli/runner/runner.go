package runner

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	aliasconfig "github.com/withObsrvr/procctl/internal/config"
	"github.com/withObsrvr/procctl/pkg/common/types"
	"github.com/withObsrvr/procctl/pkg/control"
	"github.com/withObsrvr/procctl/pkg/pipeline"
	"github.com/withObsrvr/procctl/pkg/processor/base"
	"github.com/withObsrvr/procctl/pkg/processor/script"
	"github.com/withObsrvr/procctl/pkg/source"
	srcbase "github.com/withObsrvr/procctl/pkg/source/base"
)

type Options struct {
	ConfigFile string
	Verbose    bool
	// Logger receives runner and resolver diagnostics. Defaults to the standard logger.
	Logger base.Logger
}

// Config mirrors the pipeline YAML file.
type Config struct {
	Pipelines map[string]PipelineConfig `yaml:"pipelines"`
}

type PipelineConfig struct {
	Name       string                  `yaml:"name"`
	Source     srcbase.SourceConfig    `yaml:"source"`
	Processors []types.ProcessorConfig `yaml:"processors"`
}

// SourceFactory creates the source of a pipeline.
type SourceFactory = srcbase.Factory

type Runner struct {
	opts      Options
	resolver  *base.Resolver
	aliases   *aliasconfig.AliasResolver
	newSource SourceFactory
}

// NewLoader returns the registry loader, layered under the script loader when scriptDir is set.
func NewLoader(scriptDir string) base.Loader {
	if scriptDir == "" {
		return base.DefaultRegistry
	}
	return base.Layered(script.NewLoader(scriptDir), base.DefaultRegistry)
}

func New(opts Options, resolver *base.Resolver, aliases *aliasconfig.AliasResolver) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Runner{
		opts:      opts,
		resolver:  resolver,
		aliases:   aliases,
		newSource: source.NewSourceAdapter,
	}
}

// WithSourceFactory overrides how sources are created.
func (r *Runner) WithSourceFactory(f SourceFactory) *Runner {
	r.newSource = f
	return r
}

func (r *Runner) load() (*Config, error) {
	configBytes, err := os.ReadFile(r.opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", r.opts.ConfigFile, err)
	}

	var config Config
	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if len(config.Pipelines) == 0 {
		return nil, fmt.Errorf("config %s defines no pipelines", r.opts.ConfigFile)
	}
	return &config, nil
}

func (r *Runner) pipelineNames(config *Config) []string {
	names := make([]string, 0, len(config.Pipelines))
	for name := range config.Pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate loads the config and resolves every processor without running anything.
func (r *Runner) Validate(ctx context.Context) error {
	config, err := r.load()
	if err != nil {
		return err
	}
	var problems []string
	for _, name := range r.pipelineNames(config) {
		if _, _, err := r.build(ctx, config.Pipelines[name]); err != nil {
			problems = append(problems, fmt.Sprintf("pipeline %s: %v", name, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// Run runs each pipeline in name order. It returns the first pipeline error.
func (r *Runner) Run(ctx context.Context) error {
	config, err := r.load()
	if err != nil {
		return err
	}

	for _, name := range r.pipelineNames(config) {
		r.opts.Logger.Printf("Starting pipeline: %s", name)
		if err := r.setupPipeline(ctx, name, config.Pipelines[name]); err != nil {
			return fmt.Errorf("error in pipeline %s: %w", name, err)
		}
	}

	r.opts.Logger.Printf("All pipelines finished.")
	return nil
}

// build resolves and configures the processors of a pipeline.
func (r *Runner) build(ctx context.Context, pipelineConfig PipelineConfig) ([]types.Processor, []*control.Tracked, error) {
	processors := make([]types.Processor, 0, len(pipelineConfig.Processors))
	tracked := make([]*control.Tracked, 0, len(pipelineConfig.Processors))

	for i, procConfig := range pipelineConfig.Processors {
		proc, err := r.createProcessor(ctx, procConfig)
		if err != nil {
			return nil, nil, err
		}
		t := control.Track(fmt.Sprintf("%d-%s", i, procConfig.Type), proc)
		processors = append(processors, t)
		tracked = append(tracked, t)
	}
	return processors, tracked, nil
}

func (r *Runner) createProcessor(ctx context.Context, procConfig types.ProcessorConfig) (types.Processor, error) {
	name := procConfig.Type
	if r.aliases != nil {
		if resolved, ok := r.aliases.ResolveProcessorType(name); ok {
			if r.opts.Verbose {
				r.opts.Logger.Printf("DEBUG: processor alias %s -> %s", name, resolved)
			}
			name = resolved
		}
	}

	res := r.resolver.Resolve(ctx, name)
	if !res.OK() {
		err := fmt.Errorf("error creating processor %s: %w", procConfig.Type, res.Err)
		if r.aliases != nil {
			if similar := r.aliases.GetSimilarProcessor(procConfig.Type); len(similar) > 0 {
				err = fmt.Errorf("%w (did you mean: %s?)", err, strings.Join(similar, ", "))
			}
		}
		return nil, err
	}

	if initializer, ok := res.Processor.(types.Initializer); ok {
		if err := initializer.Initialize(procConfig.Config); err != nil {
			return nil, fmt.Errorf("error configuring processor %s: %w", procConfig.Type, err)
		}
	}
	return res.Processor, nil
}

func (r *Runner) setupPipeline(ctx context.Context, name string, pipelineConfig PipelineConfig) error {
	src, err := r.newSource(pipelineConfig.Source)
	if err != nil {
		return fmt.Errorf("error creating source: %w", err)
	}
	r.opts.Logger.Printf("Pipeline %s reading from %s", name, pipelineConfig.Source.String("path", "stdin"))

	processors, tracked, err := r.build(ctx, pipelineConfig)
	if err != nil {
		return err
	}

	if head := pipeline.BuildProcessorChain(processors, r.opts.Logger); head != nil {
		src.Subscribe(head)
	}

	stats := control.NewPipelineStats(name)
	err = src.Run(ctx)

	r.opts.Logger.Printf("Pipeline source completed, flushing processors...")
	for _, t := range tracked {
		if closer, ok := t.Unwrap().(interface{ Close() error }); ok {
			if closeErr := closer.Close(); closeErr != nil {
				r.opts.Logger.Printf("Error closing processor %T: %v", t.Unwrap(), closeErr)
			}
		}
		stats.Collect(t)
	}

	if r.opts.Verbose {
		metrics := stats.GetMetrics()
		for _, key := range control.MetricNames(metrics) {
			r.opts.Logger.Printf("DEBUG: %s %s=%v", name, key, metrics[key])
		}
	}
	return err
}
