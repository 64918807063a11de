package simulation

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/dmcachesim/datarecording"
	"github.com/sarchlab/dmcachesim/directmapped"
	"github.com/sarchlab/dmcachesim/sim/hooking"
	"github.com/sarchlab/dmcachesim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	config       Config
	out          io.Writer
	logger       logrus.FieldLogger
	dataRecorder datarecording.DataRecorder
	publishers   []Publisher
	cacheHooks   []hooking.Hook
}

// MakeBuilder creates a builder with the default configuration that prints
// to stdout.
func MakeBuilder() Builder {
	return Builder{
		config: DefaultConfig(),
		out:    os.Stdout,
	}
}

// WithConfig sets the configuration.
func (b Builder) WithConfig(config Config) Builder {
	b.config = config
	return b
}

// WithOutput sets where the reports are written.
func (b Builder) WithOutput(out io.Writer) Builder {
	b.out = out
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

// WithDataRecorder records the run summaries, and the accesses if the
// configuration asks for it, into the data recorder.
func (b Builder) WithDataRecorder(dataRecorder datarecording.DataRecorder) Builder {
	b.dataRecorder = dataRecorder
	return b
}

// WithPublisher adds a publisher that is told about every finished run.
func (b Builder) WithPublisher(p Publisher) Builder {
	publishers := make([]Publisher, 0, len(b.publishers)+1)
	publishers = append(publishers, b.publishers...)
	b.publishers = append(publishers, p)

	return b
}

// WithCacheHook registers an extra hook on the simulated cache.
func (b Builder) WithCacheHook(hook hooking.Hook) Builder {
	hooks := make([]hooking.Hook, 0, len(b.cacheHooks)+1)
	hooks = append(hooks, b.cacheHooks...)
	b.cacheHooks = append(hooks, hook)

	return b
}

// Build validates the configuration and builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	err := b.config.Validate()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		id:           xid.New().String(),
		config:       b.config,
		out:          b.out,
		logger:       b.logger,
		dataRecorder: b.dataRecorder,
		publishers:   b.publishers,
		counter:      tracing.NewAccessCounter(),
	}

	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}

	cacheBuilder := directmapped.MakeBuilder().
		WithTotalByteSize(b.config.TotalByteSize).
		WithBlockByteSize(b.config.BlockByteSize).
		WithHook(s.counter)

	for _, h := range b.cacheHooks {
		cacheBuilder = cacheBuilder.WithHook(h)
	}

	if s.dataRecorder != nil {
		s.dataRecorder.CreateTable(RunTableName, runEntry{})

		if b.config.TraceAccesses {
			s.accessRecorder = tracing.NewAccessRecorder(s.dataRecorder)
			cacheBuilder = cacheBuilder.WithHook(s.accessRecorder)
		}
	}

	s.cache, err = cacheBuilder.Build("DM")
	if err != nil {
		return nil, fmt.Errorf("building cache: %w", err)
	}

	return s, nil
}
