// Package simulation drives a direct-mapped cache through a series of
// independent trace runs that share one cache geometry.
package simulation

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/dmcachesim/datarecording"
	"github.com/sarchlab/dmcachesim/directmapped"
	"github.com/sarchlab/dmcachesim/report"
	"github.com/sarchlab/dmcachesim/tracing"
	"github.com/sarchlab/dmcachesim/workload"
)

// RunTableName is the table that stores one row per run.
const RunTableName = "dm_runs"

// RunResult is the outcome of one trace run.
type RunResult struct {
	ID       string             `json:"id"`
	Index    int                `json:"index"`
	N        int                `json:"n"`
	Pattern  string             `json:"pattern"`
	Stats    directmapped.Stats `json:"stats"`
	Duration time.Duration      `json:"duration"`
}

// A Publisher is told about every finished run, together with the cache
// state right before the cache is reset.
type Publisher interface {
	Publish(result RunResult, cache directmapped.Snapshot)
}

// A RunStarter is a Publisher that also wants to know when a run starts.
type RunStarter interface {
	StartRun(runID string, n int, numAccesses uint64)
}

type runEntry struct {
	SimulationID     string
	RunID            string
	RunIndex         int
	N                int
	Pattern          string
	TotalByteSize    uint64
	BlockByteSize    uint64
	CompulsoryMisses uint64
	ConflictMisses   uint64
	Hits             uint64
	Accesses         uint64
	MissRate         float64
	HitRate          float64
	DurationSec      float64
}

// A Simulation owns a cache and runs the configured traces through it.
type Simulation struct {
	id     string
	config Config
	cache  *directmapped.Cache

	out            io.Writer
	logger         logrus.FieldLogger
	dataRecorder   datarecording.DataRecorder
	accessRecorder *tracing.AccessRecorder
	counter        *tracing.AccessCounter
	publishers     []Publisher

	results []RunResult
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Config returns the configuration of the simulation.
func (s *Simulation) Config() Config {
	return s.config
}

// Cache returns the simulated cache.
func (s *Simulation) Cache() *directmapped.Cache {
	return s.cache
}

// Results returns the runs finished so far.
func (s *Simulation) Results() []RunResult {
	return s.results
}

// Run runs every configured matrix size in order and then prints a table of
// all the runs.
func (s *Simulation) Run() ([]RunResult, error) {
	s.logger.WithFields(logrus.Fields{
		"simulation_id": s.id,
		"geometry":      report.Geometry(s.config.TotalByteSize, s.config.BlockByteSize),
		"runs":          len(s.config.MatrixSizes),
	}).Info("simulation started")

	for _, n := range s.config.MatrixSizes {
		_, err := s.RunOne(n)
		if err != nil {
			return s.results, err
		}
	}

	s.printTable()

	return s.results, nil
}

// RunOne runs the add-rows trace of dimension n on a cache that starts
// empty, prints the statistics and leaves the cache reset, also when the run
// fails after the trace has been issued.
func (s *Simulation) RunOne(n int) (RunResult, error) {
	pattern := workload.AddRows{N: n}

	err := pattern.Validate()
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{
		ID:      xid.New().String(),
		Index:   len(s.results),
		N:       n,
		Pattern: pattern.Name(),
	}

	logger := s.logger.WithFields(logrus.Fields{
		"run_id": result.ID,
		"n":      n,
	})
	logger.Debug("run started")

	if s.accessRecorder != nil {
		s.accessRecorder.SetRunID(result.ID)
	}

	s.counter.Reset()
	s.announce(result, pattern.NumAccesses())

	err = report.Header(s.out, n)
	if err != nil {
		return result, err
	}

	start := time.Now()
	defer s.cache.Reset()
	pattern.Generate(s.cache)
	result.Duration = time.Since(start)
	result.Stats = s.cache.Stats()

	if result.Stats.Accesses != pattern.NumAccesses() {
		return result, fmt.Errorf(
			"run %s issued %d accesses, expected %d",
			result.ID, result.Stats.Accesses, pattern.NumAccesses())
	}

	err = report.Summary(s.out, result.Stats)
	if err != nil {
		return result, err
	}

	s.record(result)
	s.publish(result)
	s.logRun(logger, result)

	s.results = append(s.results, result)

	return result, nil
}

func (s *Simulation) record(result RunResult) {
	if s.dataRecorder == nil {
		return
	}

	missRate := rateOrNaN(result.Stats.MissRate())
	hitRate := rateOrNaN(result.Stats.HitRate())

	s.dataRecorder.InsertData(RunTableName, runEntry{
		SimulationID:     s.id,
		RunID:            result.ID,
		RunIndex:         result.Index,
		N:                result.N,
		Pattern:          result.Pattern,
		TotalByteSize:    s.cache.TotalByteSize(),
		BlockByteSize:    s.cache.BlockByteSize(),
		CompulsoryMisses: result.Stats.CompulsoryMisses,
		ConflictMisses:   result.Stats.ConflictMisses,
		Hits:             result.Stats.Hits,
		Accesses:         result.Stats.Accesses,
		MissRate:         missRate,
		HitRate:          hitRate,
		DurationSec:      result.Duration.Seconds(),
	})
}

// rateOrNaN maps a rate that cannot be computed to NaN, which SQLite stores
// as NULL.
func rateOrNaN(rate float64, err error) float64 {
	if err != nil {
		return math.NaN()
	}

	return rate
}

func (s *Simulation) announce(result RunResult, numAccesses uint64) {
	for _, p := range s.publishers {
		if starter, ok := p.(RunStarter); ok {
			starter.StartRun(result.ID, result.N, numAccesses)
		}
	}
}

func (s *Simulation) publish(result RunResult) {
	if len(s.publishers) == 0 {
		return
	}

	snapshot := s.cache.Snapshot()
	for _, p := range s.publishers {
		p.Publish(result, snapshot)
	}
}

func (s *Simulation) logRun(logger logrus.FieldLogger, result RunResult) {
	fields := logrus.Fields{
		"accesses":          result.Stats.Accesses,
		"compulsory_misses": result.Stats.CompulsoryMisses,
		"conflict_misses":   result.Stats.ConflictMisses,
		"hits":              result.Stats.Hits,
		"miss_rate":         report.Rate(result.Stats.MissRate()),
		"duration":          result.Duration,
	}

	block, conflicts, ok := s.counter.HottestBlock()
	if ok {
		fields["hottest_block"] = block
		fields["hottest_block_conflicts"] = conflicts
	}

	logger.WithFields(fields).Info("run finished")
}

func (s *Simulation) printTable() {
	runs := make([]report.Run, 0, len(s.results))
	for _, r := range s.results {
		runs = append(runs, report.Run{
			Label: fmt.Sprintf("n=%d", r.N),
			Stats: r.Stats,
		})
	}

	report.WriteRunTable(s.out,
		report.Geometry(s.config.TotalByteSize, s.config.BlockByteSize),
		runs)
}
