package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sarchlab/dmcachesim/datarecording"
	"github.com/sarchlab/dmcachesim/monitoring"
	"github.com/sarchlab/dmcachesim/report"
	"github.com/sarchlab/dmcachesim/simulation"
	"github.com/sarchlab/dmcachesim/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the add-rows traces through a direct-mapped cache.",
	Long: "`run` builds one cache and runs one trace per matrix size, " +
		"resetting the cache in between.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		return runSimulation(cmd.Context(), v)
	},
}

func init() {
	defaults := simulation.DefaultConfig()

	runCmd.Flags().Uint64("cache-size", defaults.TotalByteSize,
		"total cache size in bytes")
	runCmd.Flags().Uint64("block-size", defaults.BlockByteSize,
		"cache block size in bytes")
	runCmd.Flags().String("n", joinSizes(defaults.MatrixSizes),
		"comma-separated matrix dimensions, one run each")
	runCmd.Flags().String("db", "",
		"record the runs into <db>.sqlite3")
	runCmd.Flags().Bool("trace-accesses", false,
		"also record every access (requires --db)")
	runCmd.Flags().Bool("log-accesses", false,
		"log every access to stderr")
	runCmd.Flags().Bool("monitor", false,
		"serve the results over HTTP until interrupted")
	runCmd.Flags().Int("monitor-port", 0,
		"port of the monitoring server, random if 0")
	runCmd.Flags().Bool("open-browser", false,
		"open the monitoring server in a browser")

	rootCmd.AddCommand(runCmd)
}

// configFromViper reads a simulation configuration.
func configFromViper(v *viper.Viper) (simulation.Config, error) {
	sizes, err := parseSizes(v.GetString("n"))
	if err != nil {
		return simulation.Config{}, err
	}

	config := simulation.Config{
		TotalByteSize: v.GetUint64("cache-size"),
		BlockByteSize: v.GetUint64("block-size"),
		MatrixSizes:   sizes,
		TraceAccesses: v.GetBool("trace-accesses"),
	}

	if config.TraceAccesses && v.GetString("db") == "" {
		return config, fmt.Errorf("--trace-accesses requires --db")
	}

	return config, config.Validate()
}

func parseSizes(s string) ([]int, error) {
	var sizes []int

	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid matrix size %q: %w", field, err)
		}

		sizes = append(sizes, n)
	}

	return sizes, nil
}

func joinSizes(sizes []int) string {
	fields := make([]string, len(sizes))
	for i, n := range sizes {
		fields[i] = strconv.Itoa(n)
	}

	return strings.Join(fields, ",")
}

func newLogger(level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger.SetLevel(lvl)

	return logger, nil
}

func runSimulation(ctx context.Context, v *viper.Viper) error {
	logger, err := newLogger(v.GetString("log-level"))
	if err != nil {
		return err
	}

	config, err := configFromViper(v)
	if err != nil {
		return err
	}

	builder := simulation.MakeBuilder().
		WithConfig(config).
		WithOutput(os.Stdout).
		WithLogger(logger)

	var recorder datarecording.DataRecorder
	if db := v.GetString("db"); db != "" {
		recorder = datarecording.New(db)
		defer recorder.Close()

		builder = builder.WithDataRecorder(recorder)
	}

	if v.GetBool("log-accesses") {
		builder = builder.WithCacheHook(
			tracing.NewAccessLogger(log.New(os.Stderr, "", 0)))
	}

	var monitor *monitoring.Monitor
	if v.GetBool("monitor") {
		monitor = monitoring.NewMonitor().
			WithPortNumber(v.GetInt("monitor-port"))
		builder = builder.WithPublisher(monitor).WithCacheHook(monitor)

		url, err := monitor.StartServer()
		if err != nil {
			return err
		}
		defer monitor.StopServer()

		if v.GetBool("open-browser") {
			err = browser.OpenURL(url)
			if err != nil {
				logger.WithError(err).Warn("cannot open browser")
			}
		}
	}

	logger.WithField("geometry",
		report.Geometry(config.TotalByteSize, config.BlockByteSize)).
		Debug("configuration loaded")

	s, err := builder.Build()
	if err != nil {
		return err
	}

	_, err = s.Run()
	if err != nil {
		return err
	}

	if monitor != nil {
		waitForInterrupt(ctx, logger)
	}

	return nil
}

func waitForInterrupt(ctx context.Context, logger logrus.FieldLogger) {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("simulation finished, monitoring server running until interrupted")
	<-ctx.Done()
}
