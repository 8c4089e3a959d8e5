package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rohmanhakim/lobo/internal/build"
	"github.com/rohmanhakim/lobo/internal/config"
	"github.com/rohmanhakim/lobo/internal/inspect"
	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/rohmanhakim/lobo/pkg/hashutil"
	"github.com/rohmanhakim/lobo/pkg/lobo"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	catalogFile string
	userAgent   string
	timeout     time.Duration
	concurrency int
	logLevel    string
	logFormat   string
	metricsFile string
	hashAlgo    string

	minLat float64
	maxLat float64
	minLng float64
	maxLng float64

	noCache   bool
	outputDir string
	asText    bool
)

// NewRootCommand builds the lobo command tree. Flags are bound to package
// variables and reset to their defaults on every call.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lobo",
		Short: "Read Indian River Lagoon water-quality sensors.",
		Long: `lobo retrieves the latest readings published by the LOBO water-quality
buoys of the Indian River Lagoon and prints them as structured JSON records.

Sensors and measurements come from a catalog; the bundled one is used
unless --catalog-file is given.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/lobo.json)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog-file", "", "catalog YAML path (defaults to the bundled catalog)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests (0 for none)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "maximum sensors fetched at once (0 for all)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	rootCmd.PersistentFlags().StringVar(&hashAlgo, "hash-algo", "", "content hash algorithm: sha256 or blake3")

	rootCmd.AddCommand(
		newSensorsCommand(),
		newSensorCommand(),
		newMeasurementsCommand(),
		newMeasurementCommand(),
		newDataCommand(),
		newRawCommand(),
		newVersionCommand(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newSensorsCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "sensors",
		Short: "List sensor keys, optionally inside a bounding box",
		Long: `List sensor keys in catalog order.

The bounding box only filters when all four bounds are given and non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(client *lobo.Client, cfg config.Config) error {
				box := lobo.NewBoundingBox(minLat, maxLat, minLng, maxLng)
				for _, key := range client.GetSensors(box) {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				return nil
			})
		},
	}
	c.Flags().Float64Var(&minLat, "min-lat", 0, "southern latitude bound")
	c.Flags().Float64Var(&maxLat, "max-lat", 0, "northern latitude bound")
	c.Flags().Float64Var(&minLng, "min-lng", 0, "western longitude bound")
	c.Flags().Float64Var(&maxLng, "max-lng", 0, "eastern longitude bound")
	return c
}

func newSensorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sensor KEY",
		Short: "Show one sensor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(client *lobo.Client, cfg config.Config) error {
				sensor, ok := client.GetSensor(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", lobo.ErrSensorNotFound, args[0])
				}
				return writeJSON(cmd.OutOrStdout(), sensor)
			})
		},
	}
}

func newMeasurementsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "measurements",
		Short: "List measurement keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(client *lobo.Client, cfg config.Config) error {
				for _, key := range client.GetMeasurements() {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				return nil
			})
		},
	}
}

func newMeasurementCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "measurement KEY",
		Short: "Show one measurement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(client *lobo.Client, cfg config.Config) error {
				measurement, ok := client.GetMeasurement(args[0])
				if !ok {
					return fmt.Errorf("measurement not found: %s", args[0])
				}
				return writeJSON(cmd.OutOrStdout(), measurement)
			})
		},
	}
}

func newDataCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "data [KEY]",
		Short: "Fetch and parse the latest readings",
		Long: `Fetch and parse the latest readings of one sensor, or of every sensor
when KEY is omitted. Records are printed as a JSON array in catalog order.

With --output-dir each record is also written to <dir>/<sensor>.json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(client *lobo.Client, cfg config.Config) error {
				req := lobo.DataRequest{NoCache: noCache}
				if len(args) == 1 {
					req.Sensor = args[0]
				}

				records, err := client.GetSensorData(cmd.Context(), req)
				if err != nil {
					return err
				}

				if cfg.OutputDir() != "" {
					if _, err := client.WriteSnapshots(cfg.OutputDir(), records); err != nil {
						return err
					}
				}
				return writeJSON(cmd.OutOrStdout(), records)
			})
		},
	}
	c.Flags().BoolVar(&noCache, "no-cache", false, "always fetch from the network")
	c.Flags().StringVar(&outputDir, "output-dir", "", "directory for JSON snapshots")
	return c
}

func newRawCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "raw KEY",
		Short: "Print the unparsed response of one sensor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(client *lobo.Client, cfg config.Config) error {
				raw, err := client.GetRawResponse(cmd.Context(), args[0], noCache)
				if err != nil {
					return err
				}
				if asText {
					raw, err = inspect.VisibleText(raw)
					if err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), raw)
				return nil
			})
		},
	}
	c.Flags().BoolVar(&noCache, "no-cache", false, "always fetch from the network")
	c.Flags().BoolVar(&asText, "text", false, "print visible text instead of markup")
	return c
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.Banner())
		},
	}
}

// withClient builds a client from the flags, runs fn and then flushes
// metrics when a metrics file is configured.
func withClient(cmd *cobra.Command, fn func(client *lobo.Client, cfg config.Config) error) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}

	logger := metadata.NewLogger(cfg.LogLevel(), cfg.LogFormat(), cmd.ErrOrStderr())
	registry := prometheus.NewRegistry()
	promSink, err := metadata.NewPrometheusSink(registry)
	if err != nil {
		return err
	}
	sink := metadata.MultiSink{metadata.NewLogSink(logger), promSink}

	client, err := lobo.New(lobo.WithConfig(cfg), lobo.WithMetadataSink(sink))
	if err != nil {
		return err
	}

	runErr := fn(client, cfg)

	if cfg.MetricsFile() != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile(), registry); err != nil {
			sink.RecordError(
				time.Now(),
				"cli",
				"withClient",
				metadata.CauseStorageFailure,
				err.Error(),
				[]metadata.Attribute{metadata.NewAttr(metadata.AttrWritePath, cfg.MetricsFile())},
			)
			if runErr == nil {
				runErr = err
			}
		} else {
			sink.RecordArtifact(
				metadata.ArtifactMetrics,
				cfg.MetricsFile(),
				[]metadata.Attribute{metadata.NewAttr(metadata.AttrWritePath, cfg.MetricsFile())},
			)
		}
	}
	return runErr
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// InitConfigWithError builds the configuration from the config file when one
// is given, then applies the flags that were set on top of it.
func InitConfigWithError() (config.Config, error) {
	configBuilder := config.WithDefault()

	if cfgFile != "" {
		fileCfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
		configBuilder = &fileCfg
	}

	// Override with CLI flag values where provided
	if catalogFile != "" {
		configBuilder = configBuilder.WithCatalogFile(catalogFile)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if concurrency > 0 {
		configBuilder = configBuilder.WithConcurrency(concurrency)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	if metricsFile != "" {
		configBuilder = configBuilder.WithMetricsFile(metricsFile)
	}

	if hashAlgo != "" {
		algo, err := hashutil.ParseHashAlgo(hashAlgo)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: %s", config.ErrInvalidConfig, err.Error())
		}
		configBuilder = configBuilder.WithHashAlgo(algo)
	}

	if outputDir != "" {
		configBuilder = configBuilder.WithOutputDir(outputDir)
	}

	return configBuilder.Build()
}

// ExecuteForTest runs the command tree with args and captures its output.
func ExecuteForTest(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}
