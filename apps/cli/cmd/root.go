package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/hitsmoke/packages/core/config"
	"github.com/abdul-hamid-achik/hitsmoke/packages/core/env"
	"github.com/abdul-hamid-achik/hitsmoke/packages/http"
	"github.com/abdul-hamid-achik/hitsmoke/packages/log"
	"github.com/abdul-hamid-achik/hitsmoke/packages/output"
	"github.com/abdul-hamid-achik/hitsmoke/packages/smoke"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	baseURLFlag  string
	endpointFlag string
	timeoutFlag  string
	configFlag   string
	envFileFlag  string
	noColorFlag  bool
	verboseFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "hitsmoke",
	Short: "Smoke-test an HTTP endpoint. No assertions.",
	Long: `hitsmoke sends a fixed sequence of requests to one endpoint and prints
each status code and response body:

  POST text/plain, POST application/json, GET,
  PUT text/plain, PUT application/json, DELETE, GET

Non-2xx statuses are printed like any other. A connection failure stops the
sequence and exits with code 4.

Examples:
  hitsmoke
  hitsmoke --base-url http://localhost:3000
  hitsmoke --endpoint /items --timeout 5s
  HITSMOKE_BASE_URL=http://staging:8080 hitsmoke`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          smokeCommand,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if !errors.As(err, &ee) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.Flags().StringVar(&baseURLFlag, "base-url", "", "Base URL of the server under test (env: HITSMOKE_BASE_URL, default http://localhost:8080)")
	rootCmd.Flags().StringVar(&endpointFlag, "endpoint", "", "Path every request is sent to (env: HITSMOKE_ENDPOINT, default /test)")
	rootCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Per-request timeout in ms or as a duration, e.g. 5s; 0 disables it (env: HITSMOKE_TIMEOUT, default 30s)")
	rootCmd.Flags().StringVar(&configFlag, "config", os.Getenv("HITSMOKE_CONFIG"), "Path to config file (env: HITSMOKE_CONFIG)")
	rootCmd.Flags().StringVar(&envFileFlag, "env-file", os.Getenv("HITSMOKE_ENV_FILE"), "Path to .env file with HITSMOKE_* variables (env: HITSMOKE_ENV_FILE)")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: HITSMOKE_NO_COLOR)")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print a banner, durations and debug logs (env: HITSMOKE_VERBOSE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func smokeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		output.NewConsoleFormatter(output.WithWriter(cmd.ErrOrStderr())).FormatError(err)
		return exitWith(ExitConfigError, err)
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithNoColor(cfg.GetNoColor()),
		output.WithVerbose(cfg.GetVerbose()),
	)

	logger := logr.Discard()
	if cfg.GetVerbose() {
		logger = log.NewStderrLogger(true)
	}

	// The per-step timeout set on the runner is the only deadline; 0 disables it.
	client := http.NewClient(
		http.WithTimeout(0),
		http.WithDefaultHeader("User-Agent", "hitsmoke/"+version),
	)

	runner := smoke.NewRunner(
		smoke.WithBaseURL(cfg.BaseURL),
		smoke.WithEndpoint(cfg.Endpoint),
		smoke.WithClient(client),
		smoke.WithTimeout(cfg.TimeoutDuration()),
		smoke.WithReporter(formatter),
		smoke.WithLogger(logger),
	)

	formatter.FormatHeader(version, runner.URL())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runner.Run(ctx)
	if err != nil {
		output.NewConsoleFormatter(
			output.WithWriter(cmd.ErrOrStderr()),
			output.WithNoColor(cfg.GetNoColor()),
		).FormatError(err)
		return exitWith(ExitNetworkError, err)
	}

	logger.V(1).Info("sequence complete", "steps", len(result.Results), "durationMs", result.Duration.Milliseconds())
	return nil
}

// resolveConfig layers defaults, the config file, HITSMOKE_* variables (from
// the environment or --env-file) and finally explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lookup, err := env.Load(envFileFlag)
	if err != nil {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg, err = cfg.ApplyEnv(lookup)
	if err != nil {
		return nil, err
	}

	flags := &config.Config{
		BaseURL:  baseURLFlag,
		Endpoint: endpointFlag,
	}
	if timeoutFlag != "" {
		ms, err := config.ParseTimeout(timeoutFlag)
		if err != nil {
			return nil, fmt.Errorf("--timeout: %w", err)
		}
		flags.Timeout = config.IntPtr(ms)
	}
	if cmd.Flags().Changed("no-color") {
		flags.NoColor = config.BoolPtr(noColorFlag)
	}
	if cmd.Flags().Changed("verbose") {
		flags.Verbose = config.BoolPtr(verboseFlag)
	}
	cfg = cfg.Merge(flags)

	if err := http.ValidateURL(http.JoinURL(cfg.BaseURL, cfg.Endpoint)); err != nil {
		return nil, fmt.Errorf("base URL %q: %w", cfg.BaseURL, err)
	}

	return cfg, nil
}
