package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitsmoke/packages/log"
	"github.com/abdul-hamid-achik/hitsmoke/packages/mock"
	"github.com/spf13/cobra"
)

var (
	servePortFlag    int
	serveDelayFlag   string
	serveVerboseFlag bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the in-memory reference server",
	Long: `Start an HTTP server that keeps the last body written to each path.

The server:
- Stores POST, PUT and PATCH bodies sent as text or JSON (412 without a
  Content-Type, 415 for other media types)
- Returns the stored body on GET, 404 when there is none
- Removes the stored body on DELETE (204), 404 when there is none
- Can add an artificial delay to every response

Examples:
  hitsmoke serve
  hitsmoke serve --port 3000
  hitsmoke serve --delay 100ms --verbose`,
	Args: cobra.NoArgs,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().IntVarP(&servePortFlag, "port", "p", 8080, "Port to run the server on")
	serveCmd.Flags().StringVarP(&serveDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	serveCmd.Flags().BoolVarP(&serveVerboseFlag, "verbose", "v", false, "Log every request")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	var delay time.Duration
	if serveDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(serveDelayFlag)
		if err != nil {
			return fmt.Errorf("invalid delay value %q: %w", serveDelayFlag, err)
		}
	}

	logger := log.NewStderrLogger(serveVerboseFlag)

	server := mock.NewServer(
		mock.WithPort(servePortFlag),
		mock.WithDelay(delay),
		mock.WithVersion(version),
		mock.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.StartWithContext(ctx); err != nil {
		logger.Error(err, "reference server failed")
		return exitWith(ExitFailure, err)
	}

	logger.Info("reference server stopped")
	return nil
}
