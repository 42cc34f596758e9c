// printer-launch starts and optionally restarts the openbookv2
// trading-data printer under pidfile supervision.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	procman "github.com/axondata/go-procman"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// options holds CLI flags shared across subcommands
type options struct {
	stateDir string
	logDir   string
	noKill   bool
	verbose  bool

	logger *zap.Logger
}

func defaultStateDir() string {
	if dir := os.Getenv("PROCMAN_STATE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "procman")
}

func defaultLogDir() string {
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(defaultStateDir(), "log")
}

// newLogger builds a console logger matching the printer's own
// "timestamp [LEVEL] message" output.
func newLogger(verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.ConsoleSeparator = " "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "printer-launch [--no-kill] [EXTRA_ARG]",
		Short: "Start or restart the openbookv2 trading-data printer",
		Long: `printer-launch terminates any running openbookv2-printer instance and
starts a fresh one under pidfile supervision, with the printer's
connection parameters (market, RPC URL, gRPC endpoint, token) taken
from the environment. With --no-kill the running instance is left
alone and a new one is started only if none is running.

An optional EXTRA_ARG is forwarded verbatim to the printer command line.`,
		Version: procman.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(*cobra.Command, []string) {
			opts.logger = newLogger(opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd.Context(), opts, args)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.stateDir, "state-dir", defaultStateDir(), "directory for process records")
	root.PersistentFlags().StringVar(&opts.logDir, "log-dir", defaultLogDir(), "directory for process log files")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().BoolVar(&opts.noKill, "no-kill", false, "do not terminate a running instance first")

	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newStopCmd(opts))

	return root
}

func runLaunch(ctx context.Context, opts *options, args []string) error {
	defer func() { _ = opts.logger.Sync() }()

	if path := procman.LoadEnvFiles(); path != "" {
		opts.logger.Debug("loaded environment file", zap.String("path", path))
	}
	cfg := procman.PrinterConfigFromEnv()

	opts.logger.Info("launching printer",
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("grpc_url", cfg.GRPCURL),
		zap.Strings("markets", cfg.Markets),
		zap.String("commitment", cfg.Commitment.String()),
		zap.String("log_dir", opts.logDir),
	)

	client, err := procman.New(opts.stateDir, procman.WithLogDir(opts.logDir))
	if err != nil {
		return err
	}

	launcher := procman.NewLauncher(client, procman.PrinterProcessName, cfg.Command(), opts.logDir, opts.logger)
	return launcher.Launch(ctx, opts.noKill, args)
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the printer's supervision status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := procman.New(opts.stateDir, procman.WithLogDir(opts.logDir))
			if err != nil {
				return err
			}

			st, err := client.Status(cmd.Context(), procman.PrinterProcessName)
			if err != nil {
				return err
			}

			switch st.State {
			case procman.StateRunning:
				fmt.Printf("%s: running (pid %d, up %s)\n",
					procman.PrinterProcessName, st.PID, st.Uptime.Round(time.Second))
			case procman.StateStale:
				fmt.Printf("%s: stale record (pid %d is dead)\n", procman.PrinterProcessName, st.PID)
			default:
				fmt.Printf("%s: down\n", procman.PrinterProcessName)
			}
			return nil
		},
	}
}

func newStopCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the printer if it is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := procman.New(opts.stateDir, procman.WithLogDir(opts.logDir))
			if err != nil {
				return err
			}

			if err := client.KillProcess(cmd.Context(), procman.PrinterProcessName); err != nil {
				return err
			}
			opts.logger.Info("printer stopped", zap.String("name", procman.PrinterProcessName))
			return nil
		},
	}
}
