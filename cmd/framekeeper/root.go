package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/framekeeper/internal/app"
	"github.com/five82/framekeeper/internal/protocol"
)

// maxClassLength is the longest class name the window lookup accepts.
const maxClassLength = protocol.MaxLineSize - 1

type rootFlags struct {
	configPath string
	logLevel   string
	logFile    string
	simulate   bool
}

// runFunc is swapped in tests.
var runFunc = app.Run

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "framekeeper [flags] <pid> <window-class>",
		Short: "Keep a window's frame in step with the system theme",
		Long: `framekeeper finds the top-level window of class <window-class> owned by
process <pid> and manages its frame decorations: border extension, dark mode
and the system backdrop material.

The host drives it with one request per line on stdin:

  <serial> config <extend:0|1><backdrop:0-4>
  <serial> theme <ignored>
  <serial> accent <ignored>
  <serial> exit <ignored>

Responses and broadcasts are written to stdout. Diagnostics go to stderr or
the configured log file.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("invalid number of arguments: %d", len(args)+1)
			}
			pid, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid process id: %q", args[0])
			}
			if len(args[1]) > maxClassLength {
				return fmt.Errorf("window class too long: %d", len(args[1]))
			}

			// Run reports its own failures to the host.
			if err := runFunc(cmd.Context(), app.Options{
				PID:        uint32(pid),
				Class:      args[1],
				In:         stdin,
				Out:        stdout,
				ConfigPath: flags.configPath,
				LogLevel:   flags.logLevel,
				LogFile:    flags.logFile,
				Simulate:   flags.simulate,
				LogOutput:  stderr,
			}); err != nil {
				fmt.Fprintf(stderr, "framekeeper: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "config file path (default ~/.config/framekeeper/config.toml)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")
	cmd.Flags().BoolVar(&flags.simulate, "simulate", false, "use the simulated backend")

	cmd.SetIn(stdin)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	return cmd
}

// execute runs the command line. Argument and flag problems become a single
// error broadcast on stdout.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		protocol.NewWriter(stdout).Errorf("%v", err)
	}
}
