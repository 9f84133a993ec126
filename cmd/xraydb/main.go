package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/xraydb/cmd/xraydb/commands"
	"github.com/teranos/xraydb/errors"
	"github.com/teranos/xraydb/logger"
)

var rootCmd = &cobra.Command{
	Use:   "xraydb",
	Short: "xraydb - X-ray reference data to SQLite",
	Long: `xraydb - Build an SQLite database of fundamental X-ray parameters.

Reads the Elam, Ravel & Sieber X-ray fluorescence data file together with the
Waasmaier & Kirfel f0 table, the Keski-Rahkonen & Krause core-hole widths and
Chantler's f'/f'' tables, and writes them into one relational database.

Available commands:
  build   - Build the reference database
  am      - Manage xraydb configuration ("I am")
  version - Show version information

Examples:
  xraydb build                  # Build xraydb.sqlite from the current directory
  xraydb build -f               # Overwrite an existing database
  xraydb build --dry-run        # Parse every source without writing
  xraydb am show                # Show current configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(logJSON, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON on stderr")

	rootCmd.AddCommand(commands.BuildCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Cleanup()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		// -vvv prints the full chain with stack traces
		if verbosity, _ := rootCmd.PersistentFlags().GetCount("verbose"); logger.ShouldLogTrace(verbosity) {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
