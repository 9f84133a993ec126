package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/teranos/xraydb/am"
	"github.com/teranos/xraydb/display"
	ixbuild "github.com/teranos/xraydb/ixgest/build"
	"github.com/teranos/xraydb/logger"
)

// BuildCmd represents the build command
var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the X-ray reference database",
	Long: `Build the X-ray reference database from the source tables.

Sources are read from sources.dir (default: current directory):
  elam.dat                  Elam, Ravel & Sieber edges, lines, Coster-Kronig, curves
  waasmaeir_kirfel.dat      Waasmaier & Kirfel f0 coefficients
  keskirahkonen_krause.dat  Keski-Rahkonen & Krause core-hole widths
  chantler/NN.dat           Chantler f'/f'' original grid
  chantler/NN_fine.dat      Chantler f'/f'' fine grid

Every source is parsed before the database is created. If writing fails the
database file is removed, so a failed build never leaves partial output.

Examples:
  xraydb build                          # Write xraydb.sqlite
  xraydb build --db /tmp/xray.sqlite    # Custom destination
  xraydb build -f                       # Overwrite an existing database
  xraydb build -s                       # Skip quietly if elam.dat is missing or the database exists
  xraydb build --sources ./data --json  # Read sources from ./data, JSON summary`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	BuildCmd.Flags().BoolP("force", "f", false, "Overwrite an existing database")
	BuildCmd.Flags().BoolP("silent", "s", false, "Skip instead of failing when a source is missing or the database exists")
	BuildCmd.Flags().Bool("dry-run", false, "Parse every source and report counts without writing")
	BuildCmd.Flags().String("db", "", "Destination database path (default: database.path)")
	BuildCmd.Flags().String("sources", "", "Directory holding the source files (default: sources.dir)")
	BuildCmd.Flags().Bool("json", false, "Output results in JSON format")
}

func runBuild(cmd *cobra.Command, args []string) error {
	useJSON := display.ShouldOutputJSON(cmd)

	force, _ := cmd.Flags().GetBool("force")
	silent, _ := cmd.Flags().GetBool("silent")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	dest, _ := cmd.Flags().GetString("db")
	sourcesDir, _ := cmd.Flags().GetString("sources")

	loaded, err := am.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := *loaded
	if sourcesDir != "" {
		cfg.Sources.Dir = sourcesDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	processor := ixbuild.NewProcessor(&cfg, ixbuild.Options{
		Destination: dest,
		Force:       force,
		Silent:      silent,
		DryRun:      dryRun,
	}, logger.ComponentLogger("ixgest.build"))

	var spinner *pterm.SpinnerPrinter
	if !useJSON {
		pterm.DefaultHeader.WithFullWidth().Printf("xraydb build")
		pterm.Println()
		if dryRun {
			pterm.Warning.Println("DRY RUN MODE: No database will be written")
		}
		pterm.Info.Printf("Sources: %s\n", cfg.SourcePath("."))
		spinner, _ = pterm.DefaultSpinner.Start("Reading reference tables...")
	}

	start := time.Now()
	result, err := processor.Process(cmd.Context())
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		if !useJSON {
			pterm.Error.Printf("Build failed: %v\n", err)
		}
		return err
	}

	if useJSON {
		return display.OutputJSON(cmd.OutOrStdout(), result)
	}

	if result.Skipped {
		pterm.Warning.Println(result.Message)
		return nil
	}

	pterm.Println()
	if err := pterm.DefaultTable.WithHasHeader().WithData(summaryTable(result)).Render(); err != nil {
		return err
	}
	pterm.Println()

	pterm.Success.Printf("%s: %s (%d rows in %s)\n",
		result.Message, result.Destination, result.TotalRows, time.Since(start).Round(time.Millisecond))
	return nil
}

// summaryTable renders one row per destination table.
func summaryTable(result *ixbuild.Result) pterm.TableData {
	data := pterm.TableData{{"Source", "Table", "Rows"}}
	for _, src := range result.Sources {
		if src.Skipped {
			data = append(data, []string{src.Label, "-", "skipped"})
			continue
		}
		tables := lo.Keys(src.Tables)
		sort.Strings(tables)
		for _, table := range tables {
			data = append(data, []string{src.Label, table, fmt.Sprint(src.Tables[table])})
		}
	}
	return data
}
