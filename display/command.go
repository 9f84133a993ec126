package display

import (
	"os"

	"github.com/spf13/cobra"
)

// OutputEnv selects JSON output when set to "json".
const OutputEnv = "XRAYDB_OUTPUT"

// ShouldOutputJSON determines if a command should output JSON.
// An explicit --json flag wins, then the root --json flag, then XRAYDB_OUTPUT.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return envJSON()
	}

	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	if globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json"); globalFlag {
		return true
	}

	return envJSON()
}

func envJSON() bool {
	return os.Getenv(OutputEnv) == "json"
}
