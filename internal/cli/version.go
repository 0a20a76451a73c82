package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set by -ldflags at build time
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOut {
			printJSON(map[string]string{
				"version": Version,
				"commit":  Commit,
				"date":    Date,
				"go":      runtime.Version(),
			})
			return
		}
		fmt.Printf("navkit %s (%s, %s) %s\n", Version, Commit, Date, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
