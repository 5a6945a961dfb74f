package commands

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/uiforge/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeResult(cmd, versionInfo(version.Get()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionInfo prints the multi-line form in text mode.
type versionInfo version.Info

func (v versionInfo) String() string {
	return version.Info(v).Full()
}
