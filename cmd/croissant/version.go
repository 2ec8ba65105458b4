package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"croissant/internal/output"
	"croissant/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information and the supported operators",
	Long: `Print the croissant build along with what it can do: the known operators,
the handler chain in effect, the Morse signals and the weapons.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		b := version.Current()
		b.Chain = a.cfg.Chain

		if a.format() == output.FormatHuman {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), b)
			return err
		}
		return output.Write(cmd.OutOrStdout(), b, a.format())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
