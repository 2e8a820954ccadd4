package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const currentReleaseVersion = "v0.1.0"

// rootCmd is the base for all commands.
var rootCmd = &cobra.Command{
	Use:   "macemu [command]",
	Short: "macemu is a Macintosh Plus emulator",
	Long:  "macemu runs an unmodified Mac Plus v3 ROM image against an emulated memory map, VIA, SCC, and floppy replacement.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Unknown command. Try `macemu help` for more information")
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs macemu according to the user's command/subcommand/flags.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
