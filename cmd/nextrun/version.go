package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/nextrun/internal/version"
)

var versionShort bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Display the version, build time, git commit and Go version of nextrun.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, version.String())
			return
		}
		fmt.Fprintln(out, "nextrun - recurring schedule resolution")
		fmt.Fprintf(out, "Version: %s\n", version.Version)
		fmt.Fprintf(out, "Build Time: %s\n", version.BuildTime)
		fmt.Fprintf(out, "Git Commit: %s\n", version.GitCommit)
		fmt.Fprintf(out, "Go Version: %s\n", version.GoVersion)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print a single line")
}
