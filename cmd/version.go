/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/depotray/depotray/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show version information.

USAGE:
    depotray version`,
	Run: runVersion,
}

// versionOutputWriter is the writer used by the version command. Can be changed for testing.
var versionOutputWriter io.Writer = os.Stdout

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintf(versionOutputWriter, "depotray v%s\n", version.String())
}
