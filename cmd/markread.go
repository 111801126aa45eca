/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/depotray/depotray/internal/colors"
	"github.com/depotray/depotray/internal/config"
	"github.com/depotray/depotray/internal/rest"
)

// markreadCmd represents the markread command
var markreadCmd = &cobra.Command{
	Use:   "markread <id>...",
	Short: "Mark notifications as read (deletes them server-side)",
	Long: `Mark notifications as read (deletes them server-side).

USAGE:
    depotray markread <id>...

EXAMPLES:
    depotray markread 12
    depotray markread 12 13 14`,
	Args: cobra.MinimumNArgs(1),
	Run:  runMarkread,
}

// markreadDeleteFunc is the function used to delete a notification. Can be changed for testing.
var markreadDeleteFunc = func(id int64) error {
	client := rest.New(config.Get("server_url", "http://localhost:8080"))
	return client.DeleteNotification(context.Background(), id)
}

func init() {
	rootCmd.AddCommand(markreadCmd)
}

func runMarkread(cmd *cobra.Command, args []string) {
	failed := 0
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			colors.Error(fmt.Sprintf("invalid notification id %q", arg))
			failed++
			continue
		}
		if err := markreadDeleteFunc(id); err != nil {
			colors.Error(fmt.Sprintf("mark read %d: %v", id, err))
			failed++
			continue
		}
		colors.Success(fmt.Sprintf("notification %d marked read", id))
	}
	if failed > 0 {
		exitOnError(fmt.Errorf("%d of %d notifications failed", failed, len(args)))
	}
}
