/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/depotray/depotray/internal/config"
	"github.com/depotray/depotray/internal/domain"
	"github.com/depotray/depotray/internal/rest"
)

// unreadCmd represents the unread command
var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Print the authoritative unread count",
	Long: `Print the authoritative unread count.

Fetches the user's notifications once and prints the number of unread
ones. Suitable for status bars and scripts.

USAGE:
    depotray unread [OPTIONS]

OPTIONS:
    --user <id>    Local user id
    -h, --help     Show this help`,
	Run: runUnread,
}

var unreadUser int64

// unreadOutputWriter is the writer used by the unread command. Can be changed for testing.
var unreadOutputWriter io.Writer = os.Stdout

// unreadFetchFunc is the function used to fetch the unread set. Can be changed for testing.
var unreadFetchFunc = func(userID int64) ([]domain.Notification, error) {
	client := rest.New(config.Get("server_url", "http://localhost:8080"))
	return client.UnreadNotifications(context.Background(), userID)
}

func init() {
	rootCmd.AddCommand(unreadCmd)

	unreadCmd.Flags().Int64Var(&unreadUser, "user", 0, "Local user id")
}

func runUnread(cmd *cobra.Command, args []string) {
	userID := unreadUser
	if userID == 0 {
		userID = config.GetInt64("user_id", 0)
	}
	unread, err := unreadFetchFunc(userID)
	if err != nil {
		exitOnError(fmt.Errorf("fetch unread count: %w", err))
		return
	}
	fmt.Fprintf(unreadOutputWriter, "%d\n", len(unread))
}
