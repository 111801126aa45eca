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
	"github.com/depotray/depotray/internal/format"
	"github.com/depotray/depotray/internal/rest"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications for the configured user",
	Long: `List notifications for the configured user.

Unread notifications are marked with an asterisk.

USAGE:
    depotray list [OPTIONS]

OPTIONS:
    --user <id>    Local user id
    --unread       Show only unread notifications
    -h, --help     Show this help`,
	Run: runList,
}

var (
	listUser       int64
	listUnreadOnly bool
)

// listOutputWriter is the writer used by the list command. Can be changed for testing.
var listOutputWriter io.Writer = os.Stdout

// listFetchFunc is the function used to fetch notifications. Can be changed for testing.
var listFetchFunc = func(userID int64) ([]domain.Notification, error) {
	client := rest.New(config.Get("server_url", "http://localhost:8080"))
	return client.Notifications(context.Background(), userID)
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Int64Var(&listUser, "user", 0, "Local user id")
	listCmd.Flags().BoolVar(&listUnreadOnly, "unread", false, "Show only unread notifications")
}

func runList(cmd *cobra.Command, args []string) {
	userID := listUser
	if userID == 0 {
		userID = config.GetInt64("user_id", 0)
	}
	list, err := listFetchFunc(userID)
	if err != nil {
		exitOnError(fmt.Errorf("fetch notifications: %w", err))
		return
	}
	for _, n := range list {
		if listUnreadOnly && n.Read {
			continue
		}
		fmt.Fprintln(listOutputWriter, format.NotificationLine(n))
	}
}
