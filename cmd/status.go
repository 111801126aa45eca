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

	"github.com/depotray/depotray/internal/colors"
	"github.com/depotray/depotray/internal/config"
	"github.com/depotray/depotray/internal/domain"
	"github.com/depotray/depotray/internal/rest"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show unread notification summary",
	Long: `Show unread notification summary.

Fetches the authoritative notification list for the configured user and
prints unread counts, overall and per kind.

USAGE:
    depotray status [OPTIONS]

OPTIONS:
    --user <id>          Local user id
    --format=<format>    Output format: summary, count-only (default: summary)
    -h, --help           Show this help`,
	Run: runStatus,
}

var (
	statusUser   int64
	statusFormat string
)

// statusOutputWriter is the writer used by PrintStatus. Can be changed for testing.
var statusOutputWriter io.Writer = os.Stdout

// statusFetchFunc is the function used to fetch notifications. Can be changed for testing.
var statusFetchFunc = func(userID int64) ([]domain.Notification, error) {
	client := rest.New(config.Get("server_url", "http://localhost:8080"))
	return client.Notifications(context.Background(), userID)
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Int64Var(&statusUser, "user", 0, "Local user id")
	statusCmd.Flags().StringVar(&statusFormat, "format", "summary", "Output format: summary, count-only")
}

func runStatus(cmd *cobra.Command, args []string) {
	userID := statusUser
	if userID == 0 {
		userID = config.GetInt64("user_id", 0)
	}
	if err := PrintStatus(userID, statusFormat); err != nil {
		exitOnError(err)
	}
}

// PrintStatus prints the unread summary according to the provided format.
func PrintStatus(userID int64, formatName string) error {
	if statusOutputWriter == nil {
		statusOutputWriter = os.Stdout
	}
	return printStatus(userID, formatName, statusOutputWriter)
}

func printStatus(userID int64, formatName string, w io.Writer) error {
	list, err := statusFetchFunc(userID)
	if err != nil {
		return fmt.Errorf("fetch notifications: %w", err)
	}

	unread := 0
	byKind := map[domain.Kind]int{}
	for _, n := range list {
		if n.Read {
			continue
		}
		unread++
		byKind[n.Kind]++
	}

	switch formatName {
	case "summary":
		if len(list) == 0 {
			fmt.Fprintf(w, "%sNo notifications%s\n", colors.Blue, colors.Reset)
			return nil
		}
		fmt.Fprintf(w, "%sUnread notifications: %d%s\n", colors.Blue, unread, colors.Reset)
		fmt.Fprintf(w, "%sTotal notifications: %d%s\n", colors.Blue, len(list), colors.Reset)
		if unread > 0 {
			fmt.Fprintf(w, "%s  info: %d, warning: %d, error: %d%s\n",
				colors.Blue, byKind[domain.KindInfo], byKind[domain.KindWarning], byKind[domain.KindError], colors.Reset)
		}
	case "count-only":
		fmt.Fprintf(w, "%d\n", unread)
	default:
		fmt.Fprintf(w, "Unknown format: %s\n", formatName)
	}
	return nil
}
