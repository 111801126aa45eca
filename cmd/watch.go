/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/depotray/depotray/internal/colors"
	"github.com/depotray/depotray/internal/config"
	"github.com/depotray/depotray/internal/domain"
	"github.com/depotray/depotray/internal/format"
	"github.com/depotray/depotray/internal/logging"
	"github.com/depotray/depotray/internal/notify"
	"github.com/depotray/depotray/internal/rest"
	"github.com/depotray/depotray/internal/toast"
	"github.com/depotray/depotray/internal/transport"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live notifications to the terminal",
	Long: `Stream live notifications to the terminal.

Connects to the push endpoint for the configured role, prints each
notification as it arrives, and keeps the unread badge reconciled with
the server.

USAGE:
    depotray watch [OPTIONS]

OPTIONS:
    --role <role>      Session role: supervisor or worker
    --user <id>        Local user id (recipient filtering)
    -h, --help         Show this help

EXAMPLES:
    depotray watch --role supervisor
    depotray watch --role worker --user 7`,
	Run: runWatch,
}

var (
	watchRole string
	watchUser int64
)

// watchOutputWriter is the writer used by the watch loop. Can be changed for testing.
var watchOutputWriter io.Writer = os.Stdout

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchRole, "role", "", "Session role: supervisor or worker")
	watchCmd.Flags().Int64Var(&watchUser, "user", 0, "Local user id")
}

func runWatch(cmd *cobra.Command, args []string) {
	roleValue := watchRole
	if roleValue == "" {
		roleValue = config.Get("role", "")
	}
	role, err := domain.ParseRole(roleValue)
	if err != nil {
		exitOnError(fmt.Errorf("watch requires a role: %w", err))
		return
	}
	userID := watchUser
	if userID == 0 {
		userID = config.GetInt64("user_id", 0)
	}

	clk := clock.New()
	client := rest.New(config.Get("server_url", "http://localhost:8080"))
	service := notify.New(notify.Options{
		Role:                 role,
		UserID:               userID,
		WSURL:                config.Get("ws_url", "ws://localhost:8080/ws"),
		Fetcher:              client,
		Deleter:              client,
		Dialer:               transport.NewWebsocketDialer(logging.GetGlobal()),
		Clock:                clk,
		Logger:               logging.GetGlobal(),
		ToastCapacity:        config.GetInt("toast_capacity", toast.DefaultCapacity),
		ToastDuration:        config.GetDuration("toast_duration_ms", time.Millisecond, toast.DefaultDuration),
		AutoDismiss:          config.GetBool("toast_auto_dismiss", true),
		ToastEventBuffer:     16,
		ResyncInterval:       config.GetDuration("resync_interval_seconds", time.Second, 30*time.Second),
		ReconnectBaseDelay:   config.GetDuration("reconnect_base_delay_ms", time.Millisecond, 3*time.Second),
		ReconnectMaxAttempts: config.GetInt("reconnect_max_attempts", 5),
		OnConnected: func() {
			colors.Success("connected to notification stream")
		},
		OnError: func(err error) {
			colors.Warning(fmt.Sprintf("notification stream unavailable: %v", err))
		},
	})

	service.Start()
	defer service.Stop()

	colors.Info("Watching notifications (Ctrl+C to stop)...")
	watchLoop(service, watchOutputWriter, clk)
}

// badgeRefreshInterval is how often the watch loop checks for badge changes
// that arrive without a feed event (resync overwrites, concurrent markread).
const badgeRefreshInterval = time.Second

// watchLoop prints feed events and badge updates until interruption. The
// badge is reprinted whenever the count changes, not only on pushes.
func watchLoop(service *notify.Service, w io.Writer, clk clock.Clock) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := clk.Ticker(badgeRefreshInterval)
	defer ticker.Stop()

	lastCount := service.UnreadCount()
	events := service.Feed().Events()
	for {
		select {
		case sig := <-sigChan:
			fmt.Fprintf(w, "\nReceived signal %v, stopping...\n", sig)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type != toast.EventPushed {
				continue
			}
			fmt.Fprintln(w, format.Toast(ev.Item))
			lastCount = service.UnreadCount()
			fmt.Fprintln(w, format.UnreadBadge(lastCount))
		case <-ticker.C:
			if count := service.UnreadCount(); count != lastCount {
				lastCount = count
				fmt.Fprintln(w, format.UnreadBadge(count))
			}
		}
	}
}
