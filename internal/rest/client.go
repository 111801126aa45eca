// Package rest provides the client for the notification REST collaborators
// consumed by the reconciliation and mark-read flows.
package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/depotray/depotray/internal/domain"
)

// Client is the notification API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Notifications fetches all notifications for a user.
func (c *Client) Notifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	body, err := c.get(ctx, "/api/notifications/user/"+strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, fmt.Errorf("rest.Notifications: %w", err)
	}
	list, err := domain.DecodeNotificationList(body)
	if err != nil {
		return nil, fmt.Errorf("rest.Notifications: %w", err)
	}
	return list, nil
}

// UnreadNotifications fetches the user's notifications and returns the
// unread subset. Its length is the authoritative unread cardinality the
// reconciliation engine overwrites with.
func (c *Client) UnreadNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	list, err := c.Notifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread := make([]domain.Notification, 0, len(list))
	for _, n := range list {
		if !n.Read {
			unread = append(unread, n)
		}
	}
	return unread, nil
}

// DeleteNotification deletes a notification by id, used by the
// mark-read/delete flows.
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/notifications/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return fmt.Errorf("rest.DeleteNotification: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rest.DeleteNotification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rest.DeleteNotification: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
