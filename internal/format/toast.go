// Package format renders notifications and toasts for console display.
package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/depotray/depotray/internal/domain"
	"github.com/depotray/depotray/internal/toast"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	linkStyle    = lipgloss.NewStyle().Faint(true)
	badgeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
)

// kindStyle returns the lipgloss style for a notification kind.
func kindStyle(kind domain.Kind) lipgloss.Style {
	switch kind {
	case domain.KindWarning:
		return warningStyle
	case domain.KindError:
		return errorStyle
	default:
		return infoStyle
	}
}

// Toast renders a single toast item as a console line.
func Toast(item toast.Item) string {
	n := item.Notification
	var b strings.Builder
	b.WriteString(kindStyle(n.Kind).Render(fmt.Sprintf("[%s]", n.Kind)))
	b.WriteString(" ")
	b.WriteString(titleStyle.Render(n.Title))
	if n.Message != "" {
		b.WriteString(": ")
		b.WriteString(n.Message)
	}
	if n.Link != "" {
		b.WriteString(" ")
		b.WriteString(linkStyle.Render(n.Link))
	}
	return b.String()
}

// UnreadBadge renders the unread count badge.
func UnreadBadge(count int) string {
	if count == 0 {
		return "no unread notifications"
	}
	return badgeStyle.Render(fmt.Sprintf("unread: %d", count))
}

// NotificationLine renders a fetched notification for list output.
func NotificationLine(n domain.Notification) string {
	read := " "
	if !n.Read {
		read = "*"
	}
	return fmt.Sprintf("%s %6d  %s  %s",
		read, n.ID, kindStyle(n.Kind).Render(fmt.Sprintf("%-7s", n.Kind)), n.Title)
}
