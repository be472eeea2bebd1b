package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// Event types
const (
	EventComplete = "on_complete"
)

// DefaultChannel is used when notifications.slack.channel is empty.
const DefaultChannel = "#benchmarks"

// Manager posts benchmark notifications to Slack.
type Manager struct {
	client    slackPoster
	channelID string
}

// NewManager creates a Manager from viper settings. It returns a Nop
// notifier when Slack is disabled or SLACK_BOT_USER_TOKEN is not set.
func NewManager() Notifier {
	if !viper.GetBool("notifications.slack.enabled") {
		return Nop{}
	}

	botToken := os.Getenv("SLACK_BOT_USER_TOKEN")
	if botToken == "" {
		slog.Warn("SLACK_BOT_USER_TOKEN not set, slack notifications disabled")
		return Nop{}
	}

	return &Manager{
		client:    slack.New(botToken),
		channelID: viper.GetString("notifications.slack.channel"),
	}
}

// Notify sends message if the event is enabled in configuration.
func (m *Manager) Notify(ctx context.Context, eventType string, message string) error {
	if !isEnabled(eventType) {
		slog.Debug("Notification event disabled", "event", eventType)
		return nil
	}

	channelID := m.channelID
	if channelID == "" {
		channelID = DefaultChannel
	}

	_, _, err := m.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	return nil
}

func isEnabled(eventType string) bool {
	key := "notifications.slack.events." + eventType
	if !viper.IsSet(key) {
		return true
	}
	return viper.GetBool(key)
}
