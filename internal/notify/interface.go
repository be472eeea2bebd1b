package notify

import (
	"context"

	"github.com/slack-go/slack"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Notify(ctx context.Context, eventType string, message string) error
}

// slackPoster is the part of *slack.Client the manager uses.
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, string, string) error { return nil }
