// Package telegraph delivers rendered dispatch notices to chat platforms
// (Slack, Discord).
package telegraph

import (
	"context"

	"github.com/zulandar/haulyard/internal/notice"
)

// Adapter is the interface that platform-specific implementations must satisfy.
type Adapter interface {
	// Connect authenticates with the chat platform.
	Connect(ctx context.Context) error

	// Send delivers an outbound message to the platform.
	Send(ctx context.Context, msg OutboundMessage) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// OutboundMessage represents a message to be sent to the chat platform.
type OutboundMessage struct {
	ChannelID string           // target channel; empty uses the adapter default
	Text      string           // fallback text
	Events    []FormattedEvent // structured attachments
}

// FormattedEvent is a dispatch notice formatted for display in chat.
type FormattedEvent struct {
	Title    string
	URL      string           // title link
	Notice   *notice.Document // rendered in the platform's own markup
	Severity string           // "info", "warning", "error", "success"
	Color    string           // sidebar color hint
	Fields   []Field
}

// Field is a key-value pair displayed in an event attachment.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}
