// Package notify delivers alert messages to users.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Message is a plain-text message to a single recipient.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier sends one message. A nil error means the message has been accepted
// for delivery.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// Log writes messages to the log instead of delivering them.
type Log struct{}

func (Log) Send(_ context.Context, message Message) error {
	log.Info().Str("to", message.To).Str("subject", message.Subject).Msg(message.Body)
	return nil
}
