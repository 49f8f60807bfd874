// Package email delivers generated newsletters to recipients.
package email

import (
	"context"
	"log"
)

// Sender delivers a rendered newsletter. Implementations wrap a real provider
// (SMTP, SES, SendGrid); delivery is best effort and never blocks a workflow
// result.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender writes the outgoing message to the process log instead of
// delivering it. It is the default until a real provider is configured.
type LogSender struct{}

// Send logs the message that would have been delivered.
func (LogSender) Send(_ context.Context, to, subject, body string) error {
	log.Printf("would send email to %s", to)
	log.Printf("subject: %s", subject)
	preview := body
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	log.Printf("body preview: %s", preview)
	return nil
}
