// Package notify delivers account verification links to users.
package notify

import (
	"context"

	"github.com/dmitrijs2005/docdrop/internal/logging"
)

// Notifier sends a verification URL to the owner of email.
type Notifier interface {
	SendVerification(ctx context.Context, email, url string) error
}

// LogNotifier writes verification links to the log. Meant for development
// setups without a mail relay.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendVerification(ctx context.Context, email, url string) error {
	n.log.Info(ctx, "verification link issued", "email", email, "url", url)
	return nil
}
