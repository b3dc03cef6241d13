// Package notify forwards non-OK check results to a shoutrrr URL.
package notify

import (
	"fmt"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"megaraid-health-check/pkg/types"
)

// Sender abstracts message dispatch so the notifier can be tested
// without hitting real services.
type Sender interface {
	Send(url, message string) error
}

// ShoutrrrSender dispatches via the Shoutrrr library.
type ShoutrrrSender struct{}

func (ShoutrrrSender) Send(url, message string) error {
	return shoutrrr.Send(url, message)
}

// Notifier sends the status line of unhealthy checks
type Notifier struct {
	url    string
	sender Sender
}

// New creates a notifier for url. An empty url disables notifications.
func New(url string, sender Sender) *Notifier {
	if sender == nil {
		sender = ShoutrrrSender{}
	}
	return &Notifier{url: url, sender: sender}
}

// Enabled reports whether a URL is configured
func (n *Notifier) Enabled() bool {
	return n != nil && n.url != ""
}

// Notify sends the message when the severity is not OK. It reports whether a
// message was sent.
func (n *Notifier) Notify(target string, sev types.Severity, line string) (bool, error) {
	if !n.Enabled() || sev == types.SeverityOK {
		return false, nil
	}

	message := line
	if target != "" {
		message = fmt.Sprintf("[%s] %s", target, line)
	}
	if err := n.sender.Send(n.url, message); err != nil {
		return false, errors.Wrap(err, "sending notification")
	}
	log.WithFields(log.Fields{
		"target":   target,
		"severity": sev.String(),
	}).Debug("Notification sent")
	return true, nil
}
