// Package alert delivers monitor alerts to a notification channel.
// Delivery is best effort: failures are logged and swallowed so a transport
// outage never aborts a poll pass.
package alert

import "context"

// Sink accepts a formatted alert message and attempts delivery.
type Sink interface {
	Send(ctx context.Context, message string)
}
