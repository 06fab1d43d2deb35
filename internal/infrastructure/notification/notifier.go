package notification

import (
	"context"
	"time"

	"agrimarket.backend/pkg/logger"
	"go.uber.org/zap"
)

// Message is one outbound email
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Body    string
}

// Notifier delivers messages to users
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier only logs messages. Used when no mail provider is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, msg Message) error {
	logger.Info(ctx, "Notification (mail disabled)",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// AsyncNotifier hands messages to inner on a background goroutine so
// request handlers never wait on the mail provider. Failures are logged.
type AsyncNotifier struct {
	inner   Notifier
	timeout time.Duration
	done    func()
}

func NewAsyncNotifier(inner Notifier, timeout time.Duration) *AsyncNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AsyncNotifier{inner: inner, timeout: timeout}
}

// Notify always returns nil; delivery happens in the background
func (a *AsyncNotifier) Notify(ctx context.Context, msg Message) error {
	bg := context.WithoutCancel(ctx)
	go func() {
		if a.done != nil {
			defer a.done()
		}
		sendCtx, cancel := context.WithTimeout(bg, a.timeout)
		defer cancel()
		if err := a.inner.Notify(sendCtx, msg); err != nil {
			logger.Error(bg, "Failed to deliver notification",
				zap.String("to", msg.ToEmail),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}()
	return nil
}
