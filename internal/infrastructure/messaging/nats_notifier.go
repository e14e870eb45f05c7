package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
)

// SubjectPrefix is prepended to the channel name to form the subject.
const SubjectPrefix = "rockfall.alerts."

// MsgPublisher is the subset of *nats.Conn the notifier needs.
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// AlertNotification is the payload handed to channel gateways.
type AlertNotification struct {
	CreatedAt time.Time `json:"created_at"`
	AlertID   string    `json:"alert_id"`
	MineID    string    `json:"mine_id"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	RiskLevel string    `json:"risk_level"`
	Message   string    `json:"message"`
}

// NATSNotifier implements port.Notifier by publishing to NATS, one subject
// per channel. Gateways for email, SMS, calls and push subscribe there.
type NATSNotifier struct {
	conn     MsgPublisher
	logger   *slog.Logger
	attempts int
	delay    time.Duration
}

var _ port.Notifier = (*NATSNotifier)(nil)

// NATSOption configures a NATSNotifier.
type NATSOption func(*NATSNotifier)

// WithRetry sets the number of publish attempts and the initial backoff.
func WithRetry(attempts int, delay time.Duration) NATSOption {
	return func(n *NATSNotifier) {
		n.attempts = attempts
		n.delay = delay
	}
}

// NewNATSNotifier creates a notifier that publishes over conn.
func NewNATSNotifier(conn MsgPublisher, logger *slog.Logger, opts ...NATSOption) *NATSNotifier {
	n := &NATSNotifier{conn: conn, logger: logger, attempts: 3, delay: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(n)
	}
	if n.attempts < 1 {
		n.attempts = 1
	}
	return n
}

// Notify publishes the alert. Publish failures are retried with
// exponential backoff and full jitter.
func (n *NATSNotifier) Notify(ctx context.Context, alert *model.Alert) error {
	payload, err := json.Marshal(AlertNotification{
		AlertID:   alert.ID().String(),
		MineID:    alert.MineID(),
		Channel:   alert.Channel().String(),
		Recipient: alert.Recipient(),
		RiskLevel: alert.RiskLevel().String(),
		Message:   alert.Message(),
		CreatedAt: alert.CreatedAt(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert %s: %w", alert.ID(), err)
	}

	hdr := nats.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(http.Header(hdr)))
	hdr.Set("Alert-Id", alert.ID().String())

	msg := &nats.Msg{
		Subject: SubjectPrefix + alert.Channel().String(),
		Data:    payload,
		Header:  hdr,
	}

	cur := n.delay
	for attempt := 1; ; attempt++ {
		err = n.conn.PublishMsg(msg)
		if err == nil {
			return nil
		}
		if attempt == n.attempts {
			return fmt.Errorf("failed to publish alert to %s after %d attempts: %w", msg.Subject, attempt, err)
		}

		n.logger.Warn("alert publish failed, retrying",
			slog.String("alert_id", alert.ID().String()),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rand.N(cur + 1)):
		}
		cur *= 2
	}
}

// LogNotifier logs alerts instead of delivering them. It is used when no
// NATS server is configured.
type LogNotifier struct {
	logger *slog.Logger
}

var _ port.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the alert and reports success.
func (n *LogNotifier) Notify(_ context.Context, alert *model.Alert) error {
	n.logger.Info("alert notification",
		slog.String("alert_id", alert.ID().String()),
		slog.String("mine_id", alert.MineID()),
		slog.String("channel", alert.Channel().String()),
		slog.String("recipient", alert.Recipient()),
		slog.String("risk_level", alert.RiskLevel().String()),
	)
	return nil
}
