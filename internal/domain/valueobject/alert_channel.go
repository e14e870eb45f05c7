package valueobject

import "fmt"

// AlertChannel is the delivery medium for a safety alert.
type AlertChannel struct {
	value string
}

var (
	AlertChannelEmail = AlertChannel{value: "email"}
	AlertChannelSMS   = AlertChannel{value: "sms"}
	AlertChannelCall  = AlertChannel{value: "call"}
	AlertChannelPush  = AlertChannel{value: "push"}
)

// AlertChannels lists every supported channel.
func AlertChannels() []AlertChannel {
	return []AlertChannel{AlertChannelEmail, AlertChannelSMS, AlertChannelCall, AlertChannelPush}
}

// AlertChannelFromString reconstructs an AlertChannel from its string representation.
func AlertChannelFromString(s string) (AlertChannel, error) {
	switch s {
	case "email":
		return AlertChannelEmail, nil
	case "sms":
		return AlertChannelSMS, nil
	case "call":
		return AlertChannelCall, nil
	case "push":
		return AlertChannelPush, nil
	default:
		return AlertChannel{}, fmt.Errorf("invalid alert channel: %s", s)
	}
}

func (c AlertChannel) String() string { return c.value }

func (c AlertChannel) IsZero() bool { return c.value == "" }

func (c AlertChannel) Equal(other AlertChannel) bool { return c.value == other.value }

// AlertStatus tracks delivery of an alert: pending until the notifier
// answers, then sent or failed.
type AlertStatus struct {
	value string
}

var (
	AlertStatusPending = AlertStatus{value: "pending"}
	AlertStatusSent    = AlertStatus{value: "sent"}
	AlertStatusFailed  = AlertStatus{value: "failed"}
)

// AlertStatusFromString reconstructs an AlertStatus from its string representation.
func AlertStatusFromString(s string) (AlertStatus, error) {
	switch s {
	case "pending":
		return AlertStatusPending, nil
	case "sent":
		return AlertStatusSent, nil
	case "failed":
		return AlertStatusFailed, nil
	default:
		return AlertStatus{}, fmt.Errorf("invalid alert status: %s", s)
	}
}

func (s AlertStatus) String() string { return s.value }

// IsTerminal reports whether delivery has settled.
func (s AlertStatus) IsTerminal() bool {
	return s == AlertStatusSent || s == AlertStatusFailed
}

func (s AlertStatus) Equal(other AlertStatus) bool { return s.value == other.value }
