package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/minesafe/rockfall/internal/domain/model"
)

// SendAlertRequest dispatches a manual alert for a mine over one channel.
type SendAlertRequest struct {
	MineID  string `json:"mine_id"`
	Channel string `json:"channel"`
}

// ListAlertsRequest asks for a mine's alert log.
type ListAlertsRequest struct {
	MineID string `json:"mine_id"`
}

// AlertResponse describes one alert.
type AlertResponse struct {
	CreatedAt     time.Time  `json:"created_at"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
	MineID        string     `json:"mine_id"`
	Channel       string     `json:"channel"`
	Status        string     `json:"status"`
	Recipient     string     `json:"recipient"`
	Message       string     `json:"message"`
	RiskLevel     string     `json:"risk_level"`
	FailureReason string     `json:"failure_reason,omitempty"`
	ID            uuid.UUID  `json:"id"`
}

// AlertLogResponse is the recent alert history of a mine.
type AlertLogResponse struct {
	MineID  string          `json:"mine_id"`
	Alerts  []AlertResponse `json:"alerts"`
	Sent    int             `json:"sent"`
	Pending int             `json:"pending"`
	Failed  int             `json:"failed"`
}

// FromAlert maps an Alert to its response DTO.
func FromAlert(a *model.Alert) AlertResponse {
	resp := AlertResponse{
		ID:            a.ID(),
		MineID:        a.MineID(),
		Channel:       a.Channel().String(),
		Status:        a.Status().String(),
		Recipient:     a.Recipient(),
		Message:       a.Message(),
		RiskLevel:     a.RiskLevel().String(),
		FailureReason: a.FailureReason(),
		CreatedAt:     a.CreatedAt(),
	}
	if settled := a.SettledAt(); !settled.IsZero() {
		resp.SettledAt = &settled
	}
	return resp
}

// FromAlerts maps alerts and their status counts to an AlertLogResponse.
func FromAlerts(mineID string, alerts []*model.Alert) AlertLogResponse {
	summary := model.SummarizeAlerts(alerts)
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, FromAlert(a))
	}
	return AlertLogResponse{
		MineID:  mineID,
		Alerts:  out,
		Sent:    summary.Sent,
		Pending: summary.Pending,
		Failed:  summary.Failed,
	}
}
