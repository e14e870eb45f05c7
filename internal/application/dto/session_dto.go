package dto

import "github.com/minesafe/rockfall/internal/domain/model"

// Session event types accepted by the dashboard session use case.
const (
	SessionEventSelectMine   = "select_mine"
	SessionEventChangeTab    = "change_tab"
	SessionEventDismissAlert = "dismiss_alert"
	SessionEventSendAlert    = "send_alert"
)

// SessionEventRequest is one operator action on a dashboard session.
type SessionEventRequest struct {
	SessionID string `json:"session_id"`
	Type      string `json:"type"`
	MineID    string `json:"mine_id,omitempty"`
	Tab       string `json:"tab,omitempty"`
	Channel   string `json:"channel,omitempty"`
}

// SessionResponse is the rendered dashboard state. Tabs flags every tab by
// whether it has data; an active tab without data shows its placeholder.
type SessionResponse struct {
	SelectedMine       *MineResponse       `json:"selected_mine,omitempty"`
	Reading            *ReadingResponse    `json:"reading,omitempty"`
	Assessment         *AssessmentResponse `json:"assessment,omitempty"`
	Tabs               map[string]bool     `json:"tabs"`
	SessionID          string              `json:"session_id"`
	ActiveTab          string              `json:"active_tab"`
	Alerts             []AlertResponse     `json:"alerts"`
	ActiveTabAvailable bool                `json:"active_tab_available"`
	ShowAlert          bool                `json:"show_alert"`
}

var allTabs = []model.Tab{
	model.TabOverview, model.TabSearch, model.TabElevation,
	model.TabData, model.TabForecast, model.TabAlerts,
}

// FromDashboardState maps dashboard state to its response DTO.
func FromDashboardState(sessionID string, s model.DashboardState) SessionResponse {
	resp := SessionResponse{
		SessionID:          sessionID,
		ActiveTab:          string(s.ActiveTab),
		ActiveTabAvailable: s.Available(s.ActiveTab),
		ShowAlert:          s.ShowAlert,
		Tabs:               make(map[string]bool, len(allTabs)),
		Alerts:             make([]AlertResponse, 0, len(s.Alerts)),
	}
	for _, tab := range allTabs {
		resp.Tabs[string(tab)] = s.Available(tab)
	}
	if s.SelectedMine != nil {
		m := FromMine(s.SelectedMine)
		resp.SelectedMine = &m
	}
	if s.Reading != nil {
		r := FromReading(*s.Reading)
		resp.Reading = &r
	}
	if s.Assessment != nil {
		a := FromModel(s.Assessment)
		resp.Assessment = &a
	}
	for _, a := range s.Alerts {
		resp.Alerts = append(resp.Alerts, FromAlert(a))
	}
	return resp
}
