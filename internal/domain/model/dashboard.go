package model

import (
	"fmt"

	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// Tab is a dashboard view.
type Tab string

const (
	TabOverview  Tab = "overview"
	TabSearch    Tab = "search"
	TabElevation Tab = "elevation"
	TabData      Tab = "data"
	TabForecast  Tab = "forecast"
	TabAlerts    Tab = "alerts"
)

var knownTabs = map[Tab]struct{}{
	TabOverview: {}, TabSearch: {}, TabElevation: {}, TabData: {}, TabForecast: {}, TabAlerts: {},
}

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	if _, ok := knownTabs[t]; !ok {
		return "", fmt.Errorf("unknown tab: %q", s)
	}
	return t, nil
}

// DashboardState is the operator's view of the system. It only changes
// through Apply.
type DashboardState struct {
	SelectedMine *Mine
	Reading      *valueobject.Reading
	Assessment   *RiskAssessment
	ActiveTab    Tab
	Alerts       []*Alert
	ShowAlert    bool
}

// NewDashboardState returns the state of a freshly opened dashboard.
func NewDashboardState() DashboardState {
	return DashboardState{ActiveTab: TabOverview}
}

// Available reports whether tab has data to show in the current state. An
// unavailable tab can still be active; it renders its placeholder.
func (s DashboardState) Available(tab Tab) bool {
	switch tab {
	case TabElevation:
		return s.SelectedMine != nil
	case TabForecast, TabAlerts:
		return s.SelectedMine != nil && s.Assessment != nil
	default:
		_, ok := knownTabs[tab]
		return ok
	}
}

// DashboardEvent is an input to Apply.
type DashboardEvent interface {
	dashboardEvent()
}

// MineSelected loads a mine together with its latest reading and assessment.
type MineSelected struct {
	Mine       *Mine
	Assessment *RiskAssessment
	Reading    valueobject.Reading
}

// TabChanged switches the active view.
type TabChanged struct {
	Tab Tab
}

// AlertDismissed closes the risk popup.
type AlertDismissed struct{}

// AlertLogged adds a dispatched alert to the log.
type AlertLogged struct {
	Alert *Alert
}

func (MineSelected) dashboardEvent()   {}
func (TabChanged) dashboardEvent()     {}
func (AlertDismissed) dashboardEvent() {}
func (AlertLogged) dashboardEvent()    {}

// Apply returns the state that results from evt. The input state is not
// modified.
func Apply(state DashboardState, evt DashboardEvent) (DashboardState, error) {
	next := state

	switch e := evt.(type) {
	case MineSelected:
		if e.Mine == nil || e.Assessment == nil {
			return state, fmt.Errorf("mine selection requires a mine and an assessment")
		}
		reading := e.Reading
		next.SelectedMine = e.Mine
		next.Reading = &reading
		next.Assessment = e.Assessment
		next.ShowAlert = e.Assessment.IsHigh()

	case TabChanged:
		if _, ok := knownTabs[e.Tab]; !ok {
			return state, fmt.Errorf("unknown tab: %q", e.Tab)
		}
		next.ActiveTab = e.Tab

	case AlertDismissed:
		next.ShowAlert = false

	case AlertLogged:
		if e.Alert == nil {
			return state, fmt.Errorf("alert is required")
		}
		alerts := make([]*Alert, 0, MaxRecentAlerts)
		alerts = append(alerts, e.Alert)
		for _, a := range state.Alerts {
			if len(alerts) == MaxRecentAlerts {
				break
			}
			alerts = append(alerts, a)
		}
		next.Alerts = alerts

	default:
		return state, fmt.Errorf("unsupported dashboard event %T", evt)
	}

	return next, nil
}
