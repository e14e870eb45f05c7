package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/application/usecase"
	"github.com/minesafe/rockfall/internal/domain/service"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

func newSession(t *testing.T) (*usecase.DashboardSession, *fixture) {
	f := newFixture(t, service.NewSelectionScorer(), false)
	source := &fixedReadingSource{readings: map[string]valueobject.Reading{
		"1": mustReading(t, 20, 3, 8, 27),
		"2": mustReading(t, 42, 6, 20, 31),
	}}
	selectMine := usecase.NewSelectMine(f.catalog, source, f.assess)
	return usecase.NewDashboardSession(&memorySessions{}, selectMine, f.sendAlert), f
}

func TestDashboardSession_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("new session starts on overview", func(t *testing.T) {
		uc, _ := newSession(t)

		resp, err := uc.Get(ctx, "s1")

		require.NoError(t, err)
		assert.Equal(t, "overview", resp.ActiveTab)
		assert.Equal(t, map[string]bool{
			"overview": true, "search": true, "data": true,
			"elevation": false, "forecast": false, "alerts": false,
		}, resp.Tabs)
		assert.True(t, resp.ActiveTabAvailable)
		assert.Nil(t, resp.SelectedMine)
		assert.Empty(t, resp.Alerts)
	})

	t.Run("select, open forecast, send alert", func(t *testing.T) {
		uc, f := newSession(t)

		resp, err := uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventSelectMine, MineID: "1"})
		require.NoError(t, err)
		require.NotNil(t, resp.SelectedMine)
		assert.Equal(t, "1", resp.SelectedMine.ID)
		require.NotNil(t, resp.Reading)
		assert.Equal(t, 20.0, resp.Reading.Slope)
		assert.False(t, resp.ShowAlert)
		assert.True(t, resp.Tabs["forecast"])

		resp, err = uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventChangeTab, Tab: "forecast"})
		require.NoError(t, err)
		assert.Equal(t, "forecast", resp.ActiveTab)

		resp, err = uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventSendAlert, Channel: "sms"})
		require.NoError(t, err)
		require.Len(t, resp.Alerts, 1)
		assert.Equal(t, "sms", resp.Alerts[0].Channel)
		assert.Equal(t, "sent", resp.Alerts[0].Status)
		assert.Len(t, f.notifier.notified, 1)

		got, err := uc.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, resp, got)
	})

	t.Run("high risk selection shows and dismisses the banner", func(t *testing.T) {
		uc, _ := newSession(t)

		resp, err := uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventSelectMine, MineID: "2"})
		require.NoError(t, err)
		require.NotNil(t, resp.Assessment)
		assert.Equal(t, "High", resp.Assessment.Level)
		assert.True(t, resp.ShowAlert)

		resp, err = uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventDismissAlert})
		require.NoError(t, err)
		assert.False(t, resp.ShowAlert)
	})

	t.Run("tabs open before a mine is selected", func(t *testing.T) {
		uc, _ := newSession(t)

		resp, err := uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventChangeTab, Tab: "elevation"})
		require.NoError(t, err)
		assert.Equal(t, "elevation", resp.ActiveTab)
		assert.False(t, resp.ActiveTabAvailable)

		resp, err = uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventSelectMine, MineID: "1"})
		require.NoError(t, err)
		assert.Equal(t, "elevation", resp.ActiveTab)
		assert.True(t, resp.ActiveTabAvailable)
	})

	t.Run("sessions are independent", func(t *testing.T) {
		uc, _ := newSession(t)

		_, err := uc.Handle(ctx, dto.SessionEventRequest{SessionID: "a", Type: dto.SessionEventSelectMine, MineID: "1"})
		require.NoError(t, err)

		resp, err := uc.Get(ctx, "b")
		require.NoError(t, err)
		assert.Nil(t, resp.SelectedMine)
	})

	t.Run("concurrent alerts on one session are all logged", func(t *testing.T) {
		uc, f := newSession(t)
		_, err := uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventSelectMine, MineID: "1"})
		require.NoError(t, err)

		const senders = 8
		var wg sync.WaitGroup
		errs := make(chan error, senders)
		for i := 0; i < senders; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventSendAlert, Channel: "sms"})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := uc.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Len(t, got.Alerts, senders)
		assert.Len(t, f.notifier.notified, senders)
	})

	t.Run("safe assessment cannot be alerted", func(t *testing.T) {
		f := newFixture(t, service.NewRiskScorer(), false)
		source := &fixedReadingSource{readings: map[string]valueobject.Reading{
			"1": mustReading(t, 0, 0, 0, 25),
		}}
		uc := usecase.NewDashboardSession(&memorySessions{}, usecase.NewSelectMine(f.catalog, source, f.assess), f.sendAlert)
		resp, err := uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventSelectMine, MineID: "1"})
		require.NoError(t, err)
		require.NotNil(t, resp.Assessment)
		require.Equal(t, "Safe", resp.Assessment.Level)

		_, err = uc.Handle(ctx, dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventSendAlert, Channel: "sms"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, usecase.ErrFailedPrecondition), "got %v", err)
		got, err := uc.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, got.Alerts)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			req  dto.SessionEventRequest
			want error
		}{
			{
				name: "missing session ID",
				req:  dto.SessionEventRequest{Type: dto.SessionEventDismissAlert},
				want: usecase.ErrInvalidArgument,
			},
			{
				name: "unknown event",
				req:  dto.SessionEventRequest{SessionID: "s1", Type: "reboot"},
				want: usecase.ErrInvalidArgument,
			},
			{
				name: "unknown tab",
				req:  dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventChangeTab, Tab: "settings"},
				want: usecase.ErrInvalidArgument,
			},
			{
				name: "alert before selection",
				req:  dto.SessionEventRequest{SessionID: "s1", Type: dto.SessionEventSendAlert, Channel: "email"},
				want: usecase.ErrFailedPrecondition,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				uc, _ := newSession(t)

				_, err := uc.Handle(ctx, tt.req)

				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			})
		}
	})
}
