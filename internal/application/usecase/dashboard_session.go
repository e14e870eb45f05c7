package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/spaolacci/murmur3"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// sessionStripes is the number of locks shared by all session IDs.
const sessionStripes = 64

// DashboardSession drives an operator's dashboard state through the
// domain transition function, one event at a time. Events on the same
// session are serialised so a load, apply and store never interleave.
type DashboardSession struct {
	store      port.SessionStore
	selectMine *SelectMine
	sendAlert  *SendAlert
	locks      [sessionStripes]sync.Mutex
}

// NewDashboardSession creates a new DashboardSession use case.
func NewDashboardSession(store port.SessionStore, selectMine *SelectMine, sendAlert *SendAlert) *DashboardSession {
	return &DashboardSession{store: store, selectMine: selectMine, sendAlert: sendAlert}
}

// Get returns the current state of a session.
func (uc *DashboardSession) Get(ctx context.Context, sessionID string) (dto.SessionResponse, error) {
	if sessionID == "" {
		return dto.SessionResponse{}, fmt.Errorf("%w: session ID is required", ErrInvalidArgument)
	}
	state, err := uc.store.Load(ctx, sessionID)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("failed to load session: %w", err)
	}
	return dto.FromDashboardState(sessionID, state), nil
}

// Handle applies one operator action and stores the resulting state.
func (uc *DashboardSession) Handle(ctx context.Context, req dto.SessionEventRequest) (dto.SessionResponse, error) {
	if req.SessionID == "" {
		return dto.SessionResponse{}, fmt.Errorf("%w: session ID is required", ErrInvalidArgument)
	}

	lock := uc.lockFor(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := uc.store.Load(ctx, req.SessionID)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("failed to load session: %w", err)
	}

	evt, err := uc.toEvent(ctx, state, req)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	next, err := model.Apply(state, evt)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if err := uc.store.Store(ctx, req.SessionID, next); err != nil {
		return dto.SessionResponse{}, fmt.Errorf("failed to store session: %w", err)
	}

	return dto.FromDashboardState(req.SessionID, next), nil
}

func (uc *DashboardSession) lockFor(sessionID string) *sync.Mutex {
	return &uc.locks[murmur3.Sum32([]byte(sessionID))%sessionStripes]
}

// toEvent runs the side effects an action needs and returns the domain
// event describing its outcome.
func (uc *DashboardSession) toEvent(ctx context.Context, state model.DashboardState, req dto.SessionEventRequest) (model.DashboardEvent, error) {
	switch req.Type {
	case dto.SessionEventSelectMine:
		mine, assessment, err := uc.selectMine.Select(ctx, req.MineID)
		if err != nil {
			return nil, err
		}
		return model.MineSelected{Mine: mine, Reading: assessment.Reading(), Assessment: assessment}, nil

	case dto.SessionEventChangeTab:
		tab, err := model.ParseTab(req.Tab)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return model.TabChanged{Tab: tab}, nil

	case dto.SessionEventDismissAlert:
		return model.AlertDismissed{}, nil

	case dto.SessionEventSendAlert:
		if state.SelectedMine == nil || state.Assessment == nil {
			return nil, fmt.Errorf("%w: select a mine before sending alerts", ErrFailedPrecondition)
		}
		channel, err := valueobject.AlertChannelFromString(req.Channel)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		alert, err := uc.sendAlert.DispatchManual(ctx, state.SelectedMine, state.Assessment.Level(), channel)
		if err != nil {
			return nil, err
		}
		return model.AlertLogged{Alert: alert}, nil

	default:
		return nil, fmt.Errorf("%w: unknown session event %q", ErrInvalidArgument, req.Type)
	}
}
