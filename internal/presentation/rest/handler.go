// Package rest serves the rockfall JSON API over net/http.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/application/usecase"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

const maxBodyBytes = 1 << 20

// UseCases bundles the application operations the API exposes.
type UseCases struct {
	AssessReading       *usecase.AssessReading
	EvaluateReading     *usecase.EvaluateReading
	GetAssessment       *usecase.GetAssessment
	ListMineAssessments *usecase.ListMineAssessments
	SearchMines         *usecase.SearchMines
	GetMine             *usecase.GetMine
	SelectMine          *usecase.SelectMine
	SendAlert           *usecase.SendAlert
	ListAlerts          *usecase.ListAlerts
	DashboardSession    *usecase.DashboardSession
}

// Handler serves the /api/v1 routes.
type Handler struct {
	uc     UseCases
	logger *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(uc UseCases, logger *slog.Logger) *Handler {
	return &Handler{uc: uc, logger: logger}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Assessments
	mux.HandleFunc("POST /api/v1/assessments", h.createAssessment)
	mux.HandleFunc("GET /api/v1/assessments/{id}", h.getAssessment)

	// Mines
	mux.HandleFunc("GET /api/v1/mines", h.searchMines)
	mux.HandleFunc("GET /api/v1/mines/{id}", h.getMine)
	mux.HandleFunc("POST /api/v1/mines/{id}/select", h.selectMine)
	mux.HandleFunc("GET /api/v1/mines/{id}/assessments", h.listMineAssessments)

	// Alerts
	mux.HandleFunc("POST /api/v1/mines/{id}/alerts", h.sendAlert)
	mux.HandleFunc("GET /api/v1/mines/{id}/alerts", h.listAlerts)

	// Dashboard sessions
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.getSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/events", h.sessionEvent)
}

func (h *Handler) createAssessment(w http.ResponseWriter, r *http.Request) {
	var req dto.AssessReadingRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.MineID == "" {
		resp, err := h.uc.EvaluateReading.Execute(r.Context(), req)
		if err != nil {
			h.writeUsecaseError(w, "evaluate reading", err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp, err := h.uc.AssessReading.Execute(r.Context(), req)
	if err != nil {
		h.writeUsecaseError(w, "assess reading", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) getAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	resp, err := h.uc.GetAssessment.Execute(r.Context(), dto.GetAssessmentRequest{AssessmentID: id})
	if err != nil {
		h.writeUsecaseError(w, "get assessment", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) searchMines(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.SearchMines.Execute(r.Context(), dto.SearchMinesRequest{Query: r.URL.Query().Get("q")})
	if err != nil {
		h.writeUsecaseError(w, "search mines", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getMine(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.GetMine.Execute(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeUsecaseError(w, "get mine", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) selectMine(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.SelectMine.Execute(r.Context(), dto.SelectMineRequest{MineID: r.PathValue("id")})
	if err != nil {
		h.writeUsecaseError(w, "select mine", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) listMineAssessments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.uc.ListMineAssessments.Execute(r.Context(), dto.ListMineAssessmentsRequest{
		MineID: r.PathValue("id"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.writeUsecaseError(w, "list assessments", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) sendAlert(w http.ResponseWriter, r *http.Request) {
	var req dto.SendAlertRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.MineID = r.PathValue("id")

	resp, err := h.uc.SendAlert.Execute(r.Context(), req)
	if err != nil {
		h.writeUsecaseError(w, "send alert", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.ListAlerts.Execute(r.Context(), dto.ListAlertsRequest{MineID: r.PathValue("id")})
	if err != nil {
		h.writeUsecaseError(w, "list alerts", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.DashboardSession.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeUsecaseError(w, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) sessionEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.SessionEventRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.SessionID = r.PathValue("id")

	resp, err := h.uc.DashboardSession.Handle(r.Context(), req)
	if err != nil {
		h.writeUsecaseError(w, "handle session event", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body into v, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeUsecaseError maps a use case error to a status code. Unexpected
// errors are logged and reported without detail.
func (h *Handler) writeUsecaseError(w http.ResponseWriter, op string, err error) {
	var invalid *valueobject.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Error())
	case errors.Is(err, usecase.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, port.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrFailedPrecondition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "deadline exceeded")
	default:
		h.logger.Error("failed to "+op, slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
