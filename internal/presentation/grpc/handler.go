package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/application/usecase"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	assessReading   *usecase.AssessReading
	evaluateReading *usecase.EvaluateReading
	getAssessment   *usecase.GetAssessment
	searchMines     *usecase.SearchMines
	sendAlert       *usecase.SendAlert
	logger          *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(
	assessReading *usecase.AssessReading,
	evaluateReading *usecase.EvaluateReading,
	getAssessment *usecase.GetAssessment,
	searchMines *usecase.SearchMines,
	sendAlert *usecase.SendAlert,
	logger *slog.Logger,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		assessReading:   assessReading,
		evaluateReading: evaluateReading,
		getAssessment:   getAssessment,
		searchMines:     searchMines,
		sendAlert:       sendAlert,
		logger:          logger,
	}
}

// Proto-aligned request/response message types.

// AssessReadingRequest represents the proto AssessReadingRequest message.
// Without a mine ID the reading is scored but not stored.
type AssessReadingRequest struct {
	MineID      string   `json:"mine_id"`
	Slope       *float64 `json:"slope"`
	Vibration   *float64 `json:"vibration"`
	Rainfall    *float64 `json:"rainfall"`
	Temperature *float64 `json:"temperature"`
}

// ReadingMsg represents the proto Reading message.
type ReadingMsg struct {
	Slope       float64 `json:"slope"`
	Vibration   float64 `json:"vibration"`
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
}

// FactorsMsg represents the proto RiskFactors message.
type FactorsMsg struct {
	SlopeInstability  int32 `json:"slope_instability"`
	VibrationPatterns int32 `json:"vibration_patterns"`
	WeatherConditions int32 `json:"weather_conditions"`
}

// AssessmentMsg represents the proto RiskAssessment message.
type AssessmentMsg struct {
	ID             string      `json:"id,omitempty"`
	MineID         string      `json:"mine_id,omitempty"`
	Probability    int32       `json:"probability"`
	Level          string      `json:"level"`
	Factors        *FactorsMsg `json:"factors"`
	Model          string      `json:"model"`
	Recommendation string      `json:"recommendation"`
	Reading        *ReadingMsg `json:"reading"`
	AssessedAt     string      `json:"assessed_at"`
}

// AssessReadingResponse represents the proto AssessReadingResponse message.
type AssessReadingResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// GetAssessmentRequest represents the proto GetAssessmentRequest message.
type GetAssessmentRequest struct {
	ID string `json:"id"`
}

// GetAssessmentResponse represents the proto GetAssessmentResponse message.
type GetAssessmentResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// SearchMinesRequest represents the proto SearchMinesRequest message.
type SearchMinesRequest struct {
	Query string `json:"query"`
}

// MineMsg represents the proto Mine message.
type MineMsg struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Elevation float64 `json:"elevation"`
	Area      float64 `json:"area"`
}

// SearchMinesResponse represents the proto SearchMinesResponse message.
type SearchMinesResponse struct {
	Mines []*MineMsg `json:"mines"`
}

// SendAlertRequest represents the proto SendAlertRequest message.
type SendAlertRequest struct {
	MineID  string `json:"mine_id"`
	Channel string `json:"channel"`
}

// AlertMsg represents the proto Alert message.
type AlertMsg struct {
	ID            string `json:"id"`
	MineID        string `json:"mine_id"`
	Channel       string `json:"channel"`
	Status        string `json:"status"`
	Recipient     string `json:"recipient"`
	Message       string `json:"message"`
	RiskLevel     string `json:"risk_level"`
	FailureReason string `json:"failure_reason,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// SendAlertResponse represents the proto SendAlertResponse message.
type SendAlertResponse struct {
	Alert *AlertMsg `json:"alert"`
}

// AssessReading scores a reading, storing it when a mine is named.
func (h *RiskServiceHandler) AssessReading(ctx context.Context, req *AssessReadingRequest) (*AssessReadingResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in := dto.AssessReadingRequest{
		MineID: req.MineID,
		ReadingInput: dto.ReadingInput{
			Slope:       req.Slope,
			Vibration:   req.Vibration,
			Rainfall:    req.Rainfall,
			Temperature: req.Temperature,
		},
	}

	var (
		result dto.AssessmentResponse
		err    error
	)
	if req.MineID == "" {
		result, err = h.evaluateReading.Execute(ctx, in)
	} else {
		result, err = h.assessReading.Execute(ctx, in)
	}
	if err != nil {
		return nil, h.toStatus("assess reading", err)
	}

	return &AssessReadingResponse{Assessment: toAssessmentMsg(result)}, nil
}

// GetAssessment handles a get assessment request.
func (h *RiskServiceHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getAssessment.Execute(ctx, dto.GetAssessmentRequest{AssessmentID: id})
	if err != nil {
		return nil, h.toStatus("get assessment", err)
	}

	return &GetAssessmentResponse{Assessment: toAssessmentMsg(result)}, nil
}

// SearchMines handles a catalog search.
func (h *RiskServiceHandler) SearchMines(ctx context.Context, req *SearchMinesRequest) (*SearchMinesResponse, error) {
	if req == nil {
		req = &SearchMinesRequest{}
	}

	result, err := h.searchMines.Execute(ctx, dto.SearchMinesRequest{Query: req.Query})
	if err != nil {
		return nil, h.toStatus("search mines", err)
	}

	mines := make([]*MineMsg, 0, len(result.Mines))
	for _, m := range result.Mines {
		mines = append(mines, &MineMsg{
			ID:        m.ID,
			Name:      m.Name,
			Location:  m.Location,
			Type:      m.Type,
			Status:    m.Status,
			Lat:       m.Coordinates.Lat,
			Lng:       m.Coordinates.Lng,
			Elevation: m.Elevation,
			Area:      m.Area,
		})
	}
	return &SearchMinesResponse{Mines: mines}, nil
}

// SendAlert dispatches a manual alert.
func (h *RiskServiceHandler) SendAlert(ctx context.Context, req *SendAlertRequest) (*SendAlertResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	h.logger.Info("sending alert",
		slog.String("mine_id", req.MineID),
		slog.String("channel", req.Channel),
	)

	result, err := h.sendAlert.Execute(ctx, dto.SendAlertRequest{MineID: req.MineID, Channel: req.Channel})
	if err != nil {
		return nil, h.toStatus("send alert", err)
	}

	return &SendAlertResponse{Alert: &AlertMsg{
		ID:            result.ID.String(),
		MineID:        result.MineID,
		Channel:       result.Channel,
		Status:        result.Status,
		Recipient:     result.Recipient,
		Message:       result.Message,
		RiskLevel:     result.RiskLevel,
		FailureReason: result.FailureReason,
		CreatedAt:     result.CreatedAt.Format(time.RFC3339Nano),
	}}, nil
}

// toStatus maps a use case error to a gRPC status. Unexpected errors are
// logged and reported as Internal without detail.
func (h *RiskServiceHandler) toStatus(op string, err error) error {
	var invalid *valueobject.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		return status.Error(codes.InvalidArgument, invalid.Error())
	case errors.Is(err, usecase.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, usecase.ErrFailedPrecondition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		h.logger.Error("failed to "+op, slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}

func toAssessmentMsg(a dto.AssessmentResponse) *AssessmentMsg {
	msg := &AssessmentMsg{
		MineID:      a.MineID,
		Probability: int32(a.Probability),
		Level:       a.Level,
		Factors: &FactorsMsg{
			SlopeInstability:  int32(a.Factors.SlopeInstability),
			VibrationPatterns: int32(a.Factors.VibrationPatterns),
			WeatherConditions: int32(a.Factors.WeatherConditions),
		},
		Model:          a.Model,
		Recommendation: a.Recommendation,
		Reading: &ReadingMsg{
			Slope:       a.Reading.Slope,
			Vibration:   a.Reading.Vibration,
			Rainfall:    a.Reading.Rainfall,
			Temperature: a.Reading.Temperature,
		},
		AssessedAt: a.AssessedAt.Format(time.RFC3339Nano),
	}
	if a.ID != nil {
		msg.ID = a.ID.String()
	}
	return msg
}
