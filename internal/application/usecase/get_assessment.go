package usecase

import (
	"context"
	"fmt"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/domain/port"
)

// defaultPageSize and maxPageSize bound assessment history pages.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetAssessment is the use case for retrieving a single assessment by ID.
type GetAssessment struct {
	repo port.AssessmentRepository
}

// NewGetAssessment creates a new GetAssessment use case.
func NewGetAssessment(repo port.AssessmentRepository) *GetAssessment {
	return &GetAssessment{repo: repo}
}

// Execute retrieves the assessment.
func (uc *GetAssessment) Execute(ctx context.Context, req dto.GetAssessmentRequest) (dto.AssessmentResponse, error) {
	assessment, err := uc.repo.FindByID(ctx, req.AssessmentID)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to find assessment: %w", err)
	}
	return dto.FromModel(assessment), nil
}

// ListMineAssessments is the use case for paging through a mine's history.
type ListMineAssessments struct {
	repo    port.AssessmentRepository
	catalog port.MineCatalog
}

// NewListMineAssessments creates a new ListMineAssessments use case.
func NewListMineAssessments(repo port.AssessmentRepository, catalog port.MineCatalog) *ListMineAssessments {
	return &ListMineAssessments{repo: repo, catalog: catalog}
}

// Execute lists assessments for the mine, newest first.
func (uc *ListMineAssessments) Execute(ctx context.Context, req dto.ListMineAssessmentsRequest) (dto.ListAssessmentsResponse, error) {
	if _, err := uc.catalog.Get(ctx, req.MineID); err != nil {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("failed to load mine %s: %w", req.MineID, err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	assessments, err := uc.repo.FindByMineID(ctx, req.MineID, limit, offset)
	if err != nil {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("failed to list assessments: %w", err)
	}

	resp := dto.ListAssessmentsResponse{
		MineID:      req.MineID,
		Assessments: make([]dto.AssessmentResponse, 0, len(assessments)),
	}
	for _, a := range assessments {
		resp.Assessments = append(resp.Assessments, dto.FromModel(a))
	}
	return resp, nil
}
