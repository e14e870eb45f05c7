package usecase

import (
	"context"
	"fmt"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/port"
)

// SearchMines is the use case for filtering the mine catalog.
type SearchMines struct {
	catalog port.MineCatalog
}

// NewSearchMines creates a new SearchMines use case.
func NewSearchMines(catalog port.MineCatalog) *SearchMines {
	return &SearchMines{catalog: catalog}
}

// Execute returns mines whose name, location or type contains the query.
func (uc *SearchMines) Execute(ctx context.Context, req dto.SearchMinesRequest) (dto.SearchMinesResponse, error) {
	mines, err := uc.catalog.Search(ctx, req.Query)
	if err != nil {
		return dto.SearchMinesResponse{}, fmt.Errorf("failed to search mines: %w", err)
	}

	resp := dto.SearchMinesResponse{
		Query: req.Query,
		Mines: make([]dto.MineResponse, 0, len(mines)),
	}
	for _, m := range mines {
		resp.Mines = append(resp.Mines, dto.FromMine(m))
	}
	return resp, nil
}

// GetMine is the use case for looking up one catalog entry.
type GetMine struct {
	catalog port.MineCatalog
}

// NewGetMine creates a new GetMine use case.
func NewGetMine(catalog port.MineCatalog) *GetMine {
	return &GetMine{catalog: catalog}
}

// Execute returns the mine with the given ID.
func (uc *GetMine) Execute(ctx context.Context, mineID string) (dto.MineResponse, error) {
	mine, err := uc.catalog.Get(ctx, mineID)
	if err != nil {
		return dto.MineResponse{}, fmt.Errorf("failed to load mine %s: %w", mineID, err)
	}
	return dto.FromMine(mine), nil
}

// SelectMine is the use case for picking a mine: its current reading is
// taken from the reading source and assessed straight away.
type SelectMine struct {
	catalog port.MineCatalog
	source  port.ReadingSource
	assess  *AssessReading
}

// NewSelectMine creates a new SelectMine use case.
func NewSelectMine(catalog port.MineCatalog, source port.ReadingSource, assess *AssessReading) *SelectMine {
	return &SelectMine{catalog: catalog, source: source, assess: assess}
}

// Execute selects the mine and returns it with its fresh assessment.
func (uc *SelectMine) Execute(ctx context.Context, req dto.SelectMineRequest) (dto.SelectMineResponse, error) {
	mine, assessment, err := uc.Select(ctx, req.MineID)
	if err != nil {
		return dto.SelectMineResponse{}, err
	}
	return dto.SelectMineResponse{
		Mine:       dto.FromMine(mine),
		Assessment: dto.FromModel(assessment),
	}, nil
}

// Select resolves, reads and assesses the mine.
func (uc *SelectMine) Select(ctx context.Context, mineID string) (*model.Mine, *model.RiskAssessment, error) {
	mine, err := uc.catalog.Get(ctx, mineID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load mine %s: %w", mineID, err)
	}
	return uc.selectMine(ctx, mine)
}

func (uc *SelectMine) selectMine(ctx context.Context, mine *model.Mine) (*model.Mine, *model.RiskAssessment, error) {
	reading, err := uc.source.Read(ctx, mine)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read conditions at mine %s: %w", mine.ID(), err)
	}

	assessment, err := uc.assess.AssessMine(ctx, mine, reading)
	if err != nil {
		return nil, nil, err
	}
	return mine, assessment, nil
}
