package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minesafe/rockfall/internal/application/dto"
	"github.com/minesafe/rockfall/internal/application/usecase"
	"github.com/minesafe/rockfall/internal/domain/port"
	"github.com/minesafe/rockfall/internal/domain/service"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

func TestSearchMines_Execute(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query returns all", query: "", want: []string{"1", "2", "4"}},
		{name: "matches name case-insensitively", query: "karunya", want: []string{"1"}},
		{name: "matches location", query: "krishnagiri", want: []string{"4"}},
		{name: "matches type", query: "IRON", want: []string{"1", "2"}},
		{name: "no match", query: "copper", want: []string{}},
	}

	uc := usecase.NewSearchMines(testCatalog(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.Execute(context.Background(), dto.SearchMinesRequest{Query: tt.query})
			require.NoError(t, err)

			ids := make([]string, 0, len(resp.Mines))
			for _, m := range resp.Mines {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	t.Run("catalog failure", func(t *testing.T) {
		catalog := testCatalog(t)
		catalog.searchErr = fmt.Errorf("catalog unavailable")

		_, err := usecase.NewSearchMines(catalog).Execute(context.Background(), dto.SearchMinesRequest{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to search mines")
	})
}

func TestGetMine_Execute(t *testing.T) {
	uc := usecase.NewGetMine(testCatalog(t))

	resp, err := uc.Execute(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, "Hosur Granite Quarry", resp.Name)
	assert.Equal(t, "Under Construction", resp.Status)

	_, err = uc.Execute(context.Background(), "3")
	assert.True(t, errors.Is(err, port.ErrNotFound))
}

func TestSelectMine_Execute(t *testing.T) {
	newSelect := func(t *testing.T, source port.ReadingSource) (*usecase.SelectMine, *fixture) {
		f := newFixture(t, service.NewSelectionScorer(), true)
		return usecase.NewSelectMine(f.catalog, source, f.assess), f
	}

	t.Run("assesses current reading", func(t *testing.T) {
		source := &fixedReadingSource{readings: map[string]valueobject.Reading{
			"1": mustReading(t, 30, 4, 10, 28),
		}}
		uc, f := newSelect(t, source)

		resp, err := uc.Execute(context.Background(), dto.SelectMineRequest{MineID: "1"})

		require.NoError(t, err)
		assert.Equal(t, "1", resp.Mine.ID)
		require.NotNil(t, resp.Assessment.ID)
		assert.NotEqual(t, uuid.Nil, *resp.Assessment.ID)
		// 30*2 + 10*1.5 + 4*3 = 87
		assert.Equal(t, 87, resp.Assessment.Probability)
		assert.Equal(t, "Medium", resp.Assessment.Level)
		assert.Equal(t, "selection", resp.Assessment.Model)
		assert.Equal(t, 30.0, resp.Assessment.Reading.Slope)
		assert.Len(t, f.repo.saved, 1)
	})

	t.Run("steep slope triggers automatic alert", func(t *testing.T) {
		source := &fixedReadingSource{readings: map[string]valueobject.Reading{
			"2": mustReading(t, 40, 2, 5, 25),
		}}
		uc, f := newSelect(t, source)

		resp, err := uc.Execute(context.Background(), dto.SelectMineRequest{MineID: "2"})

		require.NoError(t, err)
		assert.Equal(t, "High", resp.Assessment.Level)
		assert.Len(t, f.notifier.notified, 1)
	})

	t.Run("reading source failure", func(t *testing.T) {
		uc, f := newSelect(t, &fixedReadingSource{err: fmt.Errorf("gateway timeout")})

		_, err := uc.Execute(context.Background(), dto.SelectMineRequest{MineID: "1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read conditions at mine 1")
		assert.Empty(t, f.repo.saved)
	})

	t.Run("unknown mine", func(t *testing.T) {
		uc, _ := newSelect(t, &fixedReadingSource{})

		_, err := uc.Execute(context.Background(), dto.SelectMineRequest{MineID: "9"})

		assert.True(t, errors.Is(err, port.ErrNotFound))
	})
}

func TestGetAssessment_Execute(t *testing.T) {
	f := newFixture(t, service.NewRiskScorer(), false)
	created, err := f.assess.Execute(context.Background(), readingRequest("1", 40, 60, 15, 30))
	require.NoError(t, err)

	uc := usecase.NewGetAssessment(f.repo)

	require.NotNil(t, created.ID)
	got, err := uc.Execute(context.Background(), dto.GetAssessmentRequest{AssessmentID: *created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Probability, got.Probability)
	assert.Equal(t, created.Level, got.Level)

	_, err = uc.Execute(context.Background(), dto.GetAssessmentRequest{AssessmentID: uuid.New()})
	assert.True(t, errors.Is(err, port.ErrNotFound))
}

func TestListMineAssessments_Execute(t *testing.T) {
	f := newFixture(t, service.NewRiskScorer(), false)
	for _, slope := range []float64{5, 10, 15} {
		_, err := f.assess.Execute(context.Background(), readingRequest("1", slope, 0, 0, 25))
		require.NoError(t, err)
	}
	_, err := f.assess.Execute(context.Background(), readingRequest("2", 20, 0, 0, 25))
	require.NoError(t, err)

	uc := usecase.NewListMineAssessments(f.repo, f.catalog)

	t.Run("newest first", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.ListMineAssessmentsRequest{MineID: "1"})
		require.NoError(t, err)
		require.Len(t, resp.Assessments, 3)
		assert.Equal(t, 15.0, resp.Assessments[0].Reading.Slope)
		assert.Equal(t, 5.0, resp.Assessments[2].Reading.Slope)
	})

	t.Run("pages", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.ListMineAssessmentsRequest{MineID: "1", Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, resp.Assessments, 1)
		assert.Equal(t, 10.0, resp.Assessments[0].Reading.Slope)
	})

	t.Run("mine without history", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.ListMineAssessmentsRequest{MineID: "4"})
		require.NoError(t, err)
		assert.Empty(t, resp.Assessments)
	})

	t.Run("unknown mine", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.ListMineAssessmentsRequest{MineID: "x"})
		assert.True(t, errors.Is(err, port.ErrNotFound))
	})
}
