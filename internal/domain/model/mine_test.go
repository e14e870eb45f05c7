package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minesafe/rockfall/internal/domain/model"
	"github.com/minesafe/rockfall/internal/domain/valueobject"
)

func newTestMine(t *testing.T, status valueobject.MineStatus) *model.Mine {
	t.Helper()
	m, err := model.NewMine("3", "Kudankulam Limestone Mine", "Tirunelveli, Tamil Nadu", "Limestone",
		status, valueobject.Coordinates{Lat: 8.1644, Lng: 77.7066}, 45, 203.4)
	require.NoError(t, err)
	return m
}

func TestNewMine(t *testing.T) {
	m := newTestMine(t, valueobject.MineStatusActive)
	assert.Equal(t, "3", m.ID())
	assert.Equal(t, "Limestone", m.Type())
	assert.Equal(t, 203.4, m.Area())
	assert.True(t, m.IsActive())

	_, err := model.NewMine("", "x", "", "", valueobject.MineStatusActive, valueobject.Coordinates{}, 0, 0)
	require.Error(t, err)

	_, err = model.NewMine("9", "x", "", "", valueobject.MineStatus{}, valueobject.Coordinates{}, 0, 0)
	require.Error(t, err)

	_, err = model.NewMine("9", "x", "", "", valueobject.MineStatusActive, valueobject.Coordinates{Lat: 100}, 0, 0)
	require.Error(t, err)
}

func TestMine_Matches(t *testing.T) {
	m := newTestMine(t, valueobject.MineStatusUnderConstruction)

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"kudankulam", true},
		{"TIRUNELVELI", true},
		{"lime", true},
		{"tamil nadu", true},
		{"granite", false},
		{"salem", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(tt.query))
		})
	}

	assert.False(t, m.IsActive())
}
