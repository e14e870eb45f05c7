package dto

import "github.com/minesafe/rockfall/internal/domain/model"

// SearchMinesRequest filters the catalog.
type SearchMinesRequest struct {
	Query string `json:"query"`
}

// SelectMineRequest picks a mine for live assessment.
type SelectMineRequest struct {
	MineID string `json:"mine_id"`
}

// CoordinatesResponse is a map position.
type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MineResponse describes a catalog entry.
type MineResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Location    string              `json:"location"`
	Type        string              `json:"type"`
	Status      string              `json:"status"`
	Coordinates CoordinatesResponse `json:"coordinates"`
	Elevation   float64             `json:"elevation"`
	Area        float64             `json:"area"`
}

// SearchMinesResponse lists matching mines.
type SearchMinesResponse struct {
	Query string         `json:"query"`
	Mines []MineResponse `json:"mines"`
}

// SelectMineResponse is a mine together with its fresh assessment.
type SelectMineResponse struct {
	Mine       MineResponse       `json:"mine"`
	Assessment AssessmentResponse `json:"assessment"`
}

// FromMine maps a Mine to its response DTO.
func FromMine(m *model.Mine) MineResponse {
	c := m.Coordinates()
	return MineResponse{
		ID:          m.ID(),
		Name:        m.Name(),
		Location:    m.Location(),
		Type:        m.Type(),
		Status:      m.Status().String(),
		Coordinates: CoordinatesResponse{Lat: c.Lat, Lng: c.Lng},
		Elevation:   m.Elevation(),
		Area:        m.Area(),
	}
}
