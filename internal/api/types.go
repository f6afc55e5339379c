package api

import (
	"github.com/sebastiankruger/trajectory-simulator/internal/table"
)

// StatusResponse is returned by GET /api/status
type StatusResponse struct {
	SimulatorName string          `json:"simulatorName"`
	Generators    []GeneratorInfo `json:"generators"`
}

// GeneratorInfo describes one trajectory archetype
type GeneratorInfo struct {
	Tag         string `json:"tag"`
	Description string `json:"description"`
}

// Record is one long-format row in a JSON table response
type Record struct {
	Time       float64  `json:"time"`
	Trajectory string   `json:"trajectory"`
	Value      float64  `json:"value"`
	Noise      *float64 `json:"noise,omitempty"`
}

// TableResponse is returned by GET /api/generate and GET /api/multi
type TableResponse struct {
	BatchID      string   `json:"batchId"`
	Rows         int      `json:"rows"`
	Trajectories []string `json:"trajectories"`
	Records      []Record `json:"records"`
}

// ErrorResponse carries a request error
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewTableResponse converts a long-format table into its JSON response form.
func NewTableResponse(tbl *table.Table) TableResponse {
	resp := TableResponse{
		BatchID:      tbl.BatchID.String(),
		Rows:         tbl.Len(),
		Trajectories: tbl.Trajectories(),
		Records:      make([]Record, tbl.Len()),
	}
	for i := 0; i < tbl.Len(); i++ {
		rec := Record{
			Time:       tbl.Time[i],
			Trajectory: tbl.Trajectory[i],
			Value:      tbl.Value[i],
		}
		if tbl.HasNoise() {
			noise := tbl.Noise[i]
			rec.Noise = &noise
		}
		resp.Records[i] = rec
	}
	return resp
}
