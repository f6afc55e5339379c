package table

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Column names used in CSV output and by the plotter. They follow the
// melt-style long format: one row per (time, trajectory, value) triple.
const (
	ColTime       = "Time"
	ColTrajectory = "variable"
	ColValue      = "value"
	ColNoise      = "noise"
)

// Table is a long-format table of simulated trajectory samples. For a batch
// of n trajectories over m grid points it holds exactly n*m rows. The Noise
// column is only present on tables produced by the multi-noise driver.
type Table struct {
	BatchID uuid.UUID

	Time       []float64
	Trajectory []string
	Value      []float64
	Noise      []float64
}

// New creates an empty table with capacity for the given number of rows.
func New(capacity int) *Table {
	return &Table{
		BatchID:    uuid.New(),
		Time:       make([]float64, 0, capacity),
		Trajectory: make([]string, 0, capacity),
		Value:      make([]float64, 0, capacity),
	}
}

// NewTagged creates an empty table with a Noise column, with capacity for
// the given number of rows.
func NewTagged(capacity int) *Table {
	t := New(capacity)
	t.Noise = make([]float64, 0, capacity)
	return t
}

// Append adds one row. Only valid on tables without a Noise column.
func (t *Table) Append(time float64, trajectory string, value float64) {
	t.Time = append(t.Time, time)
	t.Trajectory = append(t.Trajectory, trajectory)
	t.Value = append(t.Value, value)
}

// AppendBatch copies all rows of a batch into a tagged table, stamping each
// row with the batch's noise level. Trajectory ids are taken as-is; within
// a combined table they are disambiguated by the noise column only.
func (t *Table) AppendBatch(batch *Table, noise float64) {
	t.Time = append(t.Time, batch.Time...)
	t.Trajectory = append(t.Trajectory, batch.Trajectory...)
	t.Value = append(t.Value, batch.Value...)
	for range batch.Time {
		t.Noise = append(t.Noise, noise)
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Time)
}

// HasNoise reports whether the table carries a noise column.
func (t *Table) HasNoise() bool {
	return t.Noise != nil
}

// NoiseLevels returns the distinct noise levels in first-seen order.
// Returns nil for tables without a noise column.
func (t *Table) NoiseLevels() []float64 {
	if !t.HasNoise() {
		return nil
	}
	seen := make(map[float64]bool)
	var levels []float64
	for _, n := range t.Noise {
		if !seen[n] {
			seen[n] = true
			levels = append(levels, n)
		}
	}
	return levels
}

// Trajectories returns the distinct trajectory ids in first-seen order.
func (t *Table) Trajectories() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range t.Trajectory {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// WriteCSV writes the table, header included, to w.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{ColTime, ColTrajectory, ColValue}
	if t.HasNoise() {
		header = append(header, ColNoise)
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	row := make([]string, len(header))
	for i := 0; i < t.Len(); i++ {
		row[0] = strconv.FormatFloat(t.Time[i], 'g', -1, 64)
		row[1] = t.Trajectory[i]
		row[2] = strconv.FormatFloat(t.Value[i], 'g', -1, 64)
		if t.HasNoise() {
			row[3] = strconv.FormatFloat(t.Noise[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write csv row %d", i)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// TimeGrid builds the shared uniform grid 0, freq, 2*freq, ... covering
// [0, end). Both arguments must be positive; the caller validates.
func TimeGrid(freq, end float64) []float64 {
	m := int(math.Ceil(end / freq))
	// Guard against the division landing on the wrong side of an integer.
	for float64(m)*freq < end {
		m++
	}
	for m > 0 && float64(m-1)*freq >= end {
		m--
	}
	grid := make([]float64, m)
	for i := range grid {
		grid[i] = float64(i) * freq
	}
	return grid
}
