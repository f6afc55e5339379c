package api

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiankruger/trajectory-simulator/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		SimulatorName: "TrajectorySim-Test",
		Trajectories:  10,
		NoiseLevels:   []float64{0.5, 1.0},
		Freq:          0.2,
		End:           50,
		Seed:          42,
		DampAmplitude: 1.0,
		DampDecay:     0.05,
		Slope:         0.05,
		StimInterval:  5,
		Lambda:        0.2,
		Workers:       2,
	}
}

func doRequest(t *testing.T, handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleStatus(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleStatus, "/api/status")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "TrajectorySim-Test", resp.SimulatorName)
	assert.Len(t, resp.Generators, 6)
}

func TestHandleGenerators(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleGenerators, "/api/generators")

	require.Equal(t, http.StatusOK, rec.Code)

	var infos []GeneratorInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	tags := make([]string, len(infos))
	for i, info := range infos {
		tags[i] = info.Tag
		assert.NotEmpty(t, info.Description)
	}
	assert.Equal(t, []string{"ps", "pst", "psd", "na", "nad", "edls"}, tags)
}

func TestHandleGenerate_JSON(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleGenerate, "/api/generate?type=ps&n=4&freq=0.5&end=30")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// 4 trajectories over 60 time points.
	assert.Equal(t, 240, resp.Rows)
	assert.Len(t, resp.Records, 240)
	assert.Equal(t, []string{"V1", "V2", "V3", "V4"}, resp.Trajectories)
	assert.NotEmpty(t, resp.BatchID)
	// Single-batch responses carry no noise column.
	assert.Nil(t, resp.Records[0].Noise)
}

func TestHandleGenerate_ConfigDefaults(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleGenerate, "/api/generate?type=ps")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// 10 trajectories over 250 time points (freq 0.2, end 50).
	assert.Equal(t, 2500, resp.Rows)
}

func TestHandleGenerate_CSV(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleGenerate, "/api/generate?type=ps&n=2&freq=1&end=5&format=csv")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"Time", "variable", "value"}, rows[0])
	assert.Len(t, rows, 1+2*5)
}

func TestHandleGenerate_Seeded(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	target := "/api/generate?type=na&n=3&noise=0.5&freq=1&end=10&seed=7"

	first := doRequest(t, h.HandleGenerate, target)
	second := doRequest(t, h.HandleGenerate, target)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b TableResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.Records, b.Records)
}

func TestHandleGenerate_DampedFromQuery(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleGenerate,
		"/api/generate?type=psd&n=2&freq=1&end=10&damp_amplitude=2&damp_decay=0.1")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 20, resp.Rows)
}

func TestHandleGenerate_BadRequests(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())

	tests := []struct {
		name   string
		target string
	}{
		{"unknown type", "/api/generate?type=bogus"},
		{"empty type", "/api/generate"},
		{"multiple types", "/api/generate?type=ps,na"},
		{"damped without parameters", "/api/generate?type=psd"},
		{"non-numeric count", "/api/generate?type=ps&n=many"},
		{"non-numeric freq", "/api/generate?type=ps&freq=fast"},
		{"negative count", "/api/generate?type=ps&n=-1"},
		{"negative freq", "/api/generate?type=ps&freq=-0.2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h.HandleGenerate, tc.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleGenerate_MethodNotAllowed(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/generate?type=ps", nil)
	rec := httptest.NewRecorder()
	h.HandleGenerate(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleMulti_JSON(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleMulti, "/api/multi?type=ps&n=2&freq=1&end=5&noises=0.5,1.0")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Noise-free batch plus one batch per level, 2 trajectories, 5 points.
	assert.Equal(t, 3*2*5, resp.Rows)
	require.NotNil(t, resp.Records[0].Noise)
	assert.Equal(t, 0.0, *resp.Records[0].Noise)
	last := resp.Records[len(resp.Records)-1]
	require.NotNil(t, last.Noise)
	assert.Equal(t, 1.0, *last.Noise)
}

func TestHandleMulti_ConfigNoiseLevels(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleMulti, "/api/multi?type=ps&n=2&freq=1&end=5")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Config defaults to two levels, plus the noise-free batch.
	assert.Equal(t, 3*2*5, resp.Rows)
}

func TestHandleMulti_CSVHasNoiseColumn(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleMulti, "/api/multi?type=ps&n=1&freq=1&end=3&noises=0.5&format=csv")

	require.Equal(t, http.StatusOK, rec.Code)

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"Time", "variable", "value", "noise"}, rows[0])
	assert.Len(t, rows, 1+2*1*3)
}

func TestHandleMulti_BadNoiseList(t *testing.T) {
	h := NewHandler("TrajectorySim-Test", testConfig())
	rec := doRequest(t, h.HandleMulti, "/api/multi?type=ps&noises=0.5,loud")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
