package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/rs/zerolog/log"

	"github.com/sebastiankruger/trajectory-simulator/internal/config"
	"github.com/sebastiankruger/trajectory-simulator/internal/core"
	"github.com/sebastiankruger/trajectory-simulator/internal/simulate"
	"github.com/sebastiankruger/trajectory-simulator/internal/table"
)

// Handler serves on-demand batch generation over HTTP. Every request is
// self-contained: parameters arrive in the query string, defaults come
// from the loaded configuration, and nothing is retained between calls.
type Handler struct {
	simulatorName string
	cfg           *config.Config
}

// NewHandler creates an API handler.
func NewHandler(name string, cfg *config.Config) *Handler {
	return &Handler{
		simulatorName: name,
		cfg:           cfg,
	}
}

// HandleStatus handles GET /api/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := StatusResponse{
		SimulatorName: h.simulatorName,
		Generators:    generatorInfos(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGenerators handles GET /api/generators
func (h *Handler) HandleGenerators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, generatorInfos())
}

// HandleGenerate handles GET /api/generate. It produces a single batch of
// the requested archetype.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()

	kind, err := simulate.ParseKindList(q.Get("type"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	params, err := h.paramsFromQuery(q)
	if err != nil {
		h.writeError(w, err)
		return
	}

	tbl, err := simulate.Generate(h.noiseGenerator(q), kind, params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeTable(w, q, tbl)
}

// HandleMulti handles GET /api/multi. It produces one batch per requested
// noise level plus the automatic noise-free batch, combined into a single
// table with a noise column.
func (h *Handler) HandleMulti(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()

	kind, err := simulate.ParseKindList(q.Get("type"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	params, err := h.paramsFromQuery(q)
	if err != nil {
		h.writeError(w, err)
		return
	}

	noises := h.cfg.NoiseLevels
	if raw := q.Get("noises"); raw != "" {
		noises, err = parseFloatList(raw)
		if err != nil {
			h.writeError(w, err)
			return
		}
	}

	tbl, err := simulate.GenerateMultiParallel(h.noiseGenerator(q), kind, noises, params, h.cfg.Workers)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeTable(w, q, tbl)
}

// paramsFromQuery builds generation parameters, falling back to configured
// defaults. Damping parameters are only set when the request names them,
// so damped archetypes without them fail with a missing-parameter error.
func (h *Handler) paramsFromQuery(q url.Values) (simulate.Params, error) {
	p := simulate.Params{
		N:            h.cfg.Trajectories,
		Freq:         h.cfg.Freq,
		End:          h.cfg.End,
		Slope:        h.cfg.Slope,
		StimInterval: h.cfg.StimInterval,
		Lambda:       h.cfg.Lambda,
	}

	var err error
	if p.N, err = queryInt(q, "n", p.N); err != nil {
		return p, err
	}
	if p.Noise, err = queryFloat(q, "noise", 0); err != nil {
		return p, err
	}
	if p.Freq, err = queryFloat(q, "freq", p.Freq); err != nil {
		return p, err
	}
	if p.End, err = queryFloat(q, "end", p.End); err != nil {
		return p, err
	}
	if p.Slope, err = queryFloat(q, "slope", p.Slope); err != nil {
		return p, err
	}
	if p.StimInterval, err = queryFloat(q, "stim_interval", p.StimInterval); err != nil {
		return p, err
	}
	if p.Lambda, err = queryFloat(q, "lambda", p.Lambda); err != nil {
		return p, err
	}

	if q.Get("damp_amplitude") != "" || q.Get("damp_decay") != "" {
		damp := simulate.DampParams{
			Amplitude: h.cfg.DampAmplitude,
			Decay:     h.cfg.DampDecay,
		}
		if damp.Amplitude, err = queryFloat(q, "damp_amplitude", damp.Amplitude); err != nil {
			return p, err
		}
		if damp.Decay, err = queryFloat(q, "damp_decay", damp.Decay); err != nil {
			return p, err
		}
		p.Damp = &damp
	}
	return p, nil
}

// noiseGenerator builds the random source for one request. An explicit
// seed (query or config) gives a reproducible batch; otherwise the source
// is time-seeded.
func (h *Handler) noiseGenerator(q url.Values) *core.NoiseGenerator {
	if raw := q.Get("seed"); raw != "" {
		if seed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return core.NewSeededNoiseGenerator(seed)
		}
	}
	if h.cfg.Seed != 0 {
		return core.NewSeededNoiseGenerator(h.cfg.Seed)
	}
	return core.NewNoiseGenerator()
}

func (h *Handler) writeTable(w http.ResponseWriter, q url.Values, tbl *table.Table) {
	if q.Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := tbl.WriteCSV(w); err != nil {
			log.Error().Err(err).Msg("Failed to write CSV response")
		}
		return
	}

	writeJSON(w, http.StatusOK, NewTableResponse(tbl))
}

// writeError maps the generator error kinds to 400, everything else to 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, simulate.ErrInvalidType),
		errors.Is(err, simulate.ErrMultipleTypes),
		errors.Is(err, simulate.ErrMissingParameter),
		errors.Is(err, simulate.ErrInvalidArgument):
		status = http.StatusBadRequest
	}
	log.Warn().Err(err).Int("status", status).Msg("Request failed")
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func generatorInfos() []GeneratorInfo {
	kinds := simulate.Kinds()
	infos := make([]GeneratorInfo, len(kinds))
	for i, k := range kinds {
		infos[i] = GeneratorInfo{Tag: k.String(), Description: k.Description()}
	}
	return infos
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func queryInt(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrapf(simulate.ErrInvalidArgument, "%s=%q", key, raw)
	}
	return v, nil
}

func queryFloat(q url.Values, key string, def float64) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, pkgerrors.Wrapf(simulate.ErrInvalidArgument, "%s=%q", key, raw)
	}
	return v, nil
}

func parseFloatList(raw string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, pkgerrors.Wrapf(simulate.ErrInvalidArgument, "noise level %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}
