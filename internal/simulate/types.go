package simulate

import (
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Error kinds reported by the generators and the multi-noise driver.
// Callers match them with errors.Is; context is added with wrapping.
var (
	ErrInvalidType      = errors.New("unrecognized generator type")
	ErrMultipleTypes    = errors.New("more than one generator type in a single call")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// Kind identifies one of the six trajectory archetypes.
type Kind int

const (
	KindPhaseShifted Kind = iota
	KindPhaseShiftedTrend
	KindPhaseShiftedDamped
	KindNoisyAmplitude
	KindNoisyAmplitudeDamped
	KindExpoDecayLaggedStim
)

// kindTags maps each Kind to its short tag, as accepted by the CLI and API.
var kindTags = map[Kind]string{
	KindPhaseShifted:         "ps",
	KindPhaseShiftedTrend:    "pst",
	KindPhaseShiftedDamped:   "psd",
	KindNoisyAmplitude:       "na",
	KindNoisyAmplitudeDamped: "nad",
	KindExpoDecayLaggedStim:  "edls",
}

func (k Kind) String() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return "unknown"
}

// Description returns a human-readable name for the archetype.
func (k Kind) Description() string {
	switch k {
	case KindPhaseShifted:
		return "phase-shifted sinusoid"
	case KindPhaseShiftedTrend:
		return "phase-shifted sinusoid with fixed linear trend"
	case KindPhaseShiftedDamped:
		return "phase-shifted damped sinusoid"
	case KindNoisyAmplitude:
		return "sinusoid with additive amplitude noise"
	case KindNoisyAmplitudeDamped:
		return "damped sinusoid with additive amplitude noise"
	case KindExpoDecayLaggedStim:
		return "stimulus-triggered exponential decay with lagged stimulation"
	default:
		return "unknown"
	}
}

// Kinds lists all archetypes in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindPhaseShifted,
		KindPhaseShiftedTrend,
		KindPhaseShiftedDamped,
		KindNoisyAmplitude,
		KindNoisyAmplitudeDamped,
		KindExpoDecayLaggedStim,
	}
}

// ParseKind resolves a single tag to its Kind.
func ParseKind(tag string) (Kind, error) {
	for k, t := range kindTags {
		if t == tag {
			return k, nil
		}
	}
	return 0, pkgerrors.Wrapf(ErrInvalidType, "%q", tag)
}

// ParseKindList resolves a comma-separated tag list to exactly one Kind.
// The driver handles one archetype per call; supplying several distinct
// tags is an error, so that batches of different archetypes are never
// silently merged.
func ParseKindList(tags string) (Kind, error) {
	parts := strings.Split(tags, ",")
	var seen []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		dup := false
		for _, s := range seen {
			if s == p {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, p)
		}
	}
	if len(seen) == 0 {
		return 0, pkgerrors.Wrap(ErrInvalidType, "empty type")
	}
	if len(seen) > 1 {
		return 0, pkgerrors.Wrapf(ErrMultipleTypes, "%v", seen)
	}
	return ParseKind(seen[0])
}

// DampParams is the damping envelope A*exp(-L*t) applied by the damped
// sinusoid archetypes.
type DampParams struct {
	Amplitude float64 // A, initial amplitude
	Decay     float64 // L, decay rate
}

// Params carries the arguments of one generation call. Zero-valued Freq,
// End, StimInterval and Lambda are replaced by their defaults; everything
// is validated eagerly before any random draw.
type Params struct {
	N     int     // trajectory count
	Noise float64 // perturbation standard deviation, interpretation per archetype

	Freq float64 // grid step, default 0.2
	End  float64 // grid extent (exclusive), default 50

	Damp  *DampParams // required by psd and nad
	Slope float64     // linear trend, pst only

	StimInterval float64 // nominal stimulation spacing, edls only, default 5
	Lambda       float64 // decay rate, edls only, default 0.2
}

const (
	defaultFreq         = 0.2
	defaultEnd          = 50
	defaultStimInterval = 5
	defaultLambda       = 0.2
)

func (p *Params) applyDefaults() {
	if p.Freq == 0 {
		p.Freq = defaultFreq
	}
	if p.End == 0 {
		p.End = defaultEnd
	}
	if p.StimInterval == 0 {
		p.StimInterval = defaultStimInterval
	}
	if p.Lambda == 0 {
		p.Lambda = defaultLambda
	}
}

func (p Params) validate(kind Kind) error {
	if p.N <= 0 {
		return pkgerrors.Wrapf(ErrInvalidArgument, "n must be positive, got %d", p.N)
	}
	if p.Noise < 0 {
		return pkgerrors.Wrapf(ErrInvalidArgument, "noise must be non-negative, got %g", p.Noise)
	}
	if p.Freq <= 0 {
		return pkgerrors.Wrapf(ErrInvalidArgument, "freq must be positive, got %g", p.Freq)
	}
	if p.End <= 0 {
		return pkgerrors.Wrapf(ErrInvalidArgument, "end must be positive, got %g", p.End)
	}
	switch kind {
	case KindPhaseShiftedDamped, KindNoisyAmplitudeDamped:
		if p.Damp == nil {
			return pkgerrors.Wrapf(ErrMissingParameter, "damp_params required for %s", kind)
		}
	case KindExpoDecayLaggedStim:
		if p.StimInterval <= 0 {
			return pkgerrors.Wrapf(ErrInvalidArgument, "stim interval must be positive, got %g", p.StimInterval)
		}
		if p.Lambda <= 0 {
			return pkgerrors.Wrapf(ErrInvalidArgument, "lambda must be positive, got %g", p.Lambda)
		}
	}
	return nil
}
