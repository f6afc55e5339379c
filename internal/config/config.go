package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the simulator. Values are defaults
// for the CLI flags and the HTTP API; every generation request can
// override them.
type Config struct {
	// Core settings
	SimulatorName string
	HTTPPort      int

	// Generation defaults
	GeneratorType string
	Trajectories  int
	NoiseLevels   []float64
	Freq          float64
	End           float64
	Seed          int64

	// Generator-specific defaults
	DampAmplitude float64
	DampDecay     float64
	Slope         float64
	StimInterval  float64
	Lambda        float64

	// Rendering and execution
	PlotAlpha float64
	Workers   int
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		// Core settings
		SimulatorName: getEnvOrDefault("SIMULATOR_NAME", "TrajectorySim-01"),
		HTTPPort:      getEnvAsIntOrDefault("HTTP_PORT", 8081),

		// Generation defaults
		GeneratorType: getEnvOrDefault("GENERATOR_TYPE", "ps"),
		Trajectories:  getEnvAsIntOrDefault("TRAJECTORIES", 10),
		NoiseLevels:   getEnvAsFloatListOrDefault("NOISE_LEVELS", []float64{0.5, 1.0}),
		Freq:          getEnvAsFloatOrDefault("FREQ", 0.2),
		End:           getEnvAsFloatOrDefault("END", 50),
		Seed:          getEnvAsInt64OrDefault("SEED", 0),

		// Generator-specific defaults
		DampAmplitude: getEnvAsFloatOrDefault("DAMP_AMPLITUDE", 1.0),
		DampDecay:     getEnvAsFloatOrDefault("DAMP_DECAY", 0.05),
		Slope:         getEnvAsFloatOrDefault("SLOPE", 0.05),
		StimInterval:  getEnvAsFloatOrDefault("STIM_INTERVAL", 5),
		Lambda:        getEnvAsFloatOrDefault("LAMBDA", 0.2),

		// Rendering and execution
		PlotAlpha: getEnvAsFloatOrDefault("PLOT_ALPHA", 0.2),
		Workers:   getEnvAsIntOrDefault("WORKERS", 4),
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsFloatListOrDefault(key string, defaultValue []float64) []float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []float64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		floatVal, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return defaultValue
		}
		out = append(out, floatVal)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
