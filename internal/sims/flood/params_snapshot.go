package flood

import (
	"strconv"

	"deluge/internal/core"
)

// Parameters reports the current tunables for HUD display.
func (s *Solver) Parameters() core.ParameterSnapshot {
	p := s.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "Sources",
			Params: []core.Parameter{
				boolParam("source_enabled", "Source enabled", p.SourceEnabled),
				floatParam("source_flow", "Source flow (m³/s)", p.SourceFlowRate),
				intParam("source_radius", "Source radius (cells)", p.SourceRadiusCells),
				floatParam("rain_rate", "Rain rate (m/s)", p.RainRate),
				floatParam("infiltration_rate", "Infiltration (m/s)", p.InfiltrationRate),
				floatParam("drainage_rate", "Drainage (m/s)", p.DrainageRate),
			},
		},
		{
			Name: "Numerics",
			Params: []core.Parameter{
				floatParam("cfl", "CFL number", p.CFL),
				floatParam("manning_n", "Manning n", p.ManningN),
				floatParam("velocity_damping", "Velocity damping", p.VelocityDamping),
				floatParam("max_flow_speed", "Max flow speed (m/s)", p.MaxFlowSpeed),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the knobs adjustable from the HUD.
func (s *Solver) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "source_enabled", Label: "Source", Type: core.ParamTypeBool},
		{Key: "source_flow", Label: "Flow m³/s", Type: core.ParamTypeFloat, Step: 1, Min: 0, Max: 500, HasMin: true, HasMax: true},
		{Key: "rain_rate", Label: "Rain m/s", Type: core.ParamTypeFloat, Step: 1e-5, Min: 0, Max: 0.01, HasMin: true, HasMax: true},
		{Key: "drainage_rate", Label: "Drain m/s", Type: core.ParamTypeFloat, Step: 1e-5, Min: 0, Max: 0.01, HasMin: true, HasMax: true},
		{Key: "manning_n", Label: "Manning n", Type: core.ParamTypeFloat, Step: 0.005, Min: 0, Max: 0.2, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a float tunable by key, clamping to its valid
// range. It reports whether the key was recognized.
func (s *Solver) SetFloatParameter(key string, value float64) bool {
	p := &s.cfg.Params
	switch key {
	case "source_flow":
		p.SourceFlowRate = clamp(value, 0, 500)
	case "rain_rate":
		p.RainRate = clamp(value, 0, 0.01)
	case "infiltration_rate":
		p.InfiltrationRate = clamp(value, 0, 0.01)
	case "drainage_rate":
		p.DrainageRate = clamp(value, 0, 0.01)
	case "manning_n":
		p.ManningN = clamp(value, 0, 0.2)
	case "cfl":
		p.CFL = clamp(value, 0.05, 0.9)
	case "velocity_damping":
		p.VelocityDamping = clamp(value, 0, 5)
	case "max_flow_speed":
		p.MaxFlowSpeed = clamp(value, 0.1, 100)
	default:
		return false
	}
	return true
}

// SetIntParameter updates an integer tunable by key.
func (s *Solver) SetIntParameter(key string, value int) bool {
	switch key {
	case "source_radius":
		if value < 0 {
			value = 0
		}
		if value > 32 {
			value = 32
		}
		s.cfg.Params.SourceRadiusCells = value
		return true
	}
	return false
}

// SetBoolParameter updates a boolean tunable by key.
func (s *Solver) SetBoolParameter(key string, value bool) bool {
	switch key {
	case "source_enabled":
		s.cfg.Params.SourceEnabled = value
		return true
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floatParam(key, label string, v float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(v, 'g', 6, 64)}
}

func intParam(key, label string, v int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(v)}
}

func boolParam(key, label string, v bool) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeBool, Value: strconv.FormatBool(v)}
}
