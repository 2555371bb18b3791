package flood

import "testing"

func TestFromMapParsesKnownKeys(t *testing.T) {
	c := FromMap(map[string]string{
		"seed":           "7",
		"cfl":            "0.3",
		"manning_n":      "0.05",
		"source_enabled": "true",
		"source_flow":    "12.5",
		"source_radius":  "3",
		"rain_rate":      "0.001",
	})
	if c.Seed != 7 {
		t.Fatalf("seed=%d", c.Seed)
	}
	if c.Params.CFL != 0.3 || c.Params.ManningN != 0.05 {
		t.Fatalf("numerics not applied: %+v", c.Params)
	}
	if !c.Params.SourceEnabled || c.Params.SourceFlowRate != 12.5 || c.Params.SourceRadiusCells != 3 {
		t.Fatalf("source settings not applied: %+v", c.Params)
	}
	if c.Params.RainRate != 0.001 {
		t.Fatalf("rain rate not applied: %f", c.Params.RainRate)
	}
}

func TestFromMapRejectsInvalidValues(t *testing.T) {
	def := DefaultConfig()
	c := FromMap(map[string]string{
		"cfl":         "1.5",     // above the stable range
		"gravity":     "-9.81",   // negative
		"source_flow": "nonsense",
		"max_dt":      "0",
	})
	if c.Params.CFL != def.Params.CFL {
		t.Fatalf("out-of-range cfl accepted: %f", c.Params.CFL)
	}
	if c.Params.Gravity != def.Params.Gravity {
		t.Fatalf("negative gravity accepted: %f", c.Params.Gravity)
	}
	if c.Params.SourceFlowRate != def.Params.SourceFlowRate {
		t.Fatalf("unparseable flow accepted: %f", c.Params.SourceFlowRate)
	}
	if c.Params.MaxDt != def.Params.MaxDt {
		t.Fatalf("zero max_dt accepted: %f", c.Params.MaxDt)
	}
}

func TestFromMapOrdersDtBounds(t *testing.T) {
	c := FromMap(map[string]string{"min_dt": "0.1", "max_dt": "0.01"})
	if c.Params.MaxDt < c.Params.MinDt {
		t.Fatalf("dt bounds inverted: min=%f max=%f", c.Params.MinDt, c.Params.MaxDt)
	}
}
