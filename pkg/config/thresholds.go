package config

// Thresholds are the numeric limits used by the validation rules.
// A configured 0 is a real limit; only absent keys take the default.
type Thresholds struct {
	OreInput    OreInputThresholds    `yaml:"ore_input"`
	Tailings    TailingsThresholds    `yaml:"tailings"`
	ReturnWater ReturnWaterThresholds `yaml:"return_water"`
	Carbon      CarbonThresholds      `yaml:"carbon"`
	Tonnage     TonnageThresholds     `yaml:"tonnage"`
}

// OreInputThresholds apply to K samples
type OreInputThresholds struct {
	WarningPPM  float64 `yaml:"warning_threshold_ppm"`
	CriticalPPM float64 `yaml:"critical_threshold_ppm"`
}

// TailingsThresholds apply to T samples
type TailingsThresholds struct {
	CriticalPPM float64 `yaml:"critical_threshold_ppm"`
}

// ReturnWaterThresholds apply to RC samples
type ReturnWaterThresholds struct {
	CriticalPPM float64 `yaml:"critical_threshold_ppm"`
}

// CarbonThresholds apply to CR samples
type CarbonThresholds struct {
	WarningPPM float64 `yaml:"warning_threshold_ppm"`
}

// TonnageThresholds bound a normal truck load
type TonnageThresholds struct {
	MinWarningKg float64 `yaml:"min_warning_kg"`
	MaxWarningKg float64 `yaml:"max_warning_kg"`
}

// DefaultThresholds returns the built-in limits
func DefaultThresholds() Thresholds {
	return Thresholds{
		OreInput:    OreInputThresholds{WarningPPM: 5.0, CriticalPPM: 20.0},
		Tailings:    TailingsThresholds{CriticalPPM: 0.2},
		ReturnWater: ReturnWaterThresholds{CriticalPPM: 0.05},
		Carbon:      CarbonThresholds{WarningPPM: 200.0},
		Tonnage:     TonnageThresholds{MinWarningKg: 15000, MaxWarningKg: 32000},
	}
}
