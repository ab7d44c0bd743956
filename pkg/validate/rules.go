package validate

import (
	"fmt"

	"github.com/cuemby/oretrace/pkg/config"
)

// SampleRule is a numeric check dispatched on sample type
type SampleRule interface {
	Name() string
	Check(sampleCode string, auPPM float64) *Alert
}

// DefaultSampleRules maps sample type to its rule for the given thresholds
func DefaultSampleRules(t config.Thresholds) map[string]SampleRule {
	return map[string]SampleRule{
		"K":  oreInputRule{warning: t.OreInput.WarningPPM, critical: t.OreInput.CriticalPPM},
		"T":  tailingsRule{critical: t.Tailings.CriticalPPM},
		"RC": returnWaterRule{critical: t.ReturnWater.CriticalPPM},
		"CR": carbonRule{warning: t.Carbon.WarningPPM},
	}
}

type oreInputRule struct{ warning, critical float64 }

func (oreInputRule) Name() string { return "ore_input" }

func (r oreInputRule) Check(code string, au float64) *Alert {
	switch {
	case au > r.critical:
		a := newAlert(LevelCritical, RuleOreInputCritical,
			fmt.Sprintf("Ore input Au > %s ppm: %s ppm - verify immediately", num(r.critical), num(au)),
			sampleData(code, au))
		return &a
	case au > r.warning:
		a := newAlert(LevelWarning, RuleOreInputWarning,
			fmt.Sprintf("Ore input Au > %s ppm: %s ppm - high grade, verify", num(r.warning), num(au)),
			sampleData(code, au))
		return &a
	}
	return nil
}

type tailingsRule struct{ critical float64 }

func (tailingsRule) Name() string { return "tailings" }

func (r tailingsRule) Check(code string, au float64) *Alert {
	if au <= r.critical {
		return nil
	}
	a := newAlert(LevelCritical, RuleTailingsLoss,
		fmt.Sprintf("Tailings Au > %s ppm: %s ppm - gold loss too high", num(r.critical), num(au)),
		sampleData(code, au))
	return &a
}

type returnWaterRule struct{ critical float64 }

func (returnWaterRule) Name() string { return "return_water" }

func (r returnWaterRule) Check(code string, au float64) *Alert {
	if au <= r.critical {
		return nil
	}
	a := newAlert(LevelCritical, RuleReturnWaterLeak,
		fmt.Sprintf("Return water Au > %s ppm: %s ppm - circuit leak", num(r.critical), num(au)),
		sampleData(code, au))
	return &a
}

// Low gold on carbon means the carbon is spent
type carbonRule struct{ warning float64 }

func (carbonRule) Name() string { return "carbon" }

func (r carbonRule) Check(code string, au float64) *Alert {
	if au >= r.warning {
		return nil
	}
	a := newAlert(LevelWarning, RuleCarbonExhausted,
		fmt.Sprintf("Carbon Au < %s ppm: %s ppm - carbon may be exhausted", num(r.warning), num(au)),
		sampleData(code, au))
	return &a
}

func sampleData(code string, au float64) map[string]interface{} {
	return map[string]interface{}{"sample_code": code, "au_ppm": au}
}
