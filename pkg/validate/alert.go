package validate

import "encoding/json"

// Level is the severity of a validation alert
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Levels returns all levels from most to least severe
func Levels() []Level {
	return []Level{LevelCritical, LevelWarning, LevelInfo}
}

// Rule tags
const (
	RuleInvalidSampleCode = "invalid_sample_code"
	RuleOreInputCritical  = "ore_input_critical"
	RuleOreInputWarning   = "ore_input_warning"
	RuleTailingsLoss      = "tailings_loss"
	RuleReturnWaterLeak   = "return_water_leak"
	RuleCarbonExhausted   = "carbon_exhausted"
	RuleMissingReceipt    = "missing_receipt"
	RuleUnknownDriver     = "unknown_driver"
	RuleUnusualTonnage    = "unusual_tonnage"
)

// Alert is the outcome of one failed check. Alerts are created by the Engine
// and treated as immutable values afterwards.
type Alert struct {
	Level   Level                  `json:"level"`
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func newAlert(level Level, rule, message string, data map[string]interface{}) Alert {
	if data == nil {
		data = map[string]interface{}{}
	}
	return Alert{Level: level, Rule: rule, Message: message, Data: data}
}

// MarshalJSON renders the alert record sent to storage and notifiers
func (a Alert) MarshalJSON() ([]byte, error) {
	type record Alert
	r := record(a)
	if r.Data == nil {
		r.Data = map[string]interface{}{}
	}
	return json.Marshal(r)
}
