package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/normalize"
	"github.com/cuemby/oretrace/pkg/samplecode"
	"github.com/cuemby/oretrace/pkg/types"
)

// Engine evaluates records against the configured thresholds.
// It holds no mutable state; every Validate call is a pure function of its input.
type Engine struct {
	thresholds  config.Thresholds
	sampleRules map[string]SampleRule
	drivers     *normalize.DriverRegistry
}

// NewEngine creates an engine. The zero Thresholds value selects the
// defaults; any other value is used as given, zeros included.
// drivers may be nil, in which case shipments are judged by their own DriverInfo.
func NewEngine(thresholds config.Thresholds, drivers *normalize.DriverRegistry) *Engine {
	if thresholds == (config.Thresholds{}) {
		thresholds = config.DefaultThresholds()
	}
	return &Engine{
		thresholds:  thresholds,
		sampleRules: DefaultSampleRules(thresholds),
		drivers:     drivers,
	}
}

// NewDefaultEngine creates an engine with the built-in thresholds and no driver registry
func NewDefaultEngine() *Engine {
	return NewEngine(config.DefaultThresholds(), nil)
}

// Thresholds returns the effective limits
func (e *Engine) Thresholds() config.Thresholds {
	return e.thresholds
}

// ValidateLabSample checks the sample code format and, when a gold value is
// present, the one numeric rule for the sample type.
func (e *Engine) ValidateLabSample(s types.LabSample) []Alert {
	var alerts []Alert

	if !samplecode.IsWellFormed(s.SampleCode) {
		alerts = append(alerts, newAlert(LevelCritical, RuleInvalidSampleCode,
			fmt.Sprintf("Sample code doesn't match expected format: %s", s.SampleCode),
			map[string]interface{}{"sample_code": s.SampleCode}))
	}

	if s.AuPPM == nil || math.IsNaN(*s.AuPPM) {
		return alerts
	}

	rule, ok := e.sampleRules[s.SampleType]
	if !ok {
		return alerts
	}
	if a := rule.Check(s.SampleCode, *s.AuPPM); a != nil {
		alerts = append(alerts, *a)
	}
	return alerts
}

// ValidateTonnage flags a load outside the normal truck range.
// context is merged into the alert data.
func (e *Engine) ValidateTonnage(tonnageKg float64, context map[string]interface{}) []Alert {
	min, max := e.thresholds.Tonnage.MinWarningKg, e.thresholds.Tonnage.MaxWarningKg
	if tonnageKg >= min && tonnageKg <= max {
		return nil
	}

	data := map[string]interface{}{"tonnage_kg": tonnageKg}
	for k, v := range context {
		data[k] = v
	}
	return []Alert{newAlert(LevelWarning, RuleUnusualTonnage,
		fmt.Sprintf("Tonnage %s kg outside normal range [%s, %s]", num(tonnageKg), num(min), num(max)),
		data)}
}

// ValidateShipment runs the receipt, driver and tonnage checks. All three may fire.
func (e *Engine) ValidateShipment(s types.Shipment) []Alert {
	var alerts []Alert

	if s.ReceiptNumber == nil || strings.TrimSpace(*s.ReceiptNumber) == "" {
		alerts = append(alerts, newAlert(LevelWarning, RuleMissingReceipt,
			"Missing receipt number - data quality issue",
			map[string]interface{}{"row": s.RowNumber, "date": s.Date}))
	}

	if !e.driverKnown(s.Driver) {
		alerts = append(alerts, newAlert(LevelWarning, RuleUnknownDriver,
			fmt.Sprintf("Unknown driver: %s - add to registry", s.Driver.Original),
			map[string]interface{}{"driver": s.Driver.Original}))
	}

	if s.TonnageKg != 0 {
		alerts = append(alerts, e.ValidateTonnage(s.TonnageKg, map[string]interface{}{
			"record_type": "shipment",
			"date":        s.Date,
		})...)
	}

	return alerts
}

func (e *Engine) driverKnown(d types.DriverInfo) bool {
	if d.Known {
		return true
	}
	if e.drivers == nil || e.drivers.Len() == 0 {
		return false
	}
	return e.drivers.IsKnown(d.Original)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
