package convert

import (
	"strings"

	"github.com/cuemby/oretrace/pkg/normalize"
	"github.com/cuemby/oretrace/pkg/samplecode"
	"github.com/cuemby/oretrace/pkg/types"
)

// DetectionLimitPPM is the lab's reporting floor for gold
const DetectionLimitPPM = 0.05

// TypeStats summarizes the samples of one sample type
type TypeStats struct {
	Count         int     `json:"count"`
	Detected      int     `json:"detected"`
	DetectionRate float64 `json:"detection_rate"`
	AverageAuPPM  float64 `json:"average_au_ppm"`
	MaxAuPPM      float64 `json:"max_au_ppm"`
	MinAuPPM      float64 `json:"min_au_ppm"`
}

// AssayStats summarizes one assay conversion
type AssayStats struct {
	TotalSamples  int                  `json:"total_samples"`
	DetectionRate float64              `json:"detection_rate"`
	ByType        map[string]TypeStats `json:"by_type"`
}

// AssayResult is the output of Assay
type AssayResult struct {
	Samples    []types.LabSample `json:"samples"`
	Statistics AssayStats        `json:"statistics"`
}

// Assay converts lab sheets to lab samples in sheet then row order
func (c *Converter) Assay(sheets Sheets) AssayResult {
	samples := []types.LabSample{}
	for _, sheet := range sheets {
		for _, r := range sheet.Records {
			if normalize.IsNullRow(r) {
				continue
			}
			samples = append(samples, labSample(normalize.FixColumnTypos(r), sheet.Name))
		}
		c.logger.Debug().Str("sheet", sheet.Name).Int("records", len(sheet.Records)).Msg("Assay sheet converted")
	}

	return AssayResult{Samples: samples, Statistics: assayStats(samples)}
}

func labSample(r normalize.Record, sheet string) types.LabSample {
	code := normalize.FieldString(r, colSample...)
	au, detected, below := ParseAu(normalize.Field(r, colAu...))

	s := types.LabSample{
		SampleCode:          code,
		SheetName:           sheet,
		AuPPM:               au,
		Detected:            detected,
		BelowDetectionLimit: below,
	}
	if code == "" {
		return s
	}

	parsed := samplecode.Parse(code)
	s.SampleType = parsed.SampleType
	s.FacilityCode = parsed.FacilityCode
	s.Date = parsed.Date
	s.Year = parsed.Year
	s.Month = parsed.Month
	s.Day = parsed.Day
	s.SampleNumber = parsed.SampleNumber
	s.IsSpecial = parsed.IsSpecial
	return s
}

// ParseAu reads a gold value. "<0.05" yields the limit with below set and
// detected false; a non-numeric value yields nil.
func ParseAu(v interface{}) (value *float64, detected, below bool) {
	if v == nil {
		return nil, false, false
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false, false
		}
		if strings.HasPrefix(s, "<") {
			if f, ok := normalize.ParseFloat(strings.TrimSpace(s[1:])); ok {
				return &f, false, true
			}
			return nil, false, true
		}
	}
	if f, ok := normalize.ParseFloat(v); ok {
		return &f, true, false
	}
	return nil, false, false
}

func assayStats(samples []types.LabSample) AssayStats {
	stats := AssayStats{TotalSamples: len(samples), ByType: map[string]TypeStats{}}

	groups := map[string][]types.LabSample{}
	for _, s := range samples {
		groups[s.SampleType] = append(groups[s.SampleType], s)
	}

	detectedTotal := 0
	for sampleType, group := range groups {
		ts := TypeStats{Count: len(group)}
		var sum float64
		var values int
		for _, s := range group {
			if !s.Detected {
				continue
			}
			ts.Detected++
			if s.AuPPM == nil {
				continue
			}
			v := *s.AuPPM
			if values == 0 || v > ts.MaxAuPPM {
				ts.MaxAuPPM = v
			}
			if values == 0 || v < ts.MinAuPPM {
				ts.MinAuPPM = v
			}
			sum += v
			values++
		}
		ts.DetectionRate = float64(ts.Detected) / float64(ts.Count)
		if values > 0 {
			ts.AverageAuPPM = sum / float64(values)
		}
		stats.ByType[sampleType] = ts
		detectedTotal += ts.Detected
	}

	if len(samples) > 0 {
		stats.DetectionRate = float64(detectedTotal) / float64(len(samples))
	}
	return stats
}
