package report

import (
	"fmt"
	"math"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/types"
)

// GradeSampleTypes are the sample types summarized by Grade, in report order
var GradeSampleTypes = []string{"K", "L", "T", "CR", "RC"}

// outlierSigma is how many standard deviations above the mean a value must
// lie to be reported as an outlier
const outlierSigma = 2

// TypeStats summarizes the Au values of one sample type
type TypeStats struct {
	Count    int               `json:"count"`
	Detected int               `json:"detected"`
	Average  float64           `json:"average"`
	Min      float64           `json:"min"`
	Max      float64           `json:"max"`
	Stdev    float64           `json:"stdev"`
	Samples  []types.LabSample `json:"samples"`
}

// Outlier is a detected sample whose grade exceeds its type's threshold
type Outlier struct {
	SampleCode string  `json:"sample_code"`
	SampleType string  `json:"sample_type"`
	AuPPM      float64 `json:"au_ppm"`
	Threshold  float64 `json:"threshold"`
}

// GradeReport is the grade summary of one facility
type GradeReport struct {
	Title        string               `json:"title"`
	FacilityCode string               `json:"facility_code"`
	FacilityName string               `json:"facility_name"`
	ByType       map[string]TypeStats `json:"by_type"`
	Outliers     []Outlier            `json:"outliers"`
}

// Grade summarizes the samples of facilityCode. A sample type with no
// detected Au value is left out of ByType.
func Grade(facilityCode string, facilities config.Facilities, samples []types.LabSample) GradeReport {
	name := facilityCode
	if f, ok := facilities[facilityCode]; ok && f.NameEN != "" {
		name = f.NameEN
	}

	report := GradeReport{
		Title:        fmt.Sprintf("Grade Report - %s", name),
		FacilityCode: facilityCode,
		FacilityName: name,
		ByType:       map[string]TypeStats{},
		Outliers:     []Outlier{},
	}

	byType := map[string][]types.LabSample{}
	for _, s := range samples {
		if s.FacilityCode == facilityCode {
			byType[s.SampleType] = append(byType[s.SampleType], s)
		}
	}

	for _, sampleType := range GradeSampleTypes {
		typeSamples := byType[sampleType]
		values := detectedValues(typeSamples)
		if len(values) == 0 {
			continue
		}

		stats := summarize(values)
		stats.Count = len(typeSamples)
		stats.Samples = typeSamples
		report.ByType[sampleType] = stats

		if stats.Stdev == 0 {
			continue
		}
		threshold := stats.Average + outlierSigma*stats.Stdev
		for _, s := range typeSamples {
			if s.Detected && s.AuPPM != nil && *s.AuPPM > threshold {
				report.Outliers = append(report.Outliers, Outlier{
					SampleCode: s.SampleCode,
					SampleType: sampleType,
					AuPPM:      *s.AuPPM,
					Threshold:  threshold,
				})
			}
		}
	}
	return report
}

func detectedValues(samples []types.LabSample) []float64 {
	var values []float64
	for _, s := range samples {
		if s.Detected && s.AuPPM != nil {
			values = append(values, *s.AuPPM)
		}
	}
	return values
}

// summarize fills Detected, Average, Min, Max and the sample standard
// deviation, which is 0 for a single value. values must not be empty.
func summarize(values []float64) TypeStats {
	stats := TypeStats{
		Detected: len(values),
		Min:      values[0],
		Max:      values[0],
	}

	var sum float64
	for _, v := range values {
		sum += v
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
	}
	stats.Average = sum / float64(len(values))

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - stats.Average
			sq += d * d
		}
		stats.Stdev = math.Sqrt(sq / float64(len(values)-1))
	}
	return stats
}
