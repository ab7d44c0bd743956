package samplecode

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cuemby/oretrace/pkg/types"
)

// UnknownType is the sample type given to concatenated codes without a suffix
const UnknownType = "unknown"

// maxRawTypeLen bounds the raw input kept as the sample type of an unparseable code
const maxRawTypeLen = 50

var (
	// Codes that carry no facility/date structure
	specialCodes = map[string]struct{}{
		"F2(T3)": {},
		"SR2":    {},
	}

	// C 1404 10 14 K2
	spacedPattern = regexp.MustCompile(`^([A-C])\s+(\d{4})\s+(\d{1,2})\s+(\d{1,2})\s+([A-Z]{1,2})(\d*)$`)

	// A1404105L, C14041014K, RC14041010, 14041017CR3
	concatPattern = regexp.MustCompile(`^([A-Z]{0,2}?)(\d{4})(\d{2})(\d{1,2})([A-Z]+\d*)?$`)
)

// Matcher attempts to parse a trimmed sample code. The boolean reports a match.
type Matcher func(code string) (types.SampleCode, bool)

// Matchers returns the matchers in precedence order. The first match wins.
func Matchers() []Matcher {
	return []Matcher{
		matchSpecial,
		matchSpaced,
		matchConcatenated,
	}
}

// Parse extracts facility, date and sample type from a sample code.
// It never fails: input that no matcher accepts comes back with ParseFailed set.
func Parse(code string) types.SampleCode {
	code = strings.TrimSpace(code)
	for _, match := range Matchers() {
		if sc, ok := match(code); ok {
			return sc
		}
	}
	return types.SampleCode{
		SampleType:  truncate(code, maxRawTypeLen),
		ParseFailed: true,
	}
}

// IsSpecial reports whether code is one of the structureless special codes
func IsSpecial(code string) bool {
	_, ok := specialCodes[code]
	return ok
}

// IsWellFormed reports whether code follows the spaced convention or is a special code.
// Concatenated codes parse but are not considered well-formed.
func IsWellFormed(code string) bool {
	if code == "" {
		return false
	}
	return IsSpecial(code) || spacedPattern.MatchString(code)
}

func matchSpecial(code string) (types.SampleCode, bool) {
	if !IsSpecial(code) {
		return types.SampleCode{}, false
	}
	return types.SampleCode{
		SampleType: code,
		IsSpecial:  true,
	}, true
}

func matchSpaced(code string) (types.SampleCode, bool) {
	m := spacedPattern.FindStringSubmatch(code)
	if m == nil {
		return types.SampleCode{}, false
	}
	month, day := pad2(m[3]), pad2(m[4])
	return types.SampleCode{
		FacilityCode: m[1],
		Year:         m[2],
		Month:        month,
		Day:          day,
		Date:         formatDate(m[2], month, day),
		SampleType:   m[5],
		SampleNumber: m[6],
	}, true
}

func matchConcatenated(code string) (types.SampleCode, bool) {
	m := concatPattern.FindStringSubmatch(code)
	if m == nil {
		return types.SampleCode{}, false
	}
	prefix, year, month, day, suffix := m[1], m[2], m[3], pad2(m[4]), m[5]

	sampleType := suffix
	if sampleType == "" {
		sampleType = UnknownType
	}

	var facility string
	switch prefix {
	case "A", "B", "C":
		facility = prefix
	}

	return types.SampleCode{
		FacilityCode: facility,
		Prefix:       prefix,
		Year:         year,
		Month:        month,
		Day:          day,
		Date:         formatDate(year, month, day),
		SampleType:   truncate(sampleType, maxRawTypeLen),
	}, true
}

func formatDate(year, month, day string) string {
	return fmt.Sprintf("%s/%s/%s", year, month, day)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
