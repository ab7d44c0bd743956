package normalize

import (
	"testing"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"", ""},
		{"25,000", "25000"},
		{"12/5", "12.5"},
		{" 1,234/75 ", "1234.75"},
		{25000.0, "25000"},
		{42, "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanNumber(tt.in), "%v", tt.in)
	}
}

func TestParseFloat(t *testing.T) {
	v, ok := ParseFloat("28,500")
	assert.True(t, ok)
	assert.Equal(t, 28500.0, v)

	v, ok = ParseFloat(7.5)
	assert.True(t, ok)
	assert.Equal(t, 7.5, v)

	_, ok = ParseFloat("n/a")
	assert.False(t, ok)

	_, ok = ParseFloat(nil)
	assert.False(t, ok)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "1404/09/09", NormalizeDate("1404/9/09"))
	assert.Equal(t, "1404/09/09", NormalizeDate("1404/09/9"))
	assert.Equal(t, "1404/10/14", NormalizeDate("1404/10/14"))
	assert.Equal(t, "1404-10-14", NormalizeDate("1404-10-14"))
	assert.Equal(t, "", NormalizeDate(""))
}

func TestCleanTruckNumber(t *testing.T) {
	assert.Equal(t, "12345", CleanTruckNumber("12345.0"))
	assert.Equal(t, "12345", CleanTruckNumber(12345.0))
	assert.Equal(t, "ع-45", CleanTruckNumber("ع-45"))
	assert.Equal(t, "", CleanTruckNumber(nil))
}

func TestCalculateCost(t *testing.T) {
	assert.Equal(t, 175000000.0, CalculateCost(25000, 7000000))
	assert.Equal(t, 2*CalculateCost(12500, 7000000), CalculateCost(25000, 7000000))
	assert.Equal(t, 0.0, CalculateCost(0, 7000000))
	assert.Equal(t, 80000000.0, CalculateCost(25000, 3200000))
}

func TestField(t *testing.T) {
	r := Record{"date": "", "تاریخ": "1404/10/14", "tonnage": 25000.0}

	assert.Equal(t, "1404/10/14", Field(r, "date", "تاریخ"))
	assert.Equal(t, 25000.0, Field(r, "tonnage_kg", "tonnage"))
	assert.Nil(t, Field(r, "missing"))
	assert.Equal(t, "1404/10/14", FieldString(r, "date", "تاریخ"))
}

func TestRowFilters(t *testing.T) {
	assert.True(t, IsSummaryRow(Record{"ردیف": "جمع کل", "تناژ": 500000.0}))
	assert.False(t, IsSummaryRow(Record{"ردیف": 1.0, "تناژ": 25000.0}))

	assert.True(t, IsNullRow(Record{"a": nil, "b": "  "}))
	assert.True(t, IsNullRow(Record{}))
	assert.False(t, IsNullRow(Record{"a": nil, "b": 0.0}))
}

func TestFixColumnTypos(t *testing.T) {
	fixed := FixColumnTypos(Record{"تاربخ": "1404/10/14", "Samole": "A 1404 10 14 K1", "x": 1})
	assert.Equal(t, Record{"تاریخ": "1404/10/14", "Sample": "A 1404 10 14 K1", "x": 1}, fixed)
}

func TestDriverRegistry_Canonicalize(t *testing.T) {
	reg := NewDriverRegistry(config.Drivers{Canonical: map[string]config.DriverEntry{
		"Ali Rezaei":  {Aliases: []string{"Ali Rezaee", "A. Rezaei"}, Status: "active"},
		"Reza Karimi": {Aliases: []string{"R. Karimi"}},
	}})

	assert.Equal(t, types.DriverInfo{Original: "A. Rezaei", Canonical: "Ali Rezaei", Known: true, Status: "active"},
		reg.Canonicalize(" A. Rezaei "))
	assert.Equal(t, types.DriverInfo{Original: "Reza Karimi", Canonical: "Reza Karimi", Known: true, Status: "active"},
		reg.Canonicalize("Reza Karimi"))
	assert.Equal(t, types.DriverInfo{Original: "Hassan", Canonical: "Hassan", Status: "pending_review"},
		reg.Canonicalize("Hassan"))
	assert.Equal(t, types.DriverInfo{Original: "  ", Status: "pending_review"},
		reg.Canonicalize("  "))

	assert.True(t, reg.IsKnown("R. Karimi"))
	assert.Equal(t, 2, reg.Len())
}

func TestDriverRegistry_Nil(t *testing.T) {
	var reg *DriverRegistry
	info := reg.Canonicalize("Someone")
	assert.False(t, info.Known)
	assert.Equal(t, 0, reg.Len())
}
