package convert

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cuemby/oretrace/pkg/normalize"
)

// Sheet is one named worksheet of raw records
type Sheet struct {
	Name    string
	Records []normalize.Record
}

// Sheets is an ordered workbook. It decodes from a JSON object of
// sheet name to record list, keeping the object's key order.
type Sheets []Sheet

// UnmarshalJSON decodes {"sheet": [{...}, ...], ...} in document order
func (s *Sheets) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected sheets object, got %v", tok)
	}

	var sheets Sheets
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var records []normalize.Record
		if err := dec.Decode(&records); err != nil {
			return fmt.Errorf("failed to decode sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Records: records})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = sheets
	return nil
}
