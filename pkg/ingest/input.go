package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cuemby/oretrace/pkg/convert"
	"github.com/cuemby/oretrace/pkg/normalize"
)

// Input file names looked up by LoadInput
const (
	TruckingFile = "trucking.json"
	BunkerFile   = "bunker.json"
	AssayFile    = "assay.json"
)

// LoadInput reads the batch files present in dir. A missing file leaves
// its part of the input empty.
func LoadInput(dir string) (Input, error) {
	var in Input

	files := []struct {
		name string
		out  interface{}
	}{
		{TruckingFile, &in.Trucking},
		{BunkerFile, &in.Bunker},
		{AssayFile, &in.Assay},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := readJSON(path, f.out); err != nil {
			return Input{}, err
		}
	}
	return in, nil
}

// ReadRecords decodes a JSON array of records
func ReadRecords(path string) ([]normalize.Record, error) {
	var records []normalize.Record
	if err := readJSON(path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadSheets decodes a JSON object of sheet name to records
func ReadSheets(path string) (convert.Sheets, error) {
	var sheets convert.Sheets
	if err := readJSON(path, &sheets); err != nil {
		return nil, err
	}
	return sheets, nil
}

func readJSON(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
