package eval

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteCSV writes the result as a table keyed by parameter name and value.
//
// Undefined slices leave the accuracy cell empty and set defined to false;
// they are never written as 0.
func WriteCSV(w io.Writer, result *Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"parameter", "value", "samples", "correct", "accuracy", "defined"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	rows := append([]AccuracyRecord(nil), result.Records...)
	rows = append(rows, result.Overall)
	for _, r := range rows {
		accuracy := ""
		if r.Defined {
			accuracy = strconv.FormatFloat(r.Accuracy, 'f', 4, 64)
		}
		row := []string{
			r.Parameter,
			r.Value,
			strconv.Itoa(r.Samples),
			strconv.Itoa(r.Correct),
			accuracy,
			strconv.FormatBool(r.Defined),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// MarshalJSON emits null accuracy for undefined slices, since JSON has no NaN
// literal and a numeric placeholder would read as a measurement.
func (r AccuracyRecord) MarshalJSON() ([]byte, error) {
	type alias struct {
		Parameter string   `json:"parameter"`
		Value     string   `json:"value"`
		Samples   int      `json:"samples"`
		Correct   int      `json:"correct"`
		Accuracy  *float64 `json:"accuracy"`
		Defined   bool     `json:"defined"`
	}
	a := alias{
		Parameter: r.Parameter,
		Value:     r.Value,
		Samples:   r.Samples,
		Correct:   r.Correct,
		Defined:   r.Defined,
	}
	if r.Defined {
		a.Accuracy = &r.Accuracy
	}
	return json.Marshal(a)
}

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// SaveCSV writes the CSV table to path.
func SaveCSV(result *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(f, result)
}

// SaveJSON writes the JSON report to path.
func SaveJSON(result *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(f, result)
}
