package eval

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleResult() *Result {
	return &Result{
		Parameter: "fin_angle",
		Records: []AccuracyRecord{
			{Parameter: "fin_angle", Value: "30", Samples: 10, Correct: 9, Accuracy: 0.9, Defined: true},
			{Parameter: "fin_angle", Value: "60", Accuracy: math.NaN(), Defined: false},
			{Parameter: "fin_angle", Value: "90", Samples: 10, Correct: 3, Accuracy: 0.3, Defined: true},
		},
		Overall: AccuracyRecord{Parameter: "fin_angle", Value: "overall", Samples: 20, Correct: 12, Accuracy: 0.6, Defined: true},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 { // header + 3 slices + overall
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	if lines[0] != "parameter,value,samples,correct,accuracy,defined" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "0.9000") {
		t.Errorf("defined slice missing accuracy: %q", lines[1])
	}

	// The undefined slice must have an empty accuracy cell, not a zero.
	if got := lines[2]; got != "fin_angle,60,0,0,,false" {
		t.Errorf("undefined slice row = %q, want empty accuracy and defined=false", got)
	}
	if !strings.HasSuffix(lines[4], "true") {
		t.Errorf("overall row = %q, want defined=true", lines[4])
	}
}

func TestWriteJSONHandlesUndefined(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded struct {
		Parameter string `json:"parameter"`
		Records   []struct {
			Value    string   `json:"value"`
			Accuracy *float64 `json:"accuracy"`
			Defined  bool     `json:"defined"`
		} `json:"records"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Parameter != "fin_angle" {
		t.Errorf("parameter = %q, want fin_angle", decoded.Parameter)
	}
	if len(decoded.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(decoded.Records))
	}
	if decoded.Records[1].Accuracy != nil {
		t.Errorf("undefined accuracy = %v, want null", *decoded.Records[1].Accuracy)
	}
	if decoded.Records[0].Accuracy == nil || *decoded.Records[0].Accuracy != 0.9 {
		t.Error("defined accuracy lost in JSON round trip")
	}
}

func TestSaveCSVAndJSON(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()

	csvPath := filepath.Join(dir, "report.csv")
	if err := SaveCSV(result, csvPath); err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}
	jsonPath := filepath.Join(dir, "report.json")
	if err := SaveJSON(result, jsonPath); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	for _, p := range []string{csvPath, jsonPath} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}

func TestChartRender(t *testing.T) {
	chart := Chart{
		Title:  "accuracy vs fin angle",
		XLabel: "fin_angle",
		Series: []Series{
			{Name: "CF", Records: sampleResult().Records},
			{Name: "ML", Records: sampleResult().Records},
		},
	}

	img := chart.Render()
	bounds := img.Bounds()
	if bounds.Dx() != chartWidth || bounds.Dy() != chartHeight {
		t.Errorf("chart size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), chartWidth, chartHeight)
	}

	// The two series must use distinct colors.
	if seriesColor(0, 2) == seriesColor(1, 2) {
		t.Error("series colors are identical")
	}
}

func TestChartSavePNG(t *testing.T) {
	chart := Chart{
		Title:  "test",
		XLabel: "x",
		Series: []Series{{Name: "s", Records: sampleResult().Records}},
	}

	path := filepath.Join(t.TempDir(), "chart.png")
	if err := chart.SavePNG(path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat chart: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}

func TestChartRenderEmptySeries(t *testing.T) {
	img := Chart{Title: "empty", XLabel: "x"}.Render()
	if img == nil {
		t.Fatal("Render returned nil for an empty chart")
	}
}
