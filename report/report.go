// Package report renders batches of verdicts as text, YAML, CSV or XLSX.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/emailcheck/validate"
)

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatYAML, FormatCSV, FormatXLSX}

// ParseFormat accepts a format name case-insensitively ("yml" is an alias).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatYAML, FormatCSV, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, yaml, csv or xlsx)", s)
}

// Binary reports whether f should not be written to a terminal.
func (f Format) Binary() bool { return f == FormatXLSX }

// Result is one checked address.
type Result struct {
	Input   string `yaml:"input"`
	Valid   bool   `yaml:"valid"`
	Reason  string `yaml:"reason"`
	Message string `yaml:"message"`
}

// FromVerdict pairs the raw input with its verdict.
func FromVerdict(input string, v validate.Verdict) Result {
	return Result{
		Input:   input,
		Valid:   v.Valid,
		Reason:  v.Reason.String(),
		Message: v.Message,
	}
}

// Summary counts results.
type Summary struct {
	Checked int `yaml:"checked"`
	Valid   int `yaml:"valid"`
	Invalid int `yaml:"invalid"`
}

// Summarize counts valid and invalid results.
func Summarize(results []Result) Summary {
	s := Summary{Checked: len(results)}
	for _, r := range results {
		if r.Valid {
			s.Valid++
		}
	}
	s.Invalid = s.Checked - s.Valid
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d checked: %d valid, %d invalid", s.Checked, s.Valid, s.Invalid)
}

// Write encodes results to w in format f.
func Write(w io.Writer, f Format, results []Result) error {
	switch f {
	case FormatText:
		return writeText(w, results)
	case FormatYAML:
		return writeYAML(w, results)
	case FormatCSV:
		return writeCSV(w, results)
	case FormatXLSX:
		return writeXLSX(w, results)
	}
	return fmt.Errorf("unknown format %q", f)
}
