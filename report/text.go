// report/text.go
package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// maxInputColumn caps the padded input column; longer inputs just push the
// message column right on their own line.
const maxInputColumn = 48

func writeText(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)

	inputs := make([]string, len(results))
	col := 0
	for i, r := range results {
		inputs[i] = displayInput(r.Input)
		if n := displayWidth(inputs[i]); n > col && n <= maxInputColumn {
			col = n
		}
	}

	for i, r := range results {
		status := "ok     "
		if !r.Valid {
			status = "invalid"
		}
		bw.WriteString(status)
		bw.WriteString("  ")
		bw.WriteString(inputs[i])
		if pad := col - displayWidth(inputs[i]); pad > 0 {
			bw.WriteString(strings.Repeat(" ", pad))
		}
		bw.WriteString("  ")
		bw.WriteString(r.Message)
		bw.WriteByte('\n')
	}

	if len(results) > 1 {
		bw.WriteByte('\n')
		bw.WriteString(Summarize(results).String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// displayInput quotes inputs that are empty or carry non-printable runes so
// the table stays one line per address.
func displayInput(s string) string {
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0 {
		return strconv.Quote(s)
	}
	return s
}

// displayWidth counts terminal cells: wide and fullwidth East Asian runes
// take two, combining marks none.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
		case isWide(r):
			n += 2
		default:
			n++
		}
	}
	return n
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
