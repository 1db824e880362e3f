// report/csv.go
package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

var columns = []string{"input", "valid", "reason", "message"}

func writeCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write([]string{r.Input, strconv.FormatBool(r.Valid), r.Reason, r.Message}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
