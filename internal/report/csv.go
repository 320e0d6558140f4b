package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// DefaultCSVPath is the default file to which the CSV report is written.
const DefaultCSVPath = "terraform_metrics.csv"

// WriteCSV writes one row per workspace with its resource count and applies
// per month, followed by a row of totals. There is a column for each of the
// window's keys, in order, including any repeated months.
func WriteCSV(w io.Writer, r *Report) error {
	keys := r.Window.Keys()

	cw := csv.NewWriter(w)
	header := []string{"Workspace Name", "Resource Count"}
	for _, k := range keys {
		header = append(header, fmt.Sprintf("%s Applies", k))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, ws := range r.Workspaces {
		row := []string{ws.Name, strconv.Itoa(ws.ResourceCount)}
		for _, k := range keys {
			row = append(row, strconv.Itoa(ws.Applies.Get(k)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	total := []string{"Total", strconv.Itoa(r.Totals.ResourceCount)}
	for _, k := range keys {
		total = append(total, strconv.Itoa(r.Totals.Applies.Get(k)))
	}
	if err := cw.Write(total); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV report to the file at path, replacing any
// existing file.
func WriteCSVFile(path string, r *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
