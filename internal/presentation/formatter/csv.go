package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, l Listing) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"ID", "Time", "Name", "English", "Important"}); err != nil {
		return err
	}
	for _, row := range l.Rows {
		record := []string{
			strconv.FormatInt(int64(row.ID), 10),
			row.Time,
			row.Name,
			row.NameSecondary,
			strconv.FormatBool(row.Important),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
