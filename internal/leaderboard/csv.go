package leaderboard

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"Tên", "Điểm", "Ngày"}

// WriteCSV writes entries with a header row. Dates are RFC 3339.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{e.Name, strconv.Itoa(e.Score), e.Date.Format(time.RFC3339)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName is the export file name for a board exported at now.
func FileName(now time.Time) string {
	return "chemmaster-leaderboard-" + now.Format("20060102") + ".csv"
}
