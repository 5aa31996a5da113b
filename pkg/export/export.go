package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/skyops/nightplan/core/model"
)

// WriteJSON writes the schedule to w in JSON format, indented for human
// inspection.
func WriteJSON(w io.Writer, s model.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteCSV writes the schedule entries to w as CSV, one row per observation.
func WriteCSV(w io.Writer, s model.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"target_id", "type", "start", "end", "score", "origin"}); err != nil {
		return err
	}
	for _, e := range s.Entries {
		rec := []string{
			e.Target.ID,
			e.Target.Type,
			e.Start.Format(time.RFC3339),
			e.End.Format(time.RFC3339),
			strconv.FormatFloat(e.Score, 'f', -1, 64),
			string(e.Origin),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
