package bench

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV dumps samples as a tabular file for offline analysis.
// Columns are nanoseconds so spreadsheets don't mangle duration strings.
func WriteCSV(path string, samples []Sample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"seq", "elapsed_ns", "expected_ns", "jitter_ns"}); err != nil {
		_ = f.Close()
		return err
	}
	row := make([]string, 4)
	for _, s := range samples {
		row[0] = strconv.FormatInt(s.Seq, 10)
		row[1] = strconv.FormatInt(int64(s.Elapsed), 10)
		row[2] = strconv.FormatInt(int64(s.Expected), 10)
		row[3] = strconv.FormatInt(int64(s.Jitter), 10)
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
