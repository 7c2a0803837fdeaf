package candidate

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"sort"
)

// Table is the pipeline's terminal artifact: an ordered, deduplicated set of
// candidate records. It is built fresh per run and not mutated afterwards.
type Table struct {
	Records []*Record
}

func (t *Table) Len() int { return len(t.Records) }

// Rank sorts records by ATA score descending. The sort is stable: ties retain
// their original processing order.
func (t *Table) Rank() {
	sort.SliceStable(t.Records, func(i, j int) bool {
		return t.Records[i].AtaScore > t.Records[j].AtaScore
	})
}

// Deduplicate keeps the first occurrence per (email, name) pair and reports
// how many records were dropped. Run after Rank so the highest-scoring
// duplicate survives. Dropped duplicates are a known multi-submission
// scenario, not an error.
func (t *Table) Deduplicate() int {
	seen := make(map[dedupKey]bool, len(t.Records))
	kept := make([]*Record, 0, len(t.Records))
	for _, record := range t.Records {
		if seen[record.key()] {
			continue
		}
		seen[record.key()] = true
		kept = append(kept, record)
	}

	dropped := len(t.Records) - len(kept)
	t.Records = kept
	return dropped
}

// Columns returns the fixed column order of the table. The ml_score column is
// always present; a run without the suitability model leaves its cells empty
// rather than omitting the column.
func (t *Table) Columns() []string {
	return Columns
}

// WriteCSV writes the table with a header row in Columns order.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns()); err != nil {
		return err
	}
	for _, record := range t.Records {
		if err := writer.Write(record.Cells()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// DumpToTmpFile writes the table as indented JSON to a temporary file and
// returns its name.
func (t *Table) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Preview returns a compact name/email/score view for console output, one row
// per record, headed by the column names.
func (t *Table) Preview() [][]string {
	rows := make([][]string, 0, t.Len()+1)
	rows = append(rows, []string{"name", "email", "ata_score", "matched_keywords"})
	for _, record := range t.Records {
		cells := record.Cells()
		rows = append(rows, []string{cells[1], cells[2], cells[6] + "%", cells[10]})
	}
	return rows
}
