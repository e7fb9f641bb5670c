package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"docverify/internal/domain"
)

// BOM makes Excel on Windows read the CSV as UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// validationColumns is the header row of the validation history export.
var validationColumns = []string{
	"Validation ID",
	"Document ID",
	"Mode",
	"Valid",
	"Issue Count",
	"Issues",
	"Answer SHA-256",
	"Created At",
}

// ValidationWriter wraps csv.Writer for exporting the answer validation history.
type ValidationWriter struct {
	csv *csv.Writer
}

// NewValidationWriter creates a ValidationWriter that writes CSV to w.
func NewValidationWriter(w io.Writer) *ValidationWriter {
	return &ValidationWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *ValidationWriter) WriteHeader() error {
	return w.csv.Write(validationColumns)
}

// WriteEntries converts a batch of audit rows to CSV rows and writes them.
func (w *ValidationWriter) WriteEntries(entries []domain.AnswerValidation) error {
	for i := range entries {
		if err := w.csv.Write(entryToRow(&entries[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *ValidationWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *ValidationWriter) Error() error {
	return w.csv.Error()
}

// entryToRow renders one audit row. Issue messages are joined with " | ";
// an unreadable issues payload leaves the column empty.
func entryToRow(e *domain.AnswerValidation) []string {
	row := make([]string, len(validationColumns))
	row[0] = e.ID.String()
	row[1] = e.DocumentID.String()
	row[2] = string(e.Mode)
	row[3] = strconv.FormatBool(e.IsValid)
	row[4] = strconv.Itoa(e.IssueCount)
	row[6] = e.AnswerHash
	row[7] = e.CreatedAt.Format(time.RFC3339)

	var issues []string
	if len(e.Issues) > 0 && json.Unmarshal(e.Issues, &issues) == nil {
		row[5] = strings.Join(issues, " | ")
	}
	return row
}
