// Package export renders stored facts and validation history as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"docverify/internal/domain"
)

// WorkbookContentType is the MIME type of the xlsx output.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetSummary   = "Summary"
	SheetDeadlines = "Deadlines"
	SheetActions   = "Required Actions"
	SheetPenalties = "Penalties"
	SheetAmounts   = "Amounts"
	SheetAccounts  = "Accounts"
)

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// WriteCanonical writes the canonical fact set as an xlsx workbook with one sheet per fact kind.
func WriteCanonical(w io.Writer, c *domain.CanonicalDocumentData) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheets := canonicalSheets(c)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", s.name, err)
		}
		if err := writeRows(f, s); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, s sheet) error {
	rows := append([][]interface{}{s.header}, s.rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", s.name, i+1, err)
		}
	}
	return nil
}

func canonicalSheets(c *domain.CanonicalDocumentData) []sheet {
	documentID := ""
	if c.DocumentID != nil {
		documentID = c.DocumentID.String()
	}
	summary := sheet{
		name:   SheetSummary,
		header: []interface{}{"Field", "Value"},
		rows: [][]interface{}{
			{"Document ID", documentID},
			{"Schema Version", c.Version},
			{"Source", string(c.Source)},
			{"Verified", c.Verified},
			{"Created At", c.CreatedAt.Format(time.RFC3339)},
		},
	}

	deadlines := sheet{name: SheetDeadlines, header: []interface{}{"Date", "Type", "Context", "Verified", "Sources"}}
	for _, d := range c.Deadlines {
		deadlines.rows = append(deadlines.rows, []interface{}{d.Date, d.Type, d.Context, d.Verified, joinSources(d.Sources)})
	}

	actions := sheet{name: SheetActions, header: []interface{}{"Description", "Context", "Verified", "Sources"}}
	for _, a := range c.RequiredActions {
		actions.rows = append(actions.rows, []interface{}{a.Description, a.Context, a.Verified, joinSources(a.Sources)})
	}

	penalties := sheet{name: SheetPenalties, header: []interface{}{"Type", "Amount", "Context", "Verified", "Sources"}}
	for _, p := range c.Penalties {
		amount := p.Amount
		if !p.HasKnownAmount() {
			amount = "unknown"
		}
		penalties.rows = append(penalties.rows, []interface{}{p.Type, amount, p.Context, p.Verified, joinSources(p.Sources)})
	}

	amounts := sheet{name: SheetAmounts, header: []interface{}{"Value", "Currency", "Text", "Verified", "Sources"}}
	for _, a := range c.Amounts {
		amounts.rows = append(amounts.rows, []interface{}{a.Value, a.Currency, a.Text, a.Verified, joinSources(a.Sources)})
	}

	accounts := sheet{name: SheetAccounts, header: []interface{}{"Number", "Text", "Verified", "Sources"}}
	for _, a := range c.AccountNumbers {
		accounts.rows = append(accounts.rows, []interface{}{a.Number, a.Text, a.Verified, joinSources(a.Sources)})
	}

	return []sheet{summary, deadlines, actions, penalties, amounts, accounts}
}

func joinSources(s domain.Sources) string {
	parts := make([]string, len(s))
	for i, src := range s {
		parts[i] = string(src)
	}
	return strings.Join(parts, ",")
}
