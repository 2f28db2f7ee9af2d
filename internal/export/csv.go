// Package export builds the CSV artifact that merges expenses and lending
// records into a single table.
//
// The encoding is fixed by the export format, not by general CSV rules:
// every textual field (Description, Note, Method) is double-quoted, with
// internal quotes doubled, even when empty; Date and Amount are emitted
// unquoted. encoding/csv quotes by content and cannot produce this shape,
// so rows are assembled directly.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gitlab.com/financeio/financeio/internal/models"
)

// Header is the fixed first line of every export.
const Header = "Date,Type,Description,Amount,Note,Method"

const dateLayout = "2006-01-02"

// Build renders the export document: the header, one row per expense in
// input order, then one row per lending record grouped by person in input
// order. It returns the complete document or an error; no partial output is
// ever produced.
//
// Expense rows carry the literal type "Expense", the category name as
// description and the payment method. Lending rows carry "Lent" or
// "Received" depending on the amount's sign, the owning person's name as
// description, the signed amount, and an empty method column (methods only
// apply to expenses).
func Build(expenses []models.Expense, people []models.Person) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteByte('\n')

	for i := range expenses {
		e := &expenses[i]
		if e.Date.IsZero() {
			return nil, fmt.Errorf("expense %d has no date: %w", e.ID, models.ErrFormat)
		}
		fmt.Fprintf(&buf, "%s,Expense,%s,%s,%s,%s\n",
			e.Date.Format(dateLayout),
			quote(e.Category),
			e.Amount.String(),
			quote(e.Note),
			quote(e.Method),
		)
	}

	for i := range people {
		p := &people[i]
		for j := range p.Records {
			rec := &p.Records[j]
			if rec.Date.IsZero() {
				return nil, fmt.Errorf("lending record %d has no date: %w", rec.ID, models.ErrFormat)
			}
			kind := "Lent"
			if rec.Amount.Sign() < 0 {
				kind = "Received"
			}
			fmt.Fprintf(&buf, "%s,%s,%s,%s,%s,\n",
				rec.Date.Format(dateLayout),
				kind,
				quote(p.Name),
				rec.Amount.String(),
				quote(rec.Note),
			)
		}
	}

	return buf.Bytes(), nil
}

// Filename returns the export filename for the given export time, e.g.
// "FinanceIO_Export_2026-01-05.csv".
func Filename(t time.Time) string {
	return fmt.Sprintf("FinanceIO_Export_%s.csv", t.Format(dateLayout))
}

// quote wraps a textual field in double quotes, doubling internal quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
