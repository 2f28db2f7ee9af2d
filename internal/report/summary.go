// Package report provides the read-only views over the ledger: monthly and
// per-category expense totals, the net lending position, the recent
// activity feed, and the category breakdown chart.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/models"
	"gitlab.com/financeio/financeio/internal/repository"
)

// recentActivityLimit is the size of the recent activity feed.
const recentActivityLimit = 5

// ActivityKind tags an activity feed item with its source entity type.
type ActivityKind string

const (
	KindExpense ActivityKind = "expense"
	KindLending ActivityKind = "lending"
)

// ActivityItem is one entry of the unified recent activity feed.
type ActivityItem struct {
	Title    string
	Subtitle string
	Amount   decimal.Decimal // signed; expense amounts are negated (outflows)
	Date     time.Time
	Kind     ActivityKind
}

// CategoryTotal is a per-category spending sum with display styling.
type CategoryTotal struct {
	Name  string
	Icon  string
	Color string
	Total decimal.Decimal
}

// Summary answers the aggregation queries. All methods are read-only.
type Summary struct {
	expenses *repository.ExpenseRepository
	people   *repository.PersonRepository
	lending  *repository.LendingRepository
}

// NewSummary creates a Summary over a pool or transaction.
func NewSummary(db database.PGXDB) *Summary {
	return &Summary{
		expenses: repository.NewExpenseRepository(db),
		people:   repository.NewPersonRepository(db),
		lending:  repository.NewLendingRepository(db),
	}
}

// MonthlyTotal sums expense amounts dated within now's calendar month,
// using now's location.
func (s *Summary) MonthlyTotal(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)
	return s.expenses.TotalByDateRange(ctx, start, end)
}

// CategoryTotals groups expenses by category name and sums amounts per
// group, largest total first. Names that no longer resolve to a category
// keep their group and get the fallback icon and color: the dangling
// reference is part of the data model, not an error.
func (s *Summary) CategoryTotals(ctx context.Context) ([]CategoryTotal, error) {
	rows, err := s.expenses.TotalsByCategory(ctx)
	if err != nil {
		return nil, err
	}

	totals := make([]CategoryTotal, 0, len(rows))
	for _, row := range rows {
		total := CategoryTotal{Name: row.Name, Icon: row.Icon, Color: row.Color, Total: row.Total}
		if !row.Known || total.Icon == "" {
			total.Icon = models.FallbackIcon
		}
		if !row.Known || total.Color == "" {
			total.Color = models.FallbackColor
		}
		totals = append(totals, total)
	}
	return totals, nil
}

// NetLendingTotal sums the cached net balance across all people.
func (s *Summary) NetLendingTotal(ctx context.Context) (decimal.Decimal, error) {
	return s.people.NetTotal(ctx)
}

// RecentActivity merges the most recently dated expenses and lending
// records into one feed, newest first, truncated to five entries. Expense
// amounts are negated since they are outflows. The sort is stable with
// expenses listed ahead of lending records on equal dates.
func (s *Summary) RecentActivity(ctx context.Context) ([]ActivityItem, error) {
	expenses, err := s.expenses.GetRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	records, err := s.lending.GetRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	items := make([]ActivityItem, 0, len(expenses)+len(records))
	for _, e := range expenses {
		items = append(items, ActivityItem{
			Title:    e.Category,
			Subtitle: e.Note,
			Amount:   e.Amount.Neg(),
			Date:     e.Date,
			Kind:     KindExpense,
		})
	}
	for _, rec := range records {
		items = append(items, ActivityItem{
			Title:    rec.PersonName,
			Subtitle: rec.Note,
			Amount:   rec.Amount,
			Date:     rec.Date,
			Kind:     KindLending,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})

	if len(items) > recentActivityLimit {
		items = items[:recentActivityLimit]
	}
	return items, nil
}
