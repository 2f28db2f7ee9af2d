package report

import (
	"fmt"
	"time"

	"github.com/go-analyze/charts"
)

// Chart renders the category breakdown as a pie chart.
// Returns PNG image as bytes.
func Chart(totals []CategoryTotal, title string) ([]byte, error) {
	if len(totals) == 0 {
		return nil, fmt.Errorf("no category totals to chart")
	}

	values := make([]float64, 0, len(totals))
	names := make([]string, 0, len(totals))
	for _, t := range totals {
		names = append(names, t.Name)
		values = append(values, t.Total.InexactFloat64())
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: title,
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return buf, nil
}

// ChartFilename creates a filename like "FinanceIO_Chart_2026-01-31.png".
func ChartFilename(t time.Time) string {
	return fmt.Sprintf("FinanceIO_Chart_%s.png", t.Format("2006-01-02"))
}
