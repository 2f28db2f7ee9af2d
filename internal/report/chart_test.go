package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestChart(t *testing.T) {
	t.Parallel()

	t.Run("renders a PNG for category totals", func(t *testing.T) {
		t.Parallel()
		totals := []CategoryTotal{
			{Name: "Food", Total: decimal.NewFromInt(100)},
			{Name: "Transport", Total: decimal.NewFromInt(40)},
		}

		buf, err := Chart(totals, "January breakdown")
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(buf, []byte("\x89PNG")))
	})

	t.Run("fails on empty totals", func(t *testing.T) {
		t.Parallel()
		_, err := Chart(nil, "empty")
		require.Error(t, err)
	})
}

func TestChartFilename(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"FinanceIO_Chart_2026-01-31.png",
		ChartFilename(time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)),
	)
}
