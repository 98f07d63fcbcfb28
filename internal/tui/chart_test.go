package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightsearch/internal/models"
)

func point(day int, price float64, group string) models.PricePoint {
	return models.PricePoint{
		Day:   time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		Price: price,
		Group: group,
	}
}

func TestRenderPriceChart_Empty(t *testing.T) {
	assert.Empty(t, RenderPriceChart(nil, 80))
}

func TestRenderPriceChart_SortsByDay(t *testing.T) {
	out := RenderPriceChart([]models.PricePoint{
		point(3, 300, "high"),
		point(1, 100, "low"),
		point(2, 200, "medium"),
	}, 80)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Jun 1"))
	assert.True(t, strings.HasPrefix(lines[1], "Jun 2"))
	assert.True(t, strings.HasPrefix(lines[2], "Jun 3"))
	assert.True(t, strings.HasSuffix(lines[0], "$100"))
	assert.True(t, strings.HasSuffix(lines[2], "$300"))

	assert.Less(t, strings.Count(lines[0], "█"), strings.Count(lines[2], "█"))
}

func TestRenderPriceChart_CapsDays(t *testing.T) {
	var points []models.PricePoint
	for d := 1; d <= 30; d++ {
		points = append(points, point(d, float64(100+d), ""))
	}

	lines := strings.Split(RenderPriceChart(points, 80), "\n")
	assert.Len(t, lines, chartMaxDays)
}

func TestRenderPriceChart_FlatPrices(t *testing.T) {
	lines := strings.Split(RenderPriceChart([]models.PricePoint{
		point(1, 150, ""),
		point(2, 150, ""),
	}, 40), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, strings.Count(lines[0], "█"), strings.Count(lines[1], "█"))
}
