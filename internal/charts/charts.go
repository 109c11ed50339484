package charts

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/ivanoskov/payments_bot/internal/model"
)

// ChartGenerator строит графики по платежам пользователя
type ChartGenerator struct{}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// GenerateDueChart строит столбчатую диаграмму сумм платежей по дням месяца.
// Возвращает nil, если платежей нет и рисовать нечего.
func (g *ChartGenerator) GenerateDueChart(payments []model.Payment) ([]byte, error) {
	if len(payments) == 0 {
		return nil, nil
	}

	// Суммируем платежи, приходящиеся на один и тот же день
	byDay := make(map[int]float64)
	for _, p := range payments {
		byDay[p.DayOfMonth] += p.Amount
	}

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)

	bars := make([]chart.Value, 0, len(days))
	for _, day := range days {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%d", day),
			Value: byDay[day],
		})
	}

	graph := chart.BarChart{
		Title:    "Платежи по дням месяца",
		Width:    800,
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if value, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f ₽", value)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
