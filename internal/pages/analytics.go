package pages

import "fmt"

var (
	locMetricsRow = css(".metrics-row", "metrics row")
	locChartArea  = css(".charts-area", "charts area")
)

func metricCard(name string) Locator {
	return css(fmt.Sprintf(`.metric-card[data-metric="%s"] .metric-value`, name), "metric "+name)
}

func rangeButton(rangeName string) Locator {
	return css(fmt.Sprintf(`button.range-selector[data-range="%s"]`, rangeName), "range "+rangeName)
}

func chart(id string) Locator {
	return css(fmt.Sprintf(`.chart-container[data-chart="%s"] canvas`, id), "chart "+id)
}

// AnalyticsPage is the dashboards screen.
type AnalyticsPage struct {
	Base
}

func NewAnalyticsPage(env Env) *AnalyticsPage {
	return &AnalyticsPage{Base: newBase(env, "analytics", "/analytics",
		[]Locator{locMetricsRow, locChartArea})}
}

// MetricValue reads the displayed value of a named metric card.
func (p *AnalyticsPage) MetricValue(name string) (string, error) {
	return p.TextOf(metricCard(name))
}

// SwitchRange changes the reporting window and waits for the refresh
// overlay to clear.
func (p *AnalyticsPage) SwitchRange(rangeName string) error {
	if err := p.Click(rangeButton(rangeName)); err != nil {
		return err
	}
	return p.WaitOverlayGone()
}

// IsChartVisible reports whether a chart canvas has rendered.
func (p *AnalyticsPage) IsChartVisible(id string) bool {
	return p.IsPresent(chart(id))
}
