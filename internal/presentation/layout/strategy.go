package layout

import (
	"github.com/penwyp/go-hackathon-board/internal/core/model"
)

// LayoutStrategy renders a Frame into screen lines.
type LayoutStrategy interface {
	Render(frame Frame) []string
	GetName() string
}

var strategies = map[model.ViewMode]LayoutStrategy{
	model.ViewTitle:     &TitleLayoutStrategy{},
	model.ViewClock:     &ClockLayoutStrategy{},
	model.ViewDashboard: &DashboardLayoutStrategy{},
}

// GetLayoutStrategy returns the strategy for view, defaulting to the dashboard.
func GetLayoutStrategy(view model.ViewMode) LayoutStrategy {
	if strategy, exists := strategies[view]; exists {
		return strategy
	}
	return strategies[model.ViewDashboard]
}
