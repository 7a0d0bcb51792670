package render

import "drawdown-console/internal/models"

// HeatCellView is a rendered heatmap cell.
type HeatCellView struct {
	Text    string
	VolText string
	Class   Class
}

// HeatmapGrid is the rendered risk matrix. Rows are in display order:
// the engine's last row (highest volatility) comes first.
type HeatmapGrid struct {
	Headers []string
	Rows    [][]HeatCellView
}

// HeatCell renders one cell.
func HeatCell(c models.HeatCell) HeatCellView {
	return HeatCellView{
		Text:    Signed(c.PL),
		VolText: "Vol: " + Percent(c.Vol),
		Class:   HeatClass(c.PL),
	}
}

// Heatmap renders a risk heatmap. A nil or empty matrix yields no rows.
func Heatmap(h *models.RiskHeatmap) HeatmapGrid {
	grid := HeatmapGrid{Headers: models.HeatmapColumns}
	if h == nil {
		return grid
	}
	for i := len(h.Matrix) - 1; i >= 0; i-- {
		row := make([]HeatCellView, 0, len(h.Matrix[i]))
		for _, c := range h.Matrix[i] {
			row = append(row, HeatCell(c))
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}
