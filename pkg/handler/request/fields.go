package request

import "github.com/yumyai/ggsynteny/pkg/table"

// NewPositionField maps the query value onto a table.Position. Unknown or
// empty values fall back to the configured default.
func NewPositionField(field string, fallback table.Position) table.Position {
	switch field {
	case "order", "order_index", "rank":
		return table.PositionOrder
	case "end", "bp", "end_coordinate":
		return table.PositionEnd
	default:
		return fallback
	}
}
