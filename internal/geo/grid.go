package geo

// Grid lays fixed-size square cells, in degrees, over a bounding box.
// Cells are addressed by (col, row) with the origin at the southwest
// corner.
type Grid struct {
	bounds  Bounds
	cellDeg float64
	cols    int
	rows    int
}

// NewGrid builds a grid covering b with cells of cellDeg degrees per
// side. cellDeg must be positive.
func NewGrid(b Bounds, cellDeg float64) Grid {
	cols := int((b.MaxLon-b.MinLon)/cellDeg) + 1
	rows := int((b.MaxLat-b.MinLat)/cellDeg) + 1
	return Grid{bounds: b, cellDeg: cellDeg, cols: cols, rows: rows}
}

// Cols returns the number of columns.
func (g Grid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g Grid) Rows() int { return g.rows }

// Cell returns the cell containing p. ok is false when p lies outside
// the grid's bounds. Points on the northeast edges land in the last
// cell of their axis.
func (g Grid) Cell(p Point) (col, row int, ok bool) {
	if !g.bounds.Contains(p) {
		return 0, 0, false
	}
	col = int((p.Lon - g.bounds.MinLon) / g.cellDeg)
	row = int((p.Lat - g.bounds.MinLat) / g.cellDeg)
	if col >= g.cols {
		col = g.cols - 1
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return col, row, true
}

// CellCenter returns the midpoint of cell (col, row).
func (g Grid) CellCenter(col, row int) Point {
	return Point{
		Lat: g.bounds.MinLat + (float64(row)+0.5)*g.cellDeg,
		Lon: g.bounds.MinLon + (float64(col)+0.5)*g.cellDeg,
	}
}
