package geo

import "testing"

// TestGridCell tests point-to-cell assignment, including the edge rule.
func TestGridCell(t *testing.T) {
	t.Parallel()

	b := Bounds{MinLat: 40, MinLon: 0, MaxLat: 42, MaxLon: 4}
	g := NewGrid(b, 1.0)

	t.Run("dimensions cover the box", func(t *testing.T) {
		t.Parallel()
		if g.Cols() != 5 || g.Rows() != 3 {
			t.Errorf("expected 5x3, got %dx%d", g.Cols(), g.Rows())
		}
	})

	t.Run("southwest corner is cell (0, 0)", func(t *testing.T) {
		t.Parallel()
		col, row, ok := g.Cell(Point{Lat: 40, Lon: 0})
		if !ok || col != 0 || row != 0 {
			t.Errorf("expected (0, 0, true), got (%d, %d, %v)", col, row, ok)
		}
	})

	t.Run("interior point lands in its cell", func(t *testing.T) {
		t.Parallel()
		col, row, ok := g.Cell(Point{Lat: 41.5, Lon: 2.5})
		if !ok || col != 2 || row != 1 {
			t.Errorf("expected (2, 1, true), got (%d, %d, %v)", col, row, ok)
		}
	})

	t.Run("northeast corner clamps to the last cell", func(t *testing.T) {
		t.Parallel()
		col, row, ok := g.Cell(Point{Lat: 42, Lon: 4})
		if !ok || col != g.Cols()-1 || row != g.Rows()-1 {
			t.Errorf("expected last cell, got (%d, %d, %v)", col, row, ok)
		}
	})

	t.Run("point outside the bounds is rejected", func(t *testing.T) {
		t.Parallel()
		if _, _, ok := g.Cell(Point{Lat: 43, Lon: 2}); ok {
			t.Error("expected ok=false for a point north of the box")
		}
	})
}

// TestGridCellCenter tests midpoint computation for cells.
func TestGridCellCenter(t *testing.T) {
	t.Parallel()

	g := NewGrid(Bounds{MinLat: 40, MinLon: 0, MaxLat: 42, MaxLon: 4}, 1.0)

	c := g.CellCenter(0, 0)
	if c.Lat != 40.5 || c.Lon != 0.5 {
		t.Errorf("expected (40.5, 0.5), got (%v, %v)", c.Lat, c.Lon)
	}

	c = g.CellCenter(2, 1)
	if c.Lat != 41.5 || c.Lon != 2.5 {
		t.Errorf("expected (41.5, 2.5), got (%v, %v)", c.Lat, c.Lon)
	}
}
