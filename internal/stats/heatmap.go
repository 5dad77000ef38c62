package stats

import (
	"sort"

	"github.com/opensante/psmap/internal/geo"
	"github.com/opensante/psmap/internal/model"
)

// DefaultCellSizeDeg is the heatmap cell size used when none is
// configured: roughly 20 km at French latitudes.
const DefaultCellSizeDeg = 0.2

// Cell is one occupied heatmap cell. Lat and Lon are the cell center.
type Cell struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Count     int     `json:"count"`
	Intensity float64 `json:"intensity"`
}

// Heatmap aggregates the located rows of a snapshot into fixed-size
// grid cells. Intensity is each cell's count normalized by the busiest
// cell, so renderers can map it straight to a color scale.
type Heatmap struct {
	CellSizeDeg float64    `json:"cell_size_deg"`
	Bounds      geo.Bounds `json:"bounds"`
	MaxCount    int        `json:"max_count"`
	Cells       []Cell     `json:"cells"`
}

// BuildHeatmap bins every located row of ds into cells of cellSizeDeg
// degrees per side. Unlocated rows are ignored. A snapshot with no
// located rows yields a Heatmap with no cells. Cells come out in grid
// order (south to north, west to east), only occupied ones included.
func BuildHeatmap(ds *model.Dataset, cellSizeDeg float64) Heatmap {
	if cellSizeDeg <= 0 {
		cellSizeDeg = DefaultCellSizeDeg
	}
	hm := Heatmap{CellSizeDeg: cellSizeDeg, Cells: []Cell{}}

	points := make([]geo.Point, 0, ds.Len())
	for i := range ds.Records {
		p := &ds.Records[i]
		if !p.Located {
			continue
		}
		points = append(points, geo.Point{Lat: p.Latitude, Lon: p.Longitude})
	}

	bounds, ok := geo.BoundsOf(points)
	if !ok {
		return hm
	}
	hm.Bounds = bounds

	grid := geo.NewGrid(bounds, cellSizeDeg)
	type cellKey struct{ col, row int }
	counts := make(map[cellKey]int)
	for _, p := range points {
		col, row, ok := grid.Cell(p)
		if !ok {
			continue
		}
		counts[cellKey{col, row}]++
	}

	keys := make([]cellKey, 0, len(counts))
	for k, c := range counts {
		keys = append(keys, k)
		if c > hm.MaxCount {
			hm.MaxCount = c
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].row != keys[j].row {
			return keys[i].row < keys[j].row
		}
		return keys[i].col < keys[j].col
	})

	for _, k := range keys {
		center := grid.CellCenter(k.col, k.row)
		count := counts[k]
		hm.Cells = append(hm.Cells, Cell{
			Lat:       center.Lat,
			Lon:       center.Lon,
			Count:     count,
			Intensity: float64(count) / float64(hm.MaxCount),
		})
	}
	return hm
}
