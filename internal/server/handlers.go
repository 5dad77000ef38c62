package server

import (
	"errors"
	"net/http"

	"github.com/opensante/psmap/internal/dataset"
	"github.com/opensante/psmap/internal/export"
	"github.com/opensante/psmap/internal/filter"
	"github.com/opensante/psmap/internal/model"
	"github.com/opensante/psmap/internal/registry"
	"github.com/opensante/psmap/internal/stats"
)

// How many ranked values the stats endpoint returns, matching the
// dashboard's charts.
const (
	topSpecialties = 15
	topCities      = 20
)

// handleCategories lists the registered categories.
func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	cats := s.loader.Registry().Categories()
	out := make([]CategoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryDTO{Key: c.Key, Label: c.Label})
	}
	writeSuccess(w, http.StatusOK, "Categories retrieved", out)
}

// handlePractitioners returns the filtered rows with pagination.
func (s *Server) handlePractitioners(w http.ResponseWriter, r *http.Request) {
	req, ds, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	total := ds.Len()
	page := paginate(ds.Records, req.Offset, req.Limit)
	writeSuccessWithMeta(w, http.StatusOK, "Practitioners retrieved", page, &Meta{
		Limit:  req.Limit,
		Offset: req.Offset,
		Total:  total,
	})
}

// handlePoints returns the located rows as map scatter points, sampled
// to the configured cap.
func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	_, ds, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	located := filter.Apply(ds, filter.Criteria{WithCoordinates: true})
	sampled := stats.Sample(located, s.sampleSize, sampleSeed)

	points := make([]PointDTO, 0, sampled.Len())
	for i := range sampled.Records {
		p := &sampled.Records[i]
		points = append(points, PointDTO{
			ID:        p.ID,
			Name:      p.FullName(),
			Specialty: p.Specialty,
			City:      p.City,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
		})
	}
	writeSuccessWithMeta(w, http.StatusOK, "Points retrieved", points, &Meta{
		Limit:  s.sampleSize,
		Offset: 0,
		Total:  located.Len(),
	})
}

// handleStats returns the aggregate view of the filtered snapshot.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	_, ds, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	writeSuccess(w, http.StatusOK, "Stats computed", StatsDTO{
		Summary:        stats.Summarize(ds),
		TopSpecialties: stats.TopValues(ds, stats.FieldSpecialty, topSpecialties),
		TopCities:      stats.TopValues(ds, stats.FieldCity, topCities),
		Departments:    stats.CountByDepartment(ds),
	})
}

// handleHeatmap returns the grid-cell aggregation of the filtered
// snapshot.
func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	req, ds, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	cellSize := req.CellSize
	if cellSize == 0 {
		cellSize = s.cellSize
	}
	writeSuccess(w, http.StatusOK, "Heatmap computed", stats.BuildHeatmap(ds, cellSize))
}

// handleExport streams the filtered table as a file attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, ds, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}

	format := req.Format
	if format == "" {
		format = "csv"
	}

	var (
		writer      export.Writer
		contentType string
	)
	switch format {
	case "json":
		writer = export.NewJSONWriter(w, export.WithPrettyPrint())
		contentType = "application/json"
	default:
		writer = export.NewCSVWriter(w)
		contentType = "text/csv; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename(req.Category, format)+`"`)
	if _, err := writer.Write(ds); err != nil {
		// Headers are gone; all that is left is logging.
		s.logger.Warn("export write failed", "category", req.Category, "error", err)
	}
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "ok", nil)
}

// loadFiltered parses and validates the query, loads the category and
// applies the filter criteria. On failure it has already written the
// error response and returns ok false.
func (s *Server) loadFiltered(w http.ResponseWriter, r *http.Request) (*QueryRequest, *model.Dataset, bool) {
	req, fieldErrs := parseQuery(r.URL.Query())
	if fieldErrs != nil {
		writeValidationError(w, fieldErrs)
		return nil, nil, false
	}
	if errs := s.validator.Validate(req); errs != nil {
		writeValidationError(w, errs)
		return nil, nil, false
	}

	ds, err := s.loader.Load(r.Context(), req.Category)
	if err != nil {
		s.writeLoadError(w, err)
		return nil, nil, false
	}

	return req, filter.Apply(ds, req.Criteria()), true
}

// writeLoadError maps loader failures onto status codes: a bad
// category is the caller's fault, an unreachable origin is upstream's,
// an unparsable payload is a bad gateway.
func (s *Server) writeLoadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "Unknown category", err.Error())
	case errors.Is(err, dataset.ErrSourceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Dataset source unavailable", err.Error())
	case errors.Is(err, dataset.ErrParse):
		writeError(w, http.StatusBadGateway, "Dataset source returned unparsable content", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

// paginate slices records by offset and limit without copying rows.
func paginate(records []model.Practitioner, offset, limit int) []model.Practitioner {
	if offset >= len(records) {
		return []model.Practitioner{}
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}
