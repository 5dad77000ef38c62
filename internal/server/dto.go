package server

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/opensante/psmap/internal/filter"
	"github.com/opensante/psmap/internal/geo"
	"github.com/opensante/psmap/internal/stats"
)

// Pagination bounds for list endpoints.
const (
	DefaultLimit = 100
	MaxLimit     = 5000
)

// QueryRequest is the query-string surface shared by every dataset
// endpoint: the category to load, the filter criteria and, where it
// applies, pagination. Field tags double as the query parameter names.
type QueryRequest struct {
	Category   string `validate:"required"`
	Specialty  string
	Civility   string
	City       string
	PostalCode string
	Department string
	LastName   string
	FirstName  string
	Query      string

	MinLat *float64 `validate:"omitempty,gte=-90,lte=90"`
	MaxLat *float64 `validate:"omitempty,gte=-90,lte=90"`
	MinLon *float64 `validate:"omitempty,gte=-180,lte=180"`
	MaxLon *float64 `validate:"omitempty,gte=-180,lte=180"`

	Located bool

	Limit  int `validate:"gte=1,lte=5000"`
	Offset int `validate:"gte=0"`

	// CellSize is the heatmap cell size in degrees. Zero means the
	// default.
	CellSize float64 `validate:"gte=0,lte=10"`

	// Format selects the export representation.
	Format string `validate:"omitempty,oneof=csv json"`
}

// parseQuery reads a QueryRequest from URL query parameters. Numeric
// parameters that fail to parse are reported as field errors the same
// way validation failures are.
func parseQuery(values url.Values) (*QueryRequest, map[string]string) {
	req := &QueryRequest{
		Category:   values.Get("category"),
		Specialty:  values.Get("specialty"),
		Civility:   values.Get("civility"),
		City:       values.Get("city"),
		PostalCode: values.Get("postal_code"),
		Department: values.Get("department"),
		LastName:   values.Get("last_name"),
		FirstName:  values.Get("first_name"),
		Query:      values.Get("q"),
		Format:     values.Get("format"),
		Limit:      DefaultLimit,
	}

	fieldErrs := make(map[string]string)

	for name, dst := range map[string]**float64{
		"min_lat": &req.MinLat,
		"max_lat": &req.MaxLat,
		"min_lon": &req.MinLon,
		"max_lon": &req.MaxLon,
	} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fieldErrs[name] = name + " must be a number"
			continue
		}
		*dst = &v
	}

	if raw := values.Get("located"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fieldErrs["located"] = "located must be a boolean"
		} else {
			req.Located = v
		}
	}
	if raw := values.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			fieldErrs["limit"] = "limit must be an integer"
		} else {
			req.Limit = v
		}
	}
	if raw := values.Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			fieldErrs["offset"] = "offset must be an integer"
		} else {
			req.Offset = v
		}
	}
	if raw := values.Get("cell_size"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fieldErrs["cell_size"] = "cell_size must be a number"
		} else {
			req.CellSize = v
		}
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}
	return req, nil
}

// Criteria converts the request into filter criteria. The category is
// not part of the criteria: it selects the snapshot to load.
func (r *QueryRequest) Criteria() filter.Criteria {
	c := filter.Criteria{
		Specialty:       r.Specialty,
		Civility:        r.Civility,
		City:            r.City,
		PostalCode:      r.PostalCode,
		Department:      r.Department,
		LastName:        r.LastName,
		FirstName:       r.FirstName,
		Query:           r.Query,
		WithCoordinates: r.Located,
	}

	if r.MinLat != nil && r.MaxLat != nil && r.MinLon != nil && r.MaxLon != nil {
		c.Bounds = &geo.Bounds{
			MinLat: *r.MinLat,
			MaxLat: *r.MaxLat,
			MinLon: *r.MinLon,
			MaxLon: *r.MaxLon,
		}
	} else {
		if r.MinLat != nil || r.MaxLat != nil {
			lat := &filter.FloatRange{Min: -90, Max: 90}
			if r.MinLat != nil {
				lat.Min = *r.MinLat
			}
			if r.MaxLat != nil {
				lat.Max = *r.MaxLat
			}
			c.LatRange = lat
		}
		if r.MinLon != nil || r.MaxLon != nil {
			lon := &filter.FloatRange{Min: -180, Max: 180}
			if r.MinLon != nil {
				lon.Min = *r.MinLon
			}
			if r.MaxLon != nil {
				lon.Max = *r.MaxLon
			}
			c.LonRange = lon
		}
	}
	return c
}

// Validator wraps the struct validator with error formatting suited
// to the envelope.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a ready Validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks a DTO. The returned map is nil when the value is
// valid.
func (v *Validator) Validate(i any) map[string]string {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !asValidationErrors(err, &validationErrors) {
		fieldErrs["request"] = err.Error()
		return fieldErrs
	}
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			fieldErrs[field] = field + " is required"
		case "gte":
			fieldErrs[field] = field + " must be at least " + e.Param()
		case "lte":
			fieldErrs[field] = field + " must be at most " + e.Param()
		case "oneof":
			fieldErrs[field] = field + " must be one of: " + e.Param()
		default:
			fieldErrs[field] = field + " is invalid"
		}
	}
	return fieldErrs
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns the slice directly
	if ok {
		*target = ve
	}
	return ok
}

// PointDTO is one map scatter point.
type PointDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Specialty string  `json:"specialty,omitempty"`
	City      string  `json:"city,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// StatsDTO is the aggregate view of one filtered snapshot.
type StatsDTO struct {
	Summary        stats.Summary      `json:"summary"`
	TopSpecialties []stats.ValueCount `json:"top_specialties"`
	TopCities      []stats.ValueCount `json:"top_cities"`
	Departments    []stats.ValueCount `json:"departments"`
}

// CategoryDTO is one registry entry as listed by the API.
type CategoryDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// exportFilename builds the attachment name for an export download.
func exportFilename(category, format string) string {
	return fmt.Sprintf("psmap-%s.%s", category, format)
}
