package geo

import (
	"strings"
	"testing"

	"github.com/opensante/psmap/internal/model"
)

// TestNewTable verifies that the embedded reference data loads and
// covers every metropolitan and overseas department.
func TestNewTable(t *testing.T) {
	t.Parallel()

	tbl, err := NewTable()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("embedded commune entries are present", func(t *testing.T) {
		t.Parallel()
		if tbl.Communes() == 0 {
			t.Fatal("expected embedded commune entries")
		}
	})

	t.Run("metropolitan departments resolve", func(t *testing.T) {
		t.Parallel()
		for _, postal := range []string{"01000", "20000", "75001", "95880"} {
			if _, _, ok := tbl.Lookup(postal); !ok {
				t.Errorf("expected %q to resolve", postal)
			}
		}
	})

	t.Run("overseas departments resolve", func(t *testing.T) {
		t.Parallel()
		for _, postal := range []string{"97110", "97213", "97300", "97430", "97615"} {
			if _, _, ok := tbl.Lookup(postal); !ok {
				t.Errorf("expected %q to resolve", postal)
			}
		}
	})

	t.Run("department names are loaded", func(t *testing.T) {
		t.Parallel()
		if got := tbl.DepartmentName("75"); got != "Paris" {
			t.Errorf("expected 'Paris', got %q", got)
		}
		if got := tbl.DepartmentName("974"); got != "La Réunion" {
			t.Errorf("expected 'La Réunion', got %q", got)
		}
		if got := tbl.DepartmentName("00"); got != "" {
			t.Errorf("expected empty name for unknown code, got %q", got)
		}
	})
}

// TestTableLookup tests the two-tier resolution order.
func TestTableLookup(t *testing.T) {
	t.Parallel()

	tbl, err := NewTable()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("exact commune entry wins", func(t *testing.T) {
		t.Parallel()
		p, prec, ok := tbl.Lookup("75013")
		if !ok {
			t.Fatal("expected 75013 to resolve")
		}
		if prec != PrecisionPostal {
			t.Errorf("expected postal precision, got %q", prec)
		}
		if p.Lat < 48.8 || p.Lat > 48.9 {
			t.Errorf("unexpected latitude %v", p.Lat)
		}
	})

	t.Run("unknown postal code falls back to department centroid", func(t *testing.T) {
		t.Parallel()
		p, prec, ok := tbl.Lookup("69410")
		if !ok {
			t.Fatal("expected 69410 to resolve via department 69")
		}
		if prec != PrecisionDepartment {
			t.Errorf("expected department precision, got %q", prec)
		}
		if p.Lat < 45.0 || p.Lat > 46.5 {
			t.Errorf("unexpected latitude %v", p.Lat)
		}
	})

	t.Run("surrounding whitespace is tolerated", func(t *testing.T) {
		t.Parallel()
		if _, _, ok := tbl.Lookup(" 75013 "); !ok {
			t.Error("expected padded postal code to resolve")
		}
	})

	t.Run("garbage does not resolve", func(t *testing.T) {
		t.Parallel()
		for _, postal := range []string{"", "x", "ABCDE", "00xyz"} {
			if _, _, ok := tbl.Lookup(postal); ok {
				t.Errorf("expected %q not to resolve", postal)
			}
		}
	})
}

// TestLoadCommunes tests merging an external commune file over the
// embedded data.
func TestLoadCommunes(t *testing.T) {
	t.Parallel()

	t.Run("later entries override embedded ones", func(t *testing.T) {
		t.Parallel()
		tbl, err := NewTable()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		extra := "postal_code;name;latitude;longitude\n75013;Paris 13e;1.0000;2.0000\n12345;Somewhere;43.0000;5.0000\n"
		if err := tbl.LoadCommunes(strings.NewReader(extra)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		p, prec, ok := tbl.Lookup("75013")
		if !ok || prec != PrecisionPostal {
			t.Fatalf("expected postal resolution, got ok=%v prec=%q", ok, prec)
		}
		if p.Lat != 1.0 || p.Lon != 2.0 {
			t.Errorf("expected override (1, 2), got (%v, %v)", p.Lat, p.Lon)
		}

		if _, _, ok := tbl.Lookup("12345"); !ok {
			t.Error("expected new entry 12345 to resolve")
		}
	})

	t.Run("rows with unparseable coordinates are skipped", func(t *testing.T) {
		t.Parallel()
		tbl, err := NewTable()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		before := tbl.Communes()

		extra := "99999;Nulle Part;not-a-number;2.0\n88888;Ailleurs;48.0;also-bad\n"
		if err := tbl.LoadCommunes(strings.NewReader(extra)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tbl.Communes() != before {
			t.Errorf("expected no new entries, got %d -> %d", before, tbl.Communes())
		}
	})

	t.Run("malformed csv returns an error", func(t *testing.T) {
		t.Parallel()
		tbl, err := NewTable()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		bad := "75001;\"unterminated;48.0;2.0\n"
		if err := tbl.LoadCommunes(strings.NewReader(bad)); err == nil {
			t.Error("expected error for malformed csv")
		}
	})
}

// TestTableAnnotate tests coordinate enrichment over a record slice.
func TestTableAnnotate(t *testing.T) {
	t.Parallel()

	tbl, err := NewTable()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := []model.Practitioner{
		{ID: 1, PostalCode: "75013"},
		{ID: 2, PostalCode: "69410"},
		{ID: 3, PostalCode: ""},
		{ID: 4, PostalCode: "invalid"},
	}

	located := tbl.Annotate(records)
	if located != 2 {
		t.Fatalf("expected 2 located records, got %d", located)
	}

	t.Run("located records carry coordinates", func(t *testing.T) {
		t.Parallel()
		if !records[0].Located || records[0].Latitude == 0 {
			t.Errorf("expected record 1 to be located, got %+v", records[0])
		}
		if !records[1].Located {
			t.Errorf("expected record 2 to be located via department fallback")
		}
	})

	t.Run("department is stamped from the postal code", func(t *testing.T) {
		t.Parallel()
		if records[0].Department != "75" {
			t.Errorf("expected department 75, got %q", records[0].Department)
		}
		if records[1].Department != "69" {
			t.Errorf("expected department 69, got %q", records[1].Department)
		}
	})

	t.Run("unresolvable records stay unlocated", func(t *testing.T) {
		t.Parallel()
		if records[2].Located || records[3].Located {
			t.Error("expected records 3 and 4 to stay unlocated")
		}
		if records[2].Department != "" {
			t.Errorf("expected empty department, got %q", records[2].Department)
		}
	})
}
