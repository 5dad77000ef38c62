package model

import "testing"

// TestDepartmentCode tests postal-code to department-code derivation,
// including the overseas three-digit codes.
func TestDepartmentCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		postal string
		want   string
	}{
		{name: "paris postal code", postal: "75013", want: "75"},
		{name: "lyon postal code", postal: "69003", want: "69"},
		{name: "guadeloupe keeps three digits", postal: "97110", want: "971"},
		{name: "reunion keeps three digits", postal: "97400", want: "974"},
		{name: "new caledonia keeps three digits", postal: "98800", want: "988"},
		{name: "surrounding whitespace is trimmed", postal: " 34000 ", want: "34"},
		{name: "two characters is enough", postal: "75", want: "75"},
		{name: "single character is too short", postal: "7", want: ""},
		{name: "empty input", postal: "", want: ""},
		{name: "whitespace only", postal: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DepartmentCode(tt.postal); got != tt.want {
				t.Errorf("DepartmentCode(%q) = %q, want %q", tt.postal, got, tt.want)
			}
		})
	}
}

// TestPractitionerFullName tests display-name assembly when parts are missing.
func TestPractitionerFullName(t *testing.T) {
	t.Parallel()

	t.Run("both parts joined with a space", func(t *testing.T) {
		t.Parallel()
		p := Practitioner{LastName: "MARTIN", FirstName: "Claire"}
		if got := p.FullName(); got != "MARTIN Claire" {
			t.Errorf("expected 'MARTIN Claire', got %q", got)
		}
	})

	t.Run("missing first name", func(t *testing.T) {
		t.Parallel()
		p := Practitioner{LastName: "MARTIN"}
		if got := p.FullName(); got != "MARTIN" {
			t.Errorf("expected 'MARTIN', got %q", got)
		}
	})

	t.Run("missing last name", func(t *testing.T) {
		t.Parallel()
		p := Practitioner{FirstName: "Claire"}
		if got := p.FullName(); got != "Claire" {
			t.Errorf("expected 'Claire', got %q", got)
		}
	})

	t.Run("both missing yields empty", func(t *testing.T) {
		t.Parallel()
		p := Practitioner{}
		if got := p.FullName(); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestDatasetLen tests row counting, including the nil receiver.
func TestDatasetLen(t *testing.T) {
	t.Parallel()

	t.Run("nil dataset has zero rows", func(t *testing.T) {
		t.Parallel()
		var d *Dataset
		if got := d.Len(); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("empty dataset has zero rows", func(t *testing.T) {
		t.Parallel()
		d := &Dataset{}
		if got := d.Len(); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("counts records", func(t *testing.T) {
		t.Parallel()
		d := &Dataset{Records: []Practitioner{{ID: 1}, {ID: 2}, {ID: 3}}}
		if got := d.Len(); got != 3 {
			t.Errorf("expected 3, got %d", got)
		}
	})
}

// TestDatasetWithRecords verifies that derived snapshots share provenance
// but not row storage with the original.
func TestDatasetWithRecords(t *testing.T) {
	t.Parallel()

	original := &Dataset{
		Category:    "medecin",
		Source:      "https://example.org/medecins.csv",
		Columns:     []string{"nom", "prenom"},
		SkippedRows: 2,
		Records: []Practitioner{
			{ID: 1, LastName: "MARTIN"},
			{ID: 2, LastName: "DURAND"},
		},
	}

	subset := original.WithRecords([]Practitioner{{ID: 2, LastName: "DURAND"}})

	t.Run("provenance is preserved", func(t *testing.T) {
		t.Parallel()
		if subset.Category != "medecin" {
			t.Errorf("expected category 'medecin', got %q", subset.Category)
		}
		if subset.Source != original.Source {
			t.Errorf("expected source %q, got %q", original.Source, subset.Source)
		}
		if subset.SkippedRows != 2 {
			t.Errorf("expected 2 skipped rows, got %d", subset.SkippedRows)
		}
	})

	t.Run("new records replace the old ones", func(t *testing.T) {
		t.Parallel()
		if subset.Len() != 1 {
			t.Fatalf("expected 1 record, got %d", subset.Len())
		}
		if subset.Records[0].ID != 2 {
			t.Errorf("expected record ID 2, got %d", subset.Records[0].ID)
		}
	})

	t.Run("original is untouched", func(t *testing.T) {
		t.Parallel()
		if original.Len() != 2 {
			t.Errorf("expected original to keep 2 records, got %d", original.Len())
		}
	})
}
