package dataset

import (
	"errors"
	"strings"
	"testing"
)

// extract is a small annuaire-shaped fixture: typed columns plus one
// passthrough column.
const extract = `ps_activite_civilite;ps_activite_nom;ps_activite_prenom;specialite_libelle;coordonnees_ville;coordonnees_code_postal;telephone
MME;DURAND;Marie;Médecin généraliste;PARIS;75008;0142685500
M;MARTIN;Paul;Chirurgien-dentiste;LYON;69002;
DR;BERNARD;Luc;Médecin généraliste;MARSEILLE;13001;0491000000
`

// TestParse covers header mapping, extras, IDs and skip counting.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("maps known columns to typed fields", func(t *testing.T) {
		t.Parallel()

		ds, err := Parse(extract, ';')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Len() != 3 {
			t.Fatalf("rows = %d, want 3", ds.Len())
		}

		first := ds.Records[0]
		if first.Civility != "MME" || first.LastName != "DURAND" || first.FirstName != "Marie" {
			t.Errorf("identity fields = %q %q %q", first.Civility, first.LastName, first.FirstName)
		}
		if first.Specialty != "Médecin généraliste" {
			t.Errorf("Specialty = %q", first.Specialty)
		}
		if first.City != "PARIS" || first.PostalCode != "75008" {
			t.Errorf("location fields = %q %q", first.City, first.PostalCode)
		}
	})

	t.Run("unknown columns land in Extra", func(t *testing.T) {
		t.Parallel()

		ds, err := Parse(extract, ';')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := ds.Records[0].Extra["telephone"]; got != "0142685500" {
			t.Errorf("Extra[telephone] = %q, want %q", got, "0142685500")
		}
		// Empty extras are not stored.
		if _, ok := ds.Records[1].Extra["telephone"]; ok {
			t.Error("empty extra value should not be stored")
		}
	})

	t.Run("IDs are sequential from 1", func(t *testing.T) {
		t.Parallel()

		ds, err := Parse(extract, ';')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, p := range ds.Records {
			if p.ID != int64(i)+1 {
				t.Errorf("record %d ID = %d, want %d", i, p.ID, i+1)
			}
		}
	})

	t.Run("columns keep file order", func(t *testing.T) {
		t.Parallel()

		ds, err := Parse(extract, ';')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ds.Columns) != 7 || ds.Columns[0] != "ps_activite_civilite" || ds.Columns[6] != "telephone" {
			t.Errorf("Columns = %v", ds.Columns)
		}
	})

	t.Run("short alias headers are accepted", func(t *testing.T) {
		t.Parallel()

		ds, err := Parse("nom;prenom;ville;code_postal\nDUPONT;Jean;NANTES;44000\n", ';')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p := ds.Records[0]
		if p.LastName != "DUPONT" || p.City != "NANTES" || p.PostalCode != "44000" {
			t.Errorf("record = %+v", p)
		}
	})

	t.Run("malformed lines are skipped and counted", func(t *testing.T) {
		t.Parallel()

		in := "nom;ville\nDURAND;PARIS\nonly-one-field\nMARTIN;LYON;extra;fields\nBERNARD;NICE\n"
		ds, err := Parse(in, ';')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Len() != 2 {
			t.Errorf("rows = %d, want 2", ds.Len())
		}
		if ds.SkippedRows != 2 {
			t.Errorf("SkippedRows = %d, want 2", ds.SkippedRows)
		}
	})

	t.Run("blank lines are ignored without counting", func(t *testing.T) {
		t.Parallel()

		ds, err := Parse("nom;ville\n\nDURAND;PARIS\n\n", ';')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Len() != 1 || ds.SkippedRows != 0 {
			t.Errorf("rows = %d skipped = %d, want 1 and 0", ds.Len(), ds.SkippedRows)
		}
	})

	t.Run("values are trimmed", func(t *testing.T) {
		t.Parallel()

		ds, err := Parse("nom;ville\n DURAND ; PARIS \n", ';')
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.Records[0].LastName != "DURAND" || ds.Records[0].City != "PARIS" {
			t.Errorf("record = %+v", ds.Records[0])
		}
	})

	t.Run("empty payload fails with ErrParse", func(t *testing.T) {
		t.Parallel()

		if _, err := Parse("", ';'); !errors.Is(err, ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	})

	t.Run("header without known columns fails with ErrParse", func(t *testing.T) {
		t.Parallel()

		if _, err := Parse("foo;bar\n1;2\n", ';'); !errors.Is(err, ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	})

	t.Run("header with only data rows fails with ErrParse", func(t *testing.T) {
		t.Parallel()

		// A file whose header row carries no recognizable names is
		// indistinguishable from the wrong file entirely.
		if _, err := Parse("1;2;3\n4;5;6\n", ';'); !errors.Is(err, ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	})
}

// TestDecodeCharsetHandling covers the charset handling of French
// open-data files.
func TestDecodeCharsetHandling(t *testing.T) {
	t.Parallel()

	t.Run("valid utf-8 passes through", func(t *testing.T) {
		t.Parallel()

		in := "civilite;nom\nMME;Médecin généraliste\n"
		if got := Decode([]byte(in), "utf-8"); got != in {
			t.Errorf("Decode = %q, want unchanged input", got)
		}
	})

	t.Run("invalid utf-8 bytes are replaced not fatal", func(t *testing.T) {
		t.Parallel()

		got := Decode([]byte{'a', 0xff, 'b'}, "utf-8")
		if !strings.Contains(got, "a") || !strings.Contains(got, "b") {
			t.Errorf("Decode = %q, surrounding bytes lost", got)
		}
		if !strings.Contains(got, "�") {
			t.Errorf("Decode = %q, want replacement rune", got)
		}
	})

	t.Run("iso-8859-1 accents decode", func(t *testing.T) {
		t.Parallel()

		// "Médecin" with a latin-1 é.
		in := []byte{'M', 0xe9, 'd', 'e', 'c', 'i', 'n'}
		if got := Decode(in, "iso-8859-1"); got != "Médecin" {
			t.Errorf("Decode = %q, want %q", got, "Médecin")
		}
	})

	t.Run("windows-1252 punctuation decodes", func(t *testing.T) {
		t.Parallel()

		// 0x92 is the cp1252 right single quote, absent from latin-1.
		in := []byte{'l', 0x92, 'H', 'a', 'y'}
		if got := Decode(in, "windows-1252"); got != "l’Hay" {
			t.Errorf("Decode = %q, want %q", got, "l’Hay")
		}
	})

	t.Run("utf-8 byte-order mark is stripped", func(t *testing.T) {
		t.Parallel()

		in := append([]byte{0xef, 0xbb, 0xbf}, []byte("nom;ville")...)
		if got := Decode(in, "utf-8"); got != "nom;ville" {
			t.Errorf("Decode = %q, want BOM stripped", got)
		}
	})
}
