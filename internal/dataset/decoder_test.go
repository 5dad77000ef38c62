package dataset

import (
	"strings"
	"testing"

	"github.com/opensante/psmap/internal/registry"
)

// TestDecode covers charset conversion and damage tolerance.
func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("passes clean utf-8 through", func(t *testing.T) {
		t.Parallel()

		in := "spécialité;ville\n"
		if got := Decode([]byte(in), registry.EncodingUTF8); got != in {
			t.Errorf("Decode = %q, want %q", got, in)
		}
	})

	t.Run("decodes iso-8859-1 accents", func(t *testing.T) {
		t.Parallel()

		// "Médecin" with é as the single latin-1 byte 0xE9.
		in := []byte{'M', 0xE9, 'd', 'e', 'c', 'i', 'n'}
		if got := Decode(in, registry.EncodingLatin1); got != "Médecin" {
			t.Errorf("Decode = %q, want %q", got, "Médecin")
		}
	})

	t.Run("decodes windows-1252 punctuation", func(t *testing.T) {
		t.Parallel()

		// 0x92 is the windows-1252 right single quote, undefined in
		// latin-1.
		in := []byte{'l', 0x92, 'h', 0xF4, 'p', 'i', 't', 'a', 'l'}
		if got := Decode(in, registry.EncodingWindows1252); got != "l’hôpital" {
			t.Errorf("Decode = %q, want %q", got, "l’hôpital")
		}
	})

	t.Run("replaces invalid utf-8 instead of failing", func(t *testing.T) {
		t.Parallel()

		in := append([]byte("PARIS;"), 0xFF, 0xFE)
		got := Decode(in, registry.EncodingUTF8)
		if !strings.HasPrefix(got, "PARIS;") {
			t.Errorf("Decode = %q, want the valid prefix kept", got)
		}
		if !strings.Contains(got, "�") {
			t.Errorf("Decode = %q, want replacement runes for bad bytes", got)
		}
	})

	t.Run("strips a leading byte-order mark", func(t *testing.T) {
		t.Parallel()

		in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id;ville\n")...)
		if got := Decode(in, registry.EncodingUTF8); got != "id;ville\n" {
			t.Errorf("Decode = %q, want the BOM stripped", got)
		}
	})

	t.Run("unknown encoding falls back to utf-8", func(t *testing.T) {
		t.Parallel()

		in := "plain"
		if got := Decode([]byte(in), "koi8-r"); got != in {
			t.Errorf("Decode = %q, want %q", got, in)
		}
	})
}
