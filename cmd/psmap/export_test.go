package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewExportCmd tests the export command creation.
func TestNewExportCmd(t *testing.T) {
	t.Parallel()

	cmd := NewExportCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "export <category>" {
			t.Errorf("expected use 'export <category>', got %q", cmd.Use)
		}
	})

	t.Run("has format flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("format")
		if flag == nil {
			t.Fatal("expected format flag")
		}
		if flag.DefValue != "csv" {
			t.Errorf("expected default 'csv', got %q", flag.DefValue)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})
}

// TestRunExportCmd tests the export command execution.
func TestRunExportCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes csv to stdout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprint(w, cmdExtract)
		}))
		defer srv.Close()

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetArgs([]string{"export", "test",
			"--registry", writeTestRegistry(t, srv.URL),
			"--cache", "memory",
		})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "last_name") {
			t.Errorf("expected csv header, got %q", out)
		}
		if !strings.Contains(out, "DURAND") {
			t.Errorf("expected fixture rows, got %q", out)
		}
	})

	t.Run("writes a json file", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprint(w, cmdExtract)
		}))
		defer srv.Close()

		outputPath := filepath.Join(t.TempDir(), "out", "test.json")
		root := NewRootCmd()
		root.SetOut(new(bytes.Buffer))
		root.SetArgs([]string{"export", "test",
			"--registry", writeTestRegistry(t, srv.URL),
			"--cache", "memory",
			"--format", "json",
			"-o", outputPath,
		})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("read exported file: %v", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(content, &doc); err != nil {
			t.Fatalf("decode exported file: %v", err)
		}
	})

	t.Run("filters before exporting", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprint(w, cmdExtract)
		}))
		defer srv.Close()

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetArgs([]string{"export", "test",
			"--registry", writeTestRegistry(t, srv.URL),
			"--cache", "memory",
			"--city", "LYON",
		})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "MARTIN") {
			t.Errorf("expected the Lyon row, got %q", out)
		}
		if strings.Contains(out, "DURAND") {
			t.Errorf("expected the Paris row to be filtered out, got %q", out)
		}
	})

	t.Run("unsupported format fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprint(w, cmdExtract)
		}))
		defer srv.Close()

		root := NewRootCmd()
		root.SetOut(new(bytes.Buffer))
		root.SetArgs([]string{"export", "test",
			"--registry", writeTestRegistry(t, srv.URL),
			"--cache", "memory",
			"--format", "xml",
		})

		if err := root.Execute(); err == nil {
			t.Error("expected error for an unsupported format")
		}
	})
}
