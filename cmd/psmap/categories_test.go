package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestNewCategoriesCmd tests the categories command creation.
func TestNewCategoriesCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCategoriesCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "categories" {
			t.Errorf("expected use 'categories', got %q", cmd.Use)
		}
	})

	t.Run("has urls flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("urls") == nil {
			t.Error("expected urls flag")
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
	})
}

// TestRunCategoriesCmd tests the categories command execution.
func TestRunCategoriesCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists the built-in categories", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetArgs([]string{"categories"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, key := range []string{"medecin", "infirmier", "sage-femme"} {
			if !strings.Contains(out, key) {
				t.Errorf("expected %q in the listing", key)
			}
		}
	})

	t.Run("json listing decodes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetArgs([]string{"categories", "--json"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var cats []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &cats); err != nil {
			t.Fatalf("decode listing: %v", err)
		}
		if len(cats) == 0 {
			t.Error("expected at least one category")
		}
	})

	t.Run("urls flag includes the source", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&buf)
		root.SetArgs([]string{"categories", "--urls"})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "https://") {
			t.Error("expected source URLs in the listing")
		}
	})

	t.Run("explicit missing registry file fails", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		root.SetArgs([]string{"categories", "--registry", "/does/not/exist.yaml"})

		if err := root.Execute(); err == nil {
			t.Error("expected error for a missing registry file")
		}
	})
}
