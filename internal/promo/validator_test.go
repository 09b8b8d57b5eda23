package promo

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeCodeFile writes a gzipped newline-delimited code file and returns its
// path.
func writeCodeFile(t *testing.T, dir, name string, codes []string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(strings.Join(codes, "\n") + "\n")); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip %s: %v", name, err)
	}
	return path
}

func TestValidator_IsValid(t *testing.T) {
	dir := t.TempDir()
	file1 := writeCodeFile(t, dir, "codes1.gz", []string{"HAPPYHOUR", "FIFTYOFF1", "SUNRISE88"})
	file2 := writeCodeFile(t, dir, "codes2.gz", []string{"HAPPYHOUR", "SUNRISE88", "LONELYONE"})
	file3 := writeCodeFile(t, dir, "codes3.gz", []string{"SUNRISE88"})

	v := NewValidator()
	if err := v.LoadSources(context.Background(), []string{file1, file2, file3}); err != nil {
		t.Fatalf("LoadSources() error = %v", err)
	}

	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "present in two files", code: "HAPPYHOUR", want: true},
		{name: "present in three files", code: "SUNRISE88", want: true},
		{name: "present in one file only", code: "FIFTYOFF1", want: false},
		{name: "unknown code", code: "NOSUCHONE", want: false},
		{name: "too short", code: "SHORT", want: false},
		{name: "too long", code: "WAYTOOLONGCODE", want: false},
		{name: "empty", code: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.IsValid(tt.code); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestValidator_NoSourcesLoaded(t *testing.T) {
	v := NewValidator()

	if v.IsValid("HAPPYHOUR") {
		t.Error("IsValid() = true with no sources loaded, want false")
	}
}

func TestValidator_LoadSourcesEmpty(t *testing.T) {
	v := NewValidator()

	if err := v.LoadSources(context.Background(), nil); err == nil {
		t.Error("LoadSources(nil) error = nil, want error")
	}
}

func TestValidator_LoadSourcesMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := writeCodeFile(t, dir, "codes1.gz", []string{"HAPPYHOUR"})

	v := NewValidator()
	err := v.LoadSources(context.Background(), []string{good, filepath.Join(dir, "missing.gz")})
	if err == nil {
		t.Error("LoadSources() error = nil with missing file, want error")
	}
}

func TestValidator_Stats(t *testing.T) {
	dir := t.TempDir()
	file1 := writeCodeFile(t, dir, "codes1.gz", []string{"HAPPYHOUR", "SUNRISE88"})
	file2 := writeCodeFile(t, dir, "codes2.gz", []string{"HAPPYHOUR"})

	v := NewValidator()
	if err := v.LoadSources(context.Background(), []string{file1, file2}); err != nil {
		t.Fatalf("LoadSources() error = %v", err)
	}

	stats := v.Stats()
	if stats["total_files"] != 2 {
		t.Errorf("total_files = %v, want 2", stats["total_files"])
	}
	if stats["total_codes"] != 3 {
		t.Errorf("total_codes = %v, want 3", stats["total_codes"])
	}
}
