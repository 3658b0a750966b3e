package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/toyz/locus/internal/errors"
)

func TestFileReader_ReadSource(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "Person.java")
	testContent := "package org.samples;\n\nclass Person {}\n"

	if err := os.WriteFile(testFile, []byte(testContent), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	reader := NewFileReader()

	source, err := reader.ReadSource(testFile)
	if err != nil {
		t.Fatalf("ReadSource failed: %v", err)
	}
	if string(source.Content) != testContent {
		t.Errorf("unexpected content %q", source.Content)
	}
	if source.Stamp.Size != int64(len(testContent)) {
		t.Errorf("expected stamp size %d, got %d", len(testContent), source.Stamp.Size)
	}

	path, stamp, err := reader.Stat(testFile)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if path != filepath.Clean(testFile) {
		t.Errorf("expected cleaned path, got %s", path)
	}
	if !stamp.Matches(source.Stamp) {
		t.Error("expected Stat and ReadSource stamps to match")
	}
}

func TestFileReader_Errors(t *testing.T) {
	reader := NewFileReader()
	tempDir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"empty path", "  "},
		{"missing file", filepath.Join(tempDir, "Missing.java")},
		{"directory", tempDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.ReadSource(tt.path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.HasCode(err, errors.FileSystemErrorCode) {
				t.Errorf("expected a file system error, got %v", err)
			}
		})
	}
}

func TestFileReader_SizeLimit(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "Big.java")
	if err := os.WriteFile(testFile, make([]byte, 64), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	reader := &FileReader{maxSize: 16}
	if _, err := reader.ReadSource(testFile); err == nil {
		t.Error("expected oversized file to be rejected")
	}
}
