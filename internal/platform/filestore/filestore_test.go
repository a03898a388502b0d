package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name        string
		fileName    string
		contentType string
		wantErr     bool
	}{
		{"pdf", "report.pdf", "application/pdf", false},
		{"jpeg", "scan.jpeg", "image/jpeg", false},
		{"jpg", "scan.jpg", "image/jpeg", false},
		{"png", "xray.png", "image/png", false},
		{"uppercase extension", "REPORT.PDF", "application/pdf", false},
		{"no declared type", "report.pdf", "", false},
		{"executable", "malware.exe", "application/octet-stream", true},
		{"no extension", "report", "application/pdf", true},
		{"mismatched type", "report.pdf", "text/html", true},
		{"empty name", "", "application/pdf", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.fileName, tc.contentType)
			if tc.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStorageName_KeepsExtensionAndDiffers(t *testing.T) {
	a := StorageName("report.pdf")
	b := StorageName("report.pdf")
	if !strings.HasSuffix(a, ".pdf") {
		t.Errorf("expected .pdf suffix, got %s", a)
	}
	if a == b {
		t.Errorf("expected distinct storage names, got %s twice", a)
	}
}

func TestDiskStore_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	name, size, err := store.Save(ctx, "report.pdf", "application/pdf", strings.NewReader("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != int64(len("%PDF-1.4 test")) {
		t.Errorf("unexpected size %d", size)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	if err := store.Remove(ctx, name); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestDiskStore_RejectsDisallowedType(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = store.Save(context.Background(), "payload.exe", "application/octet-stream", strings.NewReader("MZ"))
	if err == nil {
		t.Fatal("expected validation error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no file written, found %d entries", len(entries))
	}
}

func TestDiskStore_RemoveRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Remove(context.Background(), "../escape.pdf"); err == nil {
		t.Error("expected error for path traversal name")
	}
}

func TestMemStore_SaveAndRemove(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	name, _, err := store.Save(ctx, "xray.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 stored file, got %d", store.Len())
	}

	if err := store.Remove(ctx, name); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Remove(ctx, name); err == nil {
		t.Error("expected error removing a missing file")
	}
}
