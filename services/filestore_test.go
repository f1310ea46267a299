package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		wantErr  bool
	}{
		{"valid pdf", "rechnung.pdf", []byte("%PDF-1.4 content"), false},
		{"valid jpeg", "foto.jpg", []byte{0xff, 0xd8, 0xff, 0xe0}, false},
		{"valid png", "scan.png", []byte("\x89PNG\r\n\x1a\n"), false},
		{"valid gif", "bild.gif", []byte("GIF89a"), false},
		{"tiff has no magic check", "scan.tiff", []byte("anything"), false},
		{"disallowed extension", "script.exe", []byte("MZ"), true},
		{"pdf with wrong magic", "fake.pdf", []byte("not a pdf"), true},
		{"jpeg with wrong magic", "fake.jpg", []byte("plain text"), true},
		{"png with wrong magic", "fake.png", []byte("plain text"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpload(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUploadSizeCeiling(t *testing.T) {
	big := append([]byte("%PDF"), bytes.Repeat([]byte("a"), MaxUploadSize)...)
	if err := ValidateUpload("big.pdf", big); err == nil {
		t.Error("oversized upload accepted")
	}

	ok := append([]byte("%PDF"), bytes.Repeat([]byte("a"), 1024)...)
	if err := ValidateUpload("ok.pdf", ok); err != nil {
		t.Errorf("small upload rejected: %v", err)
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"material_3_a1b2c3.pdf", true},
		{"", false},
		{"../etc/passwd", false},
		{"sub/dir.pdf", false},
		{`win\path.pdf`, false},
		{"..", false},
	}
	for _, tt := range tests {
		if got := SafeFilename(tt.name); got != tt.want {
			t.Errorf("SafeFilename(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReceiptName(t *testing.T) {
	name := ReceiptName("material", 7, "Foto vom Beleg.JPG")

	if !strings.HasPrefix(name, "material_7_") {
		t.Errorf("name = %q, want material_7_ prefix", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("name = %q, want lowercased .jpg suffix", name)
	}
	if !SafeFilename(name) {
		t.Errorf("generated name %q is not safe", name)
	}

	other := ReceiptName("material", 7, "Foto vom Beleg.JPG")
	if name == other {
		t.Error("two generated names collide")
	}
}

func TestFileStoreSaveAndDelete(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	name, err := fs.SaveReceipt("entry", 3, "beleg.pdf", []byte("%PDF-1.4 data"))
	if err != nil {
		t.Fatalf("save receipt: %v", err)
	}

	path, err := fs.ReceiptPath(name)
	if err != nil {
		t.Fatalf("receipt path: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	fs.DeleteReceipt(name)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still present after delete")
	}

	// Deleting again must be a no-op.
	fs.DeleteReceipt(name)
}

func TestFileStoreRejectsBadUpload(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if _, err := fs.SaveReceipt("entry", 3, "evil.sh", []byte("#!/bin/sh")); err == nil {
		t.Error("disallowed extension accepted")
	}

	if _, err := fs.ReceiptPath("../outside.pdf"); err == nil {
		t.Error("traversal name accepted")
	}
}

func TestInvoicePDFPath(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	path := fs.InvoicePDFPath(42)
	if filepath.Base(path) != "Rechnung_42.pdf" {
		t.Errorf("pdf name = %q, want Rechnung_42.pdf", filepath.Base(path))
	}
}
