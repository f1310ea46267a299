package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadSize is the ceiling for receipt uploads.
const MaxUploadSize = 10 * 1024 * 1024 // 10 MB

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".tiff": true,
	".bmp":  true,
}

// FileStore persists receipt uploads and rendered invoice PDFs under a
// local data directory.
type FileStore struct {
	ReceiptsDir string
	InvoicesDir string
	log         *zap.Logger
}

// NewFileStore creates the receipt and invoice directories under dataDir.
func NewFileStore(dataDir string, log *zap.Logger) (*FileStore, error) {
	fs := &FileStore{
		ReceiptsDir: filepath.Join(dataDir, "receipts"),
		InvoicesDir: filepath.Join(dataDir, "invoices"),
		log:         log,
	}
	for _, dir := range []string{fs.ReceiptsDir, fs.InvoicesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return fs, nil
}

// ValidateUpload checks extension, size and leading magic bytes of an
// upload before it is accepted.
func ValidateUpload(filename string, content []byte) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return Validationf("file type %q not allowed", ext)
	}
	if len(content) > MaxUploadSize {
		return Validationf("file too large, maximum is %d MB", MaxUploadSize/(1024*1024))
	}

	switch ext {
	case ".jpg", ".jpeg":
		if !bytes.HasPrefix(content, []byte{0xff, 0xd8}) {
			return Validationf("invalid JPEG file")
		}
	case ".png":
		if !bytes.HasPrefix(content, []byte("\x89PNG")) {
			return Validationf("invalid PNG file")
		}
	case ".gif":
		if !bytes.HasPrefix(content, []byte("GIF8")) {
			return Validationf("invalid GIF file")
		}
	case ".pdf":
		if !bytes.HasPrefix(content, []byte("%PDF")) {
			return Validationf("invalid PDF file")
		}
	}
	return nil
}

// SafeFilename rejects names that could escape the store directory.
func SafeFilename(name string) bool {
	return name != "" &&
		!strings.Contains(name, "..") &&
		!strings.ContainsAny(name, `/\`)
}

// ReceiptName builds a stored receipt name: <context>_<id>_<random>.<ext>.
func ReceiptName(context string, id uint, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d_%s%s", context, id, random, ext)
}

// SaveReceipt validates and writes an upload, returning the stored name.
func (fs *FileStore) SaveReceipt(context string, id uint, originalName string, content []byte) (string, error) {
	if err := ValidateUpload(originalName, content); err != nil {
		return "", err
	}
	name := ReceiptName(context, id, originalName)
	if err := os.WriteFile(filepath.Join(fs.ReceiptsDir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("save receipt: %w", err)
	}
	return name, nil
}

// ReceiptPath returns the on-disk path for a stored receipt name.
func (fs *FileStore) ReceiptPath(name string) (string, error) {
	if !SafeFilename(name) {
		return "", Validationf("invalid filename")
	}
	return filepath.Join(fs.ReceiptsDir, name), nil
}

// DeleteReceipt removes a receipt file. A missing file is not an error;
// deletion of financial records must not fail on absent artifacts.
func (fs *FileStore) DeleteReceipt(name string) {
	if !SafeFilename(name) {
		return
	}
	if err := os.Remove(filepath.Join(fs.ReceiptsDir, name)); err != nil && !os.IsNotExist(err) {
		fs.log.Warn("could not delete receipt file", zap.String("file", name), zap.Error(err))
	}
}

// InvoicePDFPath returns the artifact path for an invoice id.
func (fs *FileStore) InvoicePDFPath(invoiceID uint) string {
	return filepath.Join(fs.InvoicesDir, fmt.Sprintf("Rechnung_%d.pdf", invoiceID))
}

// DeleteInvoicePDF removes a rendered invoice, best-effort.
func (fs *FileStore) DeleteInvoicePDF(invoiceID uint) {
	path := fs.InvoicePDFPath(invoiceID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		fs.log.Warn("could not delete invoice PDF", zap.String("path", path), zap.Error(err))
	}
}
