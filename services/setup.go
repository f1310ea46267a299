package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Package state resolved once at startup: well-known categories, the file
// store and the service logger.
var (
	wellKnown *Categories
	files     *FileStore
	log       = zap.NewNop()
)

// Init seeds the default categories, resolves the well-known keys and
// prepares the file store. Must be called before any service operation.
func Init(db *gorm.DB, dataDir string, logger *zap.Logger) error {
	if logger != nil {
		log = logger
	}

	if err := SeedCategories(db); err != nil {
		return err
	}

	cats, err := LoadCategories(db)
	if err != nil {
		return err
	}
	wellKnown = cats

	fs, err := NewFileStore(dataDir, log)
	if err != nil {
		return err
	}
	files = fs

	return nil
}

// Files exposes the file store to the HTTP layer.
func Files() *FileStore {
	return files
}

// WellKnown exposes the resolved category keys.
func WellKnown() *Categories {
	return wellKnown
}
