// Package db opens the SQLite database backing the persistent store.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/cmontoya/eduassist/internal/store"
)

// Open opens (or creates) the database at path and migrates the key-value
// schema. Use "file::memory:?cache=shared" for throwaway instances.
func Open(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := gdb.AutoMigrate(&store.Record{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return gdb, nil
}
