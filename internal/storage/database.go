package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/model"
)

const (
	// DriverNameSQLite identifies the SQLite driver implementation.
	DriverNameSQLite = "sqlite"

	sqliteFilePrefix         = "file:"
	sqliteMemoryName         = ":memory:"
	sqliteMemoryModeOption   = "mode=memory"
	sqliteJournalModePragma  = "PRAGMA journal_mode = WAL"
	dataDirectoryPermissions = 0o755

	errorMessageMissingDatabaseDriverName = "storage: missing database driver name"
	errorMessageUnsupportedDatabaseDriver = "storage: unsupported database driver"
	errorMessageMissingDataSourceName     = "storage: missing database data source name"
	errorMessageOpenDatabase              = "storage: open database"
	errorMessageOpenSQLiteDatabase        = "storage: open sqlite database"
	errorMessageCreateDataDirectory       = "storage: create data directory"
	errorMessageApplyPragma               = "storage: apply sqlite pragma"
)

var (
	// ErrMissingDatabaseDriverName indicates the database driver name configuration was omitted.
	ErrMissingDatabaseDriverName = errors.New(errorMessageMissingDatabaseDriverName)
	// ErrUnsupportedDatabaseDriver indicates the provided database driver is not supported.
	ErrUnsupportedDatabaseDriver = errors.New(errorMessageUnsupportedDatabaseDriver)
	// ErrMissingDataSourceName indicates the database data source name configuration was omitted.
	ErrMissingDataSourceName = errors.New(errorMessageMissingDataSourceName)
)

type databaseOpener func(Config) (*gorm.DB, error)

var databaseOpeners = map[string]databaseOpener{
	DriverNameSQLite: openSQLiteDatabase,
}

// Config names the database backing the submission log.
type Config struct {
	DriverName     string
	DataSourceName string
}

// OpenDatabase opens the submission log database with the configured driver.
func OpenDatabase(configuration Config) (*gorm.DB, error) {
	trimmedDriverName := strings.TrimSpace(configuration.DriverName)
	if trimmedDriverName == "" {
		return nil, ErrMissingDatabaseDriverName
	}

	opener, driverSupported := databaseOpeners[trimmedDriverName]
	if !driverSupported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabaseDriver, trimmedDriverName)
	}

	database, openErr := opener(Config{
		DriverName:     trimmedDriverName,
		DataSourceName: strings.TrimSpace(configuration.DataSourceName),
	})
	if openErr != nil {
		return nil, fmt.Errorf("%s: %w", errorMessageOpenDatabase, openErr)
	}

	return database, nil
}

// openSQLiteDatabase creates the directory holding a file database before
// opening it. File databases switch to WAL, which persists in the file, so the
// pruning job and the form relay can write while the submissions command reads.
func openSQLiteDatabase(configuration Config) (*gorm.DB, error) {
	if configuration.DataSourceName == "" {
		return nil, ErrMissingDataSourceName
	}

	databasePath, fileBacked := sqliteDatabasePath(configuration.DataSourceName)
	if fileBacked {
		if directory := filepath.Dir(databasePath); directory != "." {
			if mkdirErr := os.MkdirAll(directory, dataDirectoryPermissions); mkdirErr != nil {
				return nil, fmt.Errorf("%s: %w", errorMessageCreateDataDirectory, mkdirErr)
			}
		}
	}

	database, openErr := gorm.Open(sqlite.Open(configuration.DataSourceName), &gorm.Config{})
	if openErr != nil {
		return nil, fmt.Errorf("%s: %w", errorMessageOpenSQLiteDatabase, openErr)
	}

	if fileBacked {
		if pragmaErr := database.Exec(sqliteJournalModePragma).Error; pragmaErr != nil {
			return nil, fmt.Errorf("%s: %w", errorMessageApplyPragma, pragmaErr)
		}
	}

	return database, nil
}

// sqliteDatabasePath returns the file path behind a SQLite data source name
// and whether the database lives on disk at all.
func sqliteDatabasePath(dataSourceName string) (string, bool) {
	path, options, _ := strings.Cut(strings.TrimPrefix(dataSourceName, sqliteFilePrefix), "?")
	if path == "" || path == sqliteMemoryName {
		return "", false
	}
	for _, option := range strings.Split(options, "&") {
		if option == sqliteMemoryModeOption {
			return "", false
		}
	}
	return path, true
}

// AutoMigrate creates or updates the submission log table.
func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(&model.Submission{})
}

// NewID generates a new globally unique identifier.
func NewID() string {
	return uuid.NewString()
}
