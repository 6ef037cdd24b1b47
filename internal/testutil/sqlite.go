package testutil

import (
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/storage"
)

const (
	submissionLogDatabasePrefix   = "sinthia-submissions"
	sharedMemoryDataSourcePattern = "file:%s?mode=memory&cache=shared&_foreign_keys=on"
)

// SQLiteTestDatabase names a private in-memory submission log database.
type SQLiteTestDatabase struct {
	configuration storage.Config
}

// NewSQLiteTestDatabase reserves a uniquely named shared-cache database so
// parallel tests never observe each other's submissions.
func NewSQLiteTestDatabase(testingT *testing.T) SQLiteTestDatabase {
	testingT.Helper()

	return SQLiteTestDatabase{
		configuration: storage.Config{
			DriverName:     storage.DriverNameSQLite,
			DataSourceName: fmt.Sprintf(sharedMemoryDataSourcePattern, submissionLogDatabasePrefix+"-"+storage.NewID()),
		},
	}
}

func (database SQLiteTestDatabase) Configuration() storage.Config {
	return database.configuration
}

func (database SQLiteTestDatabase) DataSourceName() string {
	return database.configuration.DataSourceName
}

// OpenMigratedDatabase opens a fresh submission log database with the
// schema applied and gorm output routed to the test log.
func OpenMigratedDatabase(testingT *testing.T) *gorm.DB {
	testingT.Helper()

	database, openErr := storage.OpenDatabase(NewSQLiteTestDatabase(testingT).Configuration())
	require.NoError(testingT, openErr)
	database = ConfigureDatabaseLogger(testingT, database)
	require.NoError(testingT, storage.AutoMigrate(database))

	sqlDatabase, sqlErr := database.DB()
	require.NoError(testingT, sqlErr)
	testingT.Cleanup(func() {
		_ = sqlDatabase.Close()
	})
	return database
}

// OpenSubmissionLog returns a submission log over OpenMigratedDatabase.
func OpenSubmissionLog(testingT *testing.T) (*gorm.DB, *storage.SubmissionLog) {
	testingT.Helper()

	database := OpenMigratedDatabase(testingT)
	submissionLog, logErr := storage.NewSubmissionLog(database)
	require.NoError(testingT, logErr)
	return database, submissionLog
}

type testLogWriter struct {
	testingT *testing.T
}

func (writer testLogWriter) Write(data []byte) (int, error) {
	if line := strings.TrimSpace(string(data)); line != "" {
		writer.testingT.Log(line)
	}
	return len(data), nil
}

// ConfigureDatabaseLogger reports only gorm errors, skipping record-not-found.
func ConfigureDatabaseLogger(testingT *testing.T, database *gorm.DB) *gorm.DB {
	testingT.Helper()
	if database == nil {
		testingT.Fatalf("configure database logger: nil database")
	}
	gormLogger := logger.New(
		log.New(testLogWriter{testingT: testingT}, "", 0),
		logger.Config{
			IgnoreRecordNotFoundError: true,
			LogLevel:                  logger.Error,
		},
	)
	return database.Session(&gorm.Session{Logger: gormLogger})
}
