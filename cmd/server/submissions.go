package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/storage"
)

const (
	submissionsCommandUse         = "submissions"
	submissionsCommandDescription = "Print the most recent relay attempts from the submission log, newest first"
	flagNameSubmissionsLimit      = "limit"
	defaultSubmissionsLimit       = 20
)

// submissionLine is one relay attempt as printed by the submissions command.
type submissionLine struct {
	SubmittedAt time.Time `json:"submitted_at"`
	FormID      string    `json:"form_id"`
	Outcome     string    `json:"outcome"`
	StatusCode  int       `json:"status_code"`
	PackageName string    `json:"package_name,omitempty"`
	Message     string    `json:"message,omitempty"`
}

var submissionsFlagBindings = []flagBinding{
	{environmentKey: environmentKeyDatabaseDriver, flagName: flagNameDatabaseDriver},
	{environmentKey: environmentKeyDatabaseDataSource, flagName: flagNameDatabaseDataSourceName},
}

func (application *ServerApplication) submissionsCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   submissionsCommandUse,
		Short: submissionsCommandDescription,
		Args:  cobra.NoArgs,
		RunE:  application.runSubmissionsCommand,
	}

	commandFlags := command.Flags()
	commandFlags.String(flagNameDatabaseDriver, defaultDatabaseDriver, "submission log database driver")
	commandFlags.String(flagNameDatabaseDataSourceName, defaultDatabaseDataSourceName, "submission log data source name")
	commandFlags.Int(flagNameSubmissionsLimit, defaultSubmissionsLimit, "number of attempts to print")

	for _, binding := range submissionsFlagBindings {
		if environmentErr := application.applyEnvironmentConfiguration(commandFlags, binding.environmentKey, binding.flagName); environmentErr != nil {
			return nil, environmentErr
		}
	}
	return command, nil
}

func (application *ServerApplication) runSubmissionsCommand(command *cobra.Command, _ []string) error {
	commandFlags := command.Flags()
	driverName, _ := commandFlags.GetString(flagNameDatabaseDriver)
	dataSourceName, _ := commandFlags.GetString(flagNameDatabaseDataSourceName)
	limit, _ := commandFlags.GetInt(flagNameSubmissionsLimit)

	database, databaseErr := application.databaseOpener(storage.Config{DriverName: driverName, DataSourceName: dataSourceName})
	if databaseErr != nil {
		return fmt.Errorf("%s: %w", loggerContextOpenDatabase, databaseErr)
	}
	if migrateErr := storage.AutoMigrate(database); migrateErr != nil {
		return fmt.Errorf("%s: %w", loggerContextAutoMigrate, migrateErr)
	}
	submissionLog, logErr := storage.NewSubmissionLog(database)
	if logErr != nil {
		return logErr
	}

	submissions, recentErr := submissionLog.Recent(command.Context(), limit)
	if recentErr != nil {
		return recentErr
	}
	encoder := json.NewEncoder(command.OutOrStdout())
	for _, submission := range submissions {
		line := submissionLine{
			SubmittedAt: submission.SubmittedAt.UTC(),
			FormID:      submission.FormID,
			Outcome:     submission.Outcome,
			StatusCode:  submission.StatusCode,
			PackageName: submission.PackageName,
			Message:     submission.Message,
		}
		if encodeErr := encoder.Encode(line); encodeErr != nil {
			return encodeErr
		}
	}
	return nil
}
