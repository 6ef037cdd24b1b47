package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/forms"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/httpapi"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/preferences"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/site"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/storage"
	"github.com/MarkoPoloResearchLab/sinthia_site/internal/task"
)

const (
	commandUseName                = "server"
	commandShortDescription       = "Run the Sinthia Telecom site"
	commandLongDescription        = "Serve the localized Sinthia Telecom marketing site and relay its forms"
	missingConfigurationMessage   = "missing required configuration"
	loggerCreationErrorMessage    = "logger"
	logEventListening             = "listening"
	logEventShutdown              = "shutdown"
	logFieldAddress               = "addr"
	loggerContextOpenDatabase     = "open_db"
	loggerContextAutoMigrate      = "migrate"
	loggerContextServer           = "server"
	loggerContextBootstrap        = "bootstrap"
	readHeaderTimeoutSeconds      = 5
	shutdownTimeout               = 10 * time.Second
	upstreamTimeout               = 15 * time.Second
	unexpectedArgumentsMessage    = "unexpected command arguments"
	commandInitializationFailure  = "failed to configure command"
	flagNotDefinedMessage         = "flag %s not defined"
	environmentConfigurationError = "failed to apply environment configuration"
	defaultTokenPath              = "jm-scripts/get-csrf-token.php"
	defaultRelayPath              = "jm-scripts/mailer.php"

	flagNameApplicationAddress      = "app-addr"
	flagNameContentBaseURL          = "content-base-url"
	flagNameTokenURL                = "csrf-token-url"
	flagNameRelayURL                = "mailer-url"
	flagNameSessionSecret           = "session-secret"
	flagNamePublicBaseURL           = "public-base-url"
	flagNameServeMode               = "serve-mode"
	flagNameDatabaseDriver          = "db-driver"
	flagNameDatabaseDataSourceName  = "db-dsn"
	flagNameDefaultLanguage         = "default-lang"
	flagNameDefaultTheme            = "default-theme"
	flagNameContentRefreshInterval  = "content-refresh-interval"
	flagNameSessionIdleTimeout      = "session-idle-timeout"
	flagNameSubmissionRetentionDays = "submission-retention-days"

	environmentKeyApplicationAddress      = "APP_ADDR"
	environmentKeyContentBaseURL          = "CONTENT_BASE_URL"
	environmentKeyTokenURL                = "CSRF_TOKEN_URL"
	environmentKeyRelayURL                = "MAILER_URL"
	environmentKeySessionSecret           = "SESSION_SECRET"
	environmentKeyPublicBaseURL           = "PUBLIC_BASE_URL"
	environmentKeyServeMode               = "SERVE_MODE"
	environmentKeyDatabaseDriver          = "DB_DRIVER"
	environmentKeyDatabaseDataSource      = "DB_DSN"
	environmentKeyDefaultLanguage         = "DEFAULT_LANG"
	environmentKeyDefaultTheme            = "DEFAULT_THEME"
	environmentKeyContentRefreshInterval  = "CONTENT_REFRESH_INTERVAL"
	environmentKeySessionIdleTimeout      = "SESSION_IDLE_TIMEOUT"
	environmentKeySubmissionRetentionDays = "SUBMISSION_RETENTION_DAYS"

	defaultApplicationAddress      = ":8080"
	defaultDatabaseDriver          = storage.DriverNameSQLite
	defaultDatabaseDataSourceName  = "sinthia_site.db"
	defaultLanguage                = "bn"
	defaultTheme                   = "light"
	defaultServeMode               = string(ServeModeMonolith)
	defaultContentRefreshInterval  = 10 * time.Minute
	defaultSessionIdleTimeout      = 30 * time.Minute
	defaultSubmissionRetentionDays = 90
	sessionSweepInterval           = time.Minute
	submissionRetentionInterval    = 6 * time.Hour
)

// ServerConfig captures configuration needed to run the server.
type ServerConfig struct {
	ApplicationAddress      string
	ContentBaseURL          string
	TokenURL                string
	RelayURL                string
	SessionSecret           string
	PublicBaseURL           string
	ServeMode               ServeMode
	DatabaseDriverName      string
	DatabaseDataSourceName  string
	DefaultLanguage         string
	DefaultTheme            string
	ContentRefreshInterval  time.Duration
	SessionIdleTimeout      time.Duration
	SubmissionRetentionDays int
}

// DatabaseOpener opens a database connection using the storage configuration.
type DatabaseOpener func(storage.Config) (*gorm.DB, error)

type flagBinding struct {
	environmentKey string
	flagName       string
}

var flagBindings = []flagBinding{
	{environmentKey: environmentKeyApplicationAddress, flagName: flagNameApplicationAddress},
	{environmentKey: environmentKeyContentBaseURL, flagName: flagNameContentBaseURL},
	{environmentKey: environmentKeyTokenURL, flagName: flagNameTokenURL},
	{environmentKey: environmentKeyRelayURL, flagName: flagNameRelayURL},
	{environmentKey: environmentKeySessionSecret, flagName: flagNameSessionSecret},
	{environmentKey: environmentKeyPublicBaseURL, flagName: flagNamePublicBaseURL},
	{environmentKey: environmentKeyServeMode, flagName: flagNameServeMode},
	{environmentKey: environmentKeyDatabaseDriver, flagName: flagNameDatabaseDriver},
	{environmentKey: environmentKeyDatabaseDataSource, flagName: flagNameDatabaseDataSourceName},
	{environmentKey: environmentKeyDefaultLanguage, flagName: flagNameDefaultLanguage},
	{environmentKey: environmentKeyDefaultTheme, flagName: flagNameDefaultTheme},
	{environmentKey: environmentKeyContentRefreshInterval, flagName: flagNameContentRefreshInterval},
	{environmentKey: environmentKeySessionIdleTimeout, flagName: flagNameSessionIdleTimeout},
	{environmentKey: environmentKeySubmissionRetentionDays, flagName: flagNameSubmissionRetentionDays},
}

// ServerApplication constructs and executes the server command.
type ServerApplication struct {
	configurationLoader *viper.Viper
	databaseOpener      DatabaseOpener
}

// NewServerApplication creates a ServerApplication with default dependencies.
func NewServerApplication() *ServerApplication {
	return &ServerApplication{
		configurationLoader: viper.New(),
		databaseOpener:      storage.OpenDatabase,
	}
}

// WithDatabaseOpener overrides the database opener dependency.
func (application *ServerApplication) WithDatabaseOpener(databaseOpener DatabaseOpener) *ServerApplication {
	application.databaseOpener = databaseOpener
	return application
}

// Command builds the Cobra command for the server.
func (application *ServerApplication) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:   commandUseName,
		Short: commandShortDescription,
		Long:  commandLongDescription,
		RunE:  application.runCommand,
	}

	if configurationErr := application.configureCommand(rootCommand); configurationErr != nil {
		return nil, configurationErr
	}

	submissionsCommand, submissionsErr := application.submissionsCommand()
	if submissionsErr != nil {
		return nil, submissionsErr
	}
	rootCommand.AddCommand(submissionsCommand)

	return rootCommand, nil
}

func (application *ServerApplication) configureCommand(command *cobra.Command) error {
	application.configurationLoader.SetDefault(environmentKeyApplicationAddress, defaultApplicationAddress)
	application.configurationLoader.SetDefault(environmentKeyServeMode, defaultServeMode)
	application.configurationLoader.SetDefault(environmentKeyDatabaseDriver, defaultDatabaseDriver)
	application.configurationLoader.SetDefault(environmentKeyDatabaseDataSource, defaultDatabaseDataSourceName)
	application.configurationLoader.SetDefault(environmentKeyDefaultLanguage, defaultLanguage)
	application.configurationLoader.SetDefault(environmentKeyDefaultTheme, defaultTheme)
	application.configurationLoader.SetDefault(environmentKeyContentRefreshInterval, defaultContentRefreshInterval)
	application.configurationLoader.SetDefault(environmentKeySessionIdleTimeout, defaultSessionIdleTimeout)
	application.configurationLoader.SetDefault(environmentKeySubmissionRetentionDays, defaultSubmissionRetentionDays)
	application.configurationLoader.AutomaticEnv()

	commandFlags := command.Flags()
	commandFlags.String(flagNameApplicationAddress, defaultApplicationAddress, "address for the HTTP server to listen on")
	commandFlags.String(flagNameContentBaseURL, "", "base URL of the content and policy documents")
	commandFlags.String(flagNameTokenURL, "", "security token endpoint (defaults to the content host's token script)")
	commandFlags.String(flagNameRelayURL, "", "mail relay endpoint (defaults to the content host's mailer script)")
	commandFlags.String(flagNameSessionSecret, "", "secret used to sign visitor cookies")
	commandFlags.String(flagNamePublicBaseURL, "", "public URL of the site, used for the sitemap and API CORS")
	commandFlags.String(flagNameServeMode, defaultServeMode, "routes to serve: monolith, web or api")
	commandFlags.String(flagNameDatabaseDriver, defaultDatabaseDriver, "submission log database driver")
	commandFlags.String(flagNameDatabaseDataSourceName, defaultDatabaseDataSourceName, "submission log data source name")
	commandFlags.String(flagNameDefaultLanguage, defaultLanguage, "language for visitors without a stored preference")
	commandFlags.String(flagNameDefaultTheme, defaultTheme, "theme for visitors without a stored preference")
	commandFlags.Duration(flagNameContentRefreshInterval, defaultContentRefreshInterval, "how often content documents are reloaded (0 disables)")
	commandFlags.Duration(flagNameSessionIdleTimeout, defaultSessionIdleTimeout, "idle time after which visitor sessions are dropped")
	commandFlags.Int(flagNameSubmissionRetentionDays, defaultSubmissionRetentionDays, "days relay attempts are kept (0 keeps them forever)")

	for _, binding := range flagBindings {
		if bindErr := application.bindFlag(commandFlags, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
	}

	for _, binding := range flagBindings {
		if environmentErr := application.applyEnvironmentConfiguration(commandFlags, binding.environmentKey, binding.flagName); environmentErr != nil {
			return environmentErr
		}
	}

	if markErr := command.MarkFlagRequired(flagNameContentBaseURL); markErr != nil {
		return markErr
	}

	if markErr := command.MarkFlagRequired(flagNameSessionSecret); markErr != nil {
		return markErr
	}

	return nil
}

func (application *ServerApplication) bindFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if bindErr := application.configurationLoader.BindPFlag(environmentKey, flag); bindErr != nil {
		return bindErr
	}

	return nil
}

func (application *ServerApplication) applyEnvironmentConfiguration(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	environmentValue, environmentFound := os.LookupEnv(environmentKey)
	if !environmentFound {
		return nil
	}

	if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
		return fmt.Errorf("%s: %w", environmentConfigurationError, setErr)
	}

	return nil
}

func (application *ServerApplication) loadServerConfig() (ServerConfig, error) {
	loader := application.configurationLoader
	serveMode, serveModeErr := ParseServeMode(loader.GetString(environmentKeyServeMode))
	if serveModeErr != nil {
		return ServerConfig{}, serveModeErr
	}

	serverConfig := ServerConfig{
		ApplicationAddress:      loader.GetString(environmentKeyApplicationAddress),
		ContentBaseURL:          strings.TrimSpace(loader.GetString(environmentKeyContentBaseURL)),
		TokenURL:                strings.TrimSpace(loader.GetString(environmentKeyTokenURL)),
		RelayURL:                strings.TrimSpace(loader.GetString(environmentKeyRelayURL)),
		SessionSecret:           strings.TrimSpace(loader.GetString(environmentKeySessionSecret)),
		PublicBaseURL:           strings.TrimSpace(loader.GetString(environmentKeyPublicBaseURL)),
		ServeMode:               serveMode,
		DatabaseDriverName:      strings.TrimSpace(loader.GetString(environmentKeyDatabaseDriver)),
		DatabaseDataSourceName:  strings.TrimSpace(loader.GetString(environmentKeyDatabaseDataSource)),
		DefaultLanguage:         loader.GetString(environmentKeyDefaultLanguage),
		DefaultTheme:            loader.GetString(environmentKeyDefaultTheme),
		ContentRefreshInterval:  loader.GetDuration(environmentKeyContentRefreshInterval),
		SessionIdleTimeout:      loader.GetDuration(environmentKeySessionIdleTimeout),
		SubmissionRetentionDays: loader.GetInt(environmentKeySubmissionRetentionDays),
	}

	paths := content.DefaultPaths(serverConfig.ContentBaseURL)
	if serverConfig.TokenURL == "" && serverConfig.ContentBaseURL != "" {
		serverConfig.TokenURL = paths.Resolve(defaultTokenPath)
	}
	if serverConfig.RelayURL == "" && serverConfig.ContentBaseURL != "" {
		serverConfig.RelayURL = paths.Resolve(defaultRelayPath)
	}
	return serverConfig, nil
}

func (application *ServerApplication) runCommand(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf("%s: %s", unexpectedArgumentsMessage, strings.Join(arguments, " "))
	}

	serverConfig, configErr := application.loadServerConfig()
	if configErr != nil {
		return configErr
	}

	if validationErr := application.ensureRequiredConfiguration(serverConfig); validationErr != nil {
		return validationErr
	}

	logger, loggerErr := zap.NewProduction()
	if loggerErr != nil {
		return fmt.Errorf("%s: %w", loggerCreationErrorMessage, loggerErr)
	}
	defer func() {
		_ = logger.Sync()
	}()

	database, databaseErr := application.databaseOpener(storage.Config{
		DriverName:     serverConfig.DatabaseDriverName,
		DataSourceName: serverConfig.DatabaseDataSourceName,
	})
	if databaseErr != nil {
		logger.Fatal(loggerContextOpenDatabase, zap.Error(databaseErr))
	}

	if migrateErr := storage.AutoMigrate(database); migrateErr != nil {
		logger.Fatal(loggerContextAutoMigrate, zap.Error(migrateErr))
	}

	runtimeContext, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, componentsErr := buildComponents(runtimeContext, serverConfig, database, logger)
	if componentsErr != nil {
		return componentsErr
	}
	for _, scheduler := range components.schedulers {
		scheduler.Start(runtimeContext)
		defer scheduler.Stop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger(logger))
	registerRoutes(router, serverConfig, components)

	httpServer := &http.Server{
		Addr:              serverConfig.ApplicationAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeoutSeconds * time.Second,
	}

	go func() {
		<-runtimeContext.Done()
		shutdownContext, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info(logEventShutdown)
		_ = httpServer.Shutdown(shutdownContext)
	}()

	logger.Info(logEventListening, zap.String(logFieldAddress, serverConfig.ApplicationAddress), zap.String("mode", string(serverConfig.ServeMode)))
	if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Fatal(loggerContextServer, zap.Error(serveErr))
	}

	return nil
}

type serverComponents struct {
	application       *site.Application
	siteHandlers      *httpapi.SiteHandlers
	speedTestHandlers *httpapi.SpeedTestHandlers
	assetHandlers     *httpapi.AssetHandlers
	sitemapHandlers   *httpapi.SitemapHandlers
	schedulers        []*task.Scheduler
}

func buildComponents(ctx context.Context, serverConfig ServerConfig, database *gorm.DB, logger *zap.Logger) (*serverComponents, error) {
	defaults, defaultsErr := preferences.NewDefaults(serverConfig.DefaultLanguage, serverConfig.DefaultTheme)
	if defaultsErr != nil {
		return nil, defaultsErr
	}
	preferencesStore, storeErr := preferences.NewStore([]byte(serverConfig.SessionSecret), defaults, logger)
	if storeErr != nil {
		return nil, storeErr
	}
	submissionLog, logErr := storage.NewSubmissionLog(database)
	if logErr != nil {
		return nil, logErr
	}

	contentClient := resty.New().SetTimeout(upstreamTimeout)
	loader := content.NewLoader(content.NewFetcher(contentClient, logger), content.DefaultPaths(serverConfig.ContentBaseURL), logger)
	submitter := forms.NewSubmitter(forms.NewRelay(serverConfig.RelayURL), site.NewSubmissionRecorder(submissionLog), time.Now, logger)
	application := site.NewApplication(site.Config{TokenURL: serverConfig.TokenURL, UpstreamTimeout: upstreamTimeout}, loader, submitter, logger)
	if bootstrapErr := application.Bootstrap(ctx); bootstrapErr != nil {
		logger.Error(loggerContextBootstrap, zap.Error(bootstrapErr))
	}

	registry := site.NewRegistry(application)
	eventRouter, routerErr := site.NewEventRouter(site.Routes(), logger)
	if routerErr != nil {
		return nil, routerErr
	}

	schedulers := []*task.Scheduler{
		task.NewScheduler(task.Schedule{Name: "session_sweep", Interval: sessionSweepInterval},
			task.NewSessionSweepJob(registry, serverConfig.SessionIdleTimeout, logger), logger),
		task.NewScheduler(task.Schedule{Name: "submission_retention", Interval: submissionRetentionInterval, RunOnStart: true},
			task.NewSubmissionRetentionJob(submissionLog, task.SubmissionRetentionConfig{RetentionDays: serverConfig.SubmissionRetentionDays}, logger), logger),
	}
	if serverConfig.ContentRefreshInterval > 0 {
		schedulers = append(schedulers, task.NewScheduler(task.Schedule{Name: "content_refresh", Interval: serverConfig.ContentRefreshInterval},
			task.NewContentRefreshJob(application), logger))
	}

	return &serverComponents{
		application:       application,
		siteHandlers:      httpapi.NewSiteHandlers(application, registry, eventRouter, preferencesStore, logger),
		speedTestHandlers: httpapi.NewSpeedTestHandlers(nil, logger),
		assetHandlers:     httpapi.NewAssetHandlers(),
		sitemapHandlers:   httpapi.NewSitemapHandlers(serverConfig.PublicBaseURL, application),
		schedulers:        schedulers,
	}, nil
}

func (application *ServerApplication) ensureRequiredConfiguration(configuration ServerConfig) error {
	var missingParameters []string

	if configuration.ContentBaseURL == "" {
		missingParameters = append(missingParameters, flagNameContentBaseURL)
	}

	if configuration.SessionSecret == "" {
		missingParameters = append(missingParameters, flagNameSessionSecret)
	}

	if len(missingParameters) == 0 {
		return nil
	}

	return fmt.Errorf("%s: %s", missingConfigurationMessage, strings.Join(missingParameters, ", "))
}

func main() {
	application := NewServerApplication()
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandInitializationFailure, commandErr)
		os.Exit(1)
	}

	if executeErr := rootCommand.Execute(); executeErr != nil {
		os.Exit(1)
	}
}
