package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/cache"
	"github.com/Amund211/clientboard/internal/adapters/clickup"
	"github.com/Amund211/clientboard/internal/adapters/database"
	"github.com/Amund211/clientboard/internal/adapters/meetingrepository"
	"github.com/Amund211/clientboard/internal/adapters/projectprovider"
	"github.com/Amund211/clientboard/internal/adapters/settingsrepository"
	"github.com/Amund211/clientboard/internal/adapters/snapshotrepository"
	"github.com/Amund211/clientboard/internal/app"
	"github.com/Amund211/clientboard/internal/auth"
	"github.com/Amund211/clientboard/internal/config"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/logging"
	"github.com/Amund211/clientboard/internal/ports"
	"github.com/Amund211/clientboard/internal/reporting"
	"github.com/Amund211/clientboard/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// The runtime image ships without a CA bundle
	_ "golang.org/x/crypto/x509roots/fallback"
)

// Only used in development when JWT_SECRET is unset
const developmentJWTSecret = "clientboard-development-secret"

func main() {
	instanceID := uuid.New().String()

	conf, err := config.ConfigFromEnv()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("Failed to load config", "error", err.Error())
		os.Exit(1)
	}

	logger := logging.NewRootLogger(os.Stdout, conf.GCPProject(), slog.String("instanceID", instanceID))

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	logger.Info("Loaded config", "config", conf.NonSensitiveString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.AddToContext(ctx, logger)

	if conf.OTelEnabled() {
		shutdownOTel, err := telemetry.SetupOTelSDK(ctx, "clientboard")
		if err != nil {
			fail("Failed to set up OpenTelemetry", "error", err.Error())
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOTel(shutdownCtx); err != nil {
				logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized OpenTelemetry")
	}

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(conf)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	clickUpAPI, err := clickup.NewAPIOrMock(conf, httpClient, time.Now, time.After)
	if err != nil {
		fail("Failed to initialize ClickUp API", "error", err.Error())
	}
	logger.Info("Initialized ClickUp API")

	defaults := projectprovider.ProjectDefaults{
		Client: conf.ProjectClient(),
		Budget: conf.ProjectBudget(),
	}

	clickUpProvider, err := projectprovider.NewClickUp(clickUpAPI, defaults, time.Now, conf.Location())
	if err != nil {
		fail("Failed to initialize ClickUp project provider", "error", err.Error())
	}

	var projectProvider projectprovider.ProjectProvider = clickUpProvider
	if conf.ProjectSource() == config.ProjectSourceWebhook {
		projectProvider, err = projectprovider.NewWebhook(httpClient, conf.ClickUpWebhookURL(), defaults, time.Now, conf.Location())
		if err != nil {
			fail("Failed to initialize webhook project provider", "error", err.Error())
		}
	}
	logger.Info("Initialized project provider", "source", conf.ProjectSource())

	logger.Info("Initializing database connection")
	db, err := database.NewCloudsqlPostgresDatabase(conf)
	if err != nil {
		fail("Failed to initialize database", "error", err.Error())
	}
	logger.Info("Initialized database connection")

	repositorySchemaName := database.GetSchemaName(!conf.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, repositorySchemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	settingsRepo := settingsrepository.NewPostgres(db, repositorySchemaName, time.Now)
	snapshotRepo := snapshotrepository.NewPostgres(db, repositorySchemaName)
	meetingRepo := meetingrepository.NewPostgres(db, repositorySchemaName, time.Now)
	logger.Info("Initialized repositories")

	jwtSecret := conf.JWTSecret()
	if jwtSecret == "" {
		logger.Warn("JWT_SECRET is not set, using the development secret")
		jwtSecret = developmentJWTSecret
	}
	authService := auth.NewService(jwtSecret, time.Now)

	allowedOrigins, err := ports.NewDomainSuffixes(conf.AllowedOrigins()...)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	getSettings := app.BuildGetSettings(settingsRepo, domain.Settings{
		TeamID:          conf.TeamID(),
		SpaceID:         conf.SpaceID(),
		ListID:          conf.ListID(),
		RefreshInterval: conf.RefreshInterval(),
	})

	refreshInterval := conf.RefreshInterval()
	if settings, err := getSettings(ctx); err != nil {
		logger.Error("Failed to read stored settings, using configured refresh interval", "error", err.Error())
	} else {
		refreshInterval = settings.RefreshInterval
	}

	projectCache := cache.NewWindowedCache[domain.ProjectSnapshot](refreshInterval, time.Now)
	checkpointCache := cache.NewTTLCache[domain.Checkpoint](1 * time.Minute)

	getProject := app.BuildGetProject(projectCache, getSettings, projectProvider, snapshotRepo)
	updateSettings := app.BuildUpdateSettings(getSettings, settingsRepo, projectCache)

	getCheckpoint := app.BuildGetCheckpointWithCache(checkpointCache, clickUpProvider)
	if conf.ProjectSource() == config.ProjectSourceWebhook {
		getCheckpoint = app.BuildGetCheckpointFromProject(getProject)
	}
	addComment := app.BuildAddComment(clickUpProvider, projectCache, checkpointCache)

	listMeetings := app.BuildListMeetings(meetingRepo)
	scheduleMeeting := app.BuildScheduleMeeting(meetingRepo, time.Now)
	cancelMeeting := app.BuildCancelMeeting(meetingRepo)

	listWorkspaceSpaces := app.BuildListWorkspaceSpaces(getSettings, clickUpAPI)
	listWorkspaceLists := app.BuildListWorkspaceLists(clickUpAPI)

	mux := http.NewServeMux()

	handleOptions := func(path string) {
		mux.HandleFunc("OPTIONS "+path, ports.BuildCORSHandler(allowedOrigins))
	}

	handleOptions("/v1/project")
	mux.HandleFunc(
		"GET /v1/project",
		ports.MakeGetProjectHandler(getProject, conf.Location(), allowedOrigins, logger, sentryMiddleware),
	)

	handleOptions("/v1/project/refresh")
	mux.HandleFunc(
		"POST /v1/project/refresh",
		ports.MakeRefreshProjectHandler(getProject, conf.Location(), authService, allowedOrigins, logger, sentryMiddleware),
	)

	handleOptions("/v1/settings")
	mux.HandleFunc(
		"GET /v1/settings",
		ports.MakeGetSettingsHandler(getSettings, allowedOrigins, logger, sentryMiddleware),
	)
	mux.HandleFunc(
		"PUT /v1/settings",
		ports.MakeUpdateSettingsHandler(updateSettings, authService, allowedOrigins, logger, sentryMiddleware),
	)

	handleOptions("/v1/checkpoints/{checkpointID}")
	mux.HandleFunc(
		"GET /v1/checkpoints/{checkpointID}",
		ports.MakeGetCheckpointHandler(getCheckpoint, conf.Location(), allowedOrigins, logger, sentryMiddleware),
	)

	handleOptions("/v1/checkpoints/{checkpointID}/comments")
	mux.HandleFunc(
		"POST /v1/checkpoints/{checkpointID}/comments",
		ports.MakeAddCommentHandler(addComment, conf.Location(), authService, allowedOrigins, logger, sentryMiddleware),
	)

	handleOptions("/v1/meetings")
	mux.HandleFunc(
		"GET /v1/meetings",
		ports.MakeListMeetingsHandler(listMeetings, conf.Location(), time.Now, allowedOrigins, logger, sentryMiddleware),
	)
	mux.HandleFunc(
		"POST /v1/meetings",
		ports.MakeScheduleMeetingHandler(scheduleMeeting, conf.Location(), authService, allowedOrigins, logger, sentryMiddleware),
	)

	handleOptions("/v1/meetings/{meetingID}")
	mux.HandleFunc(
		"DELETE /v1/meetings/{meetingID}",
		ports.MakeCancelMeetingHandler(cancelMeeting, authService, allowedOrigins, logger, sentryMiddleware),
	)

	handleOptions("/v1/workspace/spaces")
	mux.HandleFunc(
		"GET /v1/workspace/spaces",
		ports.MakeListWorkspaceSpacesHandler(listWorkspaceSpaces, authService, allowedOrigins, logger, sentryMiddleware),
	)

	handleOptions("/v1/workspace/spaces/{spaceID}/lists")
	mux.HandleFunc(
		"GET /v1/workspace/spaces/{spaceID}/lists",
		ports.MakeListWorkspaceListsHandler(listWorkspaceLists, authService, allowedOrigins, logger, sentryMiddleware),
	)

	go app.RunProjectPoller(ctx, getProject, conf.PollInterval(), time.After)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", conf.Port()),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down server", "error", err.Error())
		}
	}()

	logger.Info("Init complete")
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
