package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func serve(configFile string) error {
	cfg, err := setup(configFile)
	if err != nil {
		return err
	}
	defer database.Close()

	log := logging.Logger()
	if err := database.Migrate(log); err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	validation.Register()

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	if cfg.UseMongoLogStore() {
		mongoStore, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return err
		}
		defer mongoStore.Close()

		historyRepo = repository.NewMongoHistoryRepository(mongoStore.DB(), log)
		notificationRepo = repository.NewMongoNotificationRepository(mongoStore.DB(), log)
	}

	var mailer services.Mailer
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
		log.WithField("host", cfg.SMTPHost).Info("E-mail copies of notifications enabled")
	}

	var aiService services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		log.WithField("model", cfg.OpenAIModel).Info("AI task generation enabled")
	}

	authService := services.NewAuthService(userRepo)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpire)
	history := services.NewHistoryService(historyRepo, userRepo, taskRepo)
	notifier := services.NewNotificationService(notificationRepo, userRepo, taskRepo, mailer, log)

	h := handlers.Handlers{
		Auth:         handlers.NewAuthHandler(authService, tokens),
		Project:      handlers.NewProjectHandler(services.NewProjectService(projectRepo, notifier)),
		Task:         handlers.NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, userRepo, history, notifier, aiService)),
		Comment:      handlers.NewCommentHandler(services.NewCommentService(commentRepo, taskRepo, userRepo, notifier)),
		History:      handlers.NewHistoryHandler(history),
		Notification: handlers.NewNotificationHandler(notifier),
		Report:       handlers.NewReportHandler(services.NewReportService(taskRepo, projectRepo, userRepo)),
	}

	store, err := newSessionStore(cfg, log)
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(log))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	handlers.RegisterRoutes(r, h, middleware.RequireAuth(tokens, authService))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Info("Shut down signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}

// newSessionStore uses Redis when REDIS_HOST is set and signed cookies
// otherwise
func newSessionStore(cfg *config.Config, log *logrus.Logger) (sessions.Store, error) {
	options := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	if cfg.RedisHost == "" {
		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(options)
		log.Info("Using cookie session store")
		return store, nil
	}

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,    // Redis pool size
		"tcp", // network type
		redisAddr,
		"", // username (empty for default user)
		"", // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return nil, err
	}
	store.Options(options)
	log.WithField("addr", redisAddr).Info("Using Redis session store")
	return store, nil
}
