package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"docverify/internal/auth"
	"docverify/internal/cache"
	"docverify/internal/canonical"
	"docverify/internal/config"
	"docverify/internal/extractor"
	"docverify/internal/handler"
	"docverify/internal/logging"
	"docverify/internal/merger"
	"docverify/internal/ner"
	"docverify/internal/port"
	"docverify/internal/relation"
	"docverify/internal/repository/postgres"
	"docverify/internal/router"
	"docverify/internal/service"
	"docverify/internal/storage"
	s3storage "docverify/internal/storage/s3"
	"docverify/internal/validator"
)

func main() {
	if err := run(); err != nil {
		logging.Logger().Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logging.Setup(cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(context.Background(), &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	factsRepo := postgres.NewFactsRepo(db)
	logRepo := postgres.NewValidationLogRepo(db)

	// Initialize storage
	var textStore port.TextStore
	if cfg.S3.Bucket != "" {
		textStore, err = s3storage.NewTextStore(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 text store: %w", err)
		}
	} else {
		log.Warn("s3.bucket not set, source texts will not be archived")
	}
	archive := storage.NewTextArchive(textStore, cfg.S3.Prefix)

	// Initialize recognizer
	var recognizer port.EntityRecognizer
	if cfg.NER.Enabled() {
		recognizer = ner.NewCircuitRecognizer(ner.NewClient(&cfg.NER), nil)
		log.Infof("entity recognizer enabled at %s", cfg.NER.URL)
	} else {
		log.Info("ner.url not set, running rule extraction only")
	}

	// Initialize pipeline
	ex := extractor.New()
	m := merger.New(cfg.MergerConfig(), ex)
	linker := relation.New(cfg.RelationConfig())
	v := validator.New(cfg.ValidatorConfig(), ex, m)
	factsCache := cache.NewFactsCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)

	// Initialize services
	factSvc := service.NewFactService(factsRepo, recognizer, archive, factsCache, m, linker, canonical.NewBuilder(nil))
	answerSvc := service.NewAnswerService(factsRepo, logRepo, factsCache, v, service.AnswerServiceOptions{
		Concurrency:  cfg.Validation.Concurrency,
		MaxBatchSize: cfg.Validation.MaxBatchSize,
	})

	// Initialize handlers
	factsH := handler.NewFactsHandler(factSvc)
	answerH := handler.NewAnswerHandler(answerSvc)
	healthH := handler.NewHealthHandler(db, handler.Features{
		Recognizer: recognizer != nil,
		Archive:    archive.Enabled(),
	})

	// Setup router
	if cfg.JWT.Disabled {
		log.Warn("jwt.disabled is set, the API accepts unauthenticated requests")
	}
	r := router.Setup(auth.NewTokens(&cfg.JWT), factsH, answerH, healthH, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthDisabled:   cfg.JWT.Disabled,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
