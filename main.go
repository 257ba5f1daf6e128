package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"link-vetting/vetting"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := vetting.LoadConfig()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	setupLogging(cfg)

	checker, err := vetting.NewCheckerFromConfig(cfg)
	if err != nil {
		logrus.Fatalf("checker: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      vetting.NewHandler(checker).Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("graceful shutdown failed")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"port":              cfg.Port,
		"domain_age":        cfg.UseDomainAge,
		"domain_age_source": cfg.DomainAgeSource,
		"brand_mismatch":    cfg.UseBrandMismatch,
	}).Info("link-vetting service listening")
	logrus.Info("endpoints: POST /api/check (link check), GET /api/check, GET /healthz")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatal(err)
	}
	logrus.Info("server stopped")
}

func setupLogging(cfg vetting.Config) {
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
