// Copyright 2025 Salonbook Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/salonbook/salonbook/connectivity"
	"github.com/salonbook/salonbook/localdb"
	"github.com/salonbook/salonbook/remote"
)

// appConfig is the resolved runtime configuration: viper merges the config
// file, SALONBOOK_* environment variables and command-line flags.
type appConfig struct {
	DBPath string

	RemoteBackend string // "http" or "surrealdb"
	BaseURL       string
	HealthURL     string
	JWTSecret     string
	Subject       string
	TokenTTL      time.Duration

	Surreal remote.SurrealConfig

	WatchInterval time.Duration

	LogFile string
	Verbose bool
}

func loadConfig(cmd *cobra.Command) (*appConfig, error) {
	v := viper.New()
	v.SetConfigName("salonbook")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.salonbook")
	}
	v.SetEnvPrefix("SALONBOOK")
	v.AutomaticEnv()

	v.SetDefault("db.path", "salonbook.db")
	v.SetDefault("remote.backend", "http")
	v.SetDefault("remote.base_url", "http://localhost:8080")
	v.SetDefault("remote.subject", "salonbook-device")
	v.SetDefault("remote.token_ttl", "24h")
	v.SetDefault("watch.interval", "30s")
	v.SetDefault("log.file", "")

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; defaults and env cover it.
	}

	cfg := &appConfig{
		DBPath:        v.GetString("db.path"),
		RemoteBackend: v.GetString("remote.backend"),
		BaseURL:       v.GetString("remote.base_url"),
		HealthURL:     v.GetString("remote.health_url"),
		JWTSecret:     v.GetString("remote.jwt_secret"),
		Subject:       v.GetString("remote.subject"),
		TokenTTL:      v.GetDuration("remote.token_ttl"),
		Surreal: remote.SurrealConfig{
			URL:       v.GetString("surreal.url"),
			Namespace: v.GetString("surreal.namespace"),
			Database:  v.GetString("surreal.database"),
			User:      v.GetString("surreal.user"),
			Pass:      v.GetString("surreal.pass"),
		},
		WatchInterval: v.GetDuration("watch.interval"),
		LogFile:       v.GetString("log.file"),
	}

	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DBPath = db
	}
	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")

	if cfg.HealthURL == "" {
		cfg.HealthURL = cfg.BaseURL + "/health"
	}
	return cfg, nil
}

// newLogger builds the process logger. With log.file set, output rotates
// via lumberjack; otherwise it goes to stdout.
func newLogger(cfg *appConfig) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     30, // days
		}
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// openDocStore builds the configured remote backend.
func openDocStore(cfg *appConfig) (remote.DocStore, func(), error) {
	switch cfg.RemoteBackend {
	case "surrealdb":
		store, err := remote.NewSurrealStore(cfg.Surreal)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "http":
		var token func(context.Context) (string, error)
		if cfg.JWTSecret != "" {
			token = remote.HS256TokenSource(cfg.JWTSecret, cfg.Subject, cfg.TokenTTL)
		}
		return remote.NewHTTPStore(cfg.BaseURL, token), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown remote backend %q", cfg.RemoteBackend)
	}
}

// openStore opens the local database.
func openStore(cfg *appConfig, logger *slog.Logger) (*localdb.Store, error) {
	return localdb.Open(cfg.DBPath, logger)
}

func newChecker(cfg *appConfig) connectivity.Checker {
	return connectivity.NewHTTPChecker(cfg.HealthURL)
}
