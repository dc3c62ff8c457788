package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shot-coach/internal/api/rest"
	"shot-coach/internal/api/telegram"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API и Telegram-бота",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, c, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := rest.NewServer(rest.ServerConfig{
				Addr:           cfg.HTTPAddr,
				Analyzer:       c.AnalysisService,
				Classifier:     c.ClassificationService,
				Store:          c.Store,
				MaxUploadBytes: cfg.MaxUploadBytes,
				RequestTimeout: cfg.RequestTimeout,
				Logger:         log,
				StartTime:      time.Now(),
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(server.Start)
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			if cfg.TelegramToken == "" {
				log.Warn("TELEGRAM_TOKEN is empty, bot disabled")
			} else {
				bot, err := telegram.NewBot(telegram.Config{
					Token:          cfg.TelegramToken,
					Users:          c.UserService,
					Analyzer:       c.AnalysisService,
					Classifier:     c.ClassificationService,
					Store:          c.Store,
					Shots:          c.Engine.Catalog().Shots(),
					MaxUploadBytes: cfg.MaxUploadBytes,
					RequestTimeout: cfg.RequestTimeout,
					Logger:         log,
				})
				if err != nil {
					stop()
					_ = g.Wait()
					return err
				}
				g.Go(func() error { return bot.Run(gctx) })
			}

			log.Info("shot-coach is running", zap.Strings("shots", c.Engine.Catalog().Shots()))
			return g.Wait()
		},
	}
}
