package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobg/errors"
	"github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"reverse-short-url/logging"
)

func newApp(run func(ctx context.Context, cfg *Config) error) *cli.App {
	return &cli.App{
		Name:  "reverse-short-url",
		Usage: "Telegram bot that expands short links and converts bilibili av/BV ids",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML config file path",
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Telegram bot token",
				EnvVars: []string{"BOT_TOKEN"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warning or error",
				Value: logging.InfoLevelStr,
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Also write logs to this rotated file",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "Development logging",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for resolving one short link",
			},
			&cli.IntFlag{
				Name:  "max-redirects",
				Usage: "Redirects to follow per short link",
			},
			&cli.StringSliceFlag{
				Name:  "bili-host",
				Usage: "Hosts treated as bilibili video pages (repeatable)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			return run(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *Config) error {
	logger := logging.New(cfg.LogLevel, cfg.LogFile, cfg.Dev)
	defer logger.Sync()

	botAPI, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return errors.Wrap(err, "creating bot api")
	}
	logger.Info("authorized", zap.String("account", botAPI.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := botAPI.GetUpdatesChan(u)
	if err != nil {
		return errors.Wrap(err, "getting updates channel")
	}
	defer botAPI.StopReceivingUpdates()

	b := newBot(
		botAPI,
		newResolver(cfg.Timeout.Duration, cfg.MaxRedirects, logger),
		newVideoMatcher(cfg.BiliHosts),
		logger,
	)
	b.handleUpdates(ctx, updates)

	logger.Info("shutting down")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp(serve).RunContext(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
