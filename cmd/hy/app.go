package main

import (
	"context"
	"fmt"
	"log"

	"github.com/zulandar/haulyard/internal/config"
	"github.com/zulandar/haulyard/internal/db"
	"github.com/zulandar/haulyard/internal/dispatch"
	"github.com/zulandar/haulyard/internal/notice"
	"github.com/zulandar/haulyard/internal/store"
	"github.com/zulandar/haulyard/internal/store/gcs"
	"github.com/zulandar/haulyard/internal/telegraph"
	"github.com/zulandar/haulyard/internal/telegraph/discord"
	"github.com/zulandar/haulyard/internal/telegraph/slack"
	"gorm.io/gorm"
)

// app bundles everything a command needs once config is loaded.
type app struct {
	cfg    *config.Config
	db     *gorm.DB
	store  *store.GormStore
	bucket *gcs.Bucket // nil unless publish.gcs_bucket is set
	chat   *telegraph.Telegraph
	svc    *dispatch.Service
	closer []func() error
}

type appOpts struct {
	// chat connects the configured Slack/Discord adapters.
	chat bool
}

// openApp loads config, connects the database, and assembles the service.
func openApp(ctx context.Context, configPath string, opts appOpts) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: gormDB, store: store.New(gormDB, cfg.BaseURL)}
	if sqlDB, err := gormDB.DB(); err == nil {
		a.closer = append(a.closer, sqlDB.Close)
	}

	publishers := store.Publishers{a.store}
	if cfg.Publish.GCSBucket != "" {
		client, err := gcs.NewClient(ctx, cfg.Publish.CredentialsFile)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closer = append(a.closer, client.Close)
		a.bucket = gcs.New(client, cfg.Publish.GCSBucket, cfg.Publish.GCSPrefix)
		publishers = append(publishers, a.bucket)
	}

	renderer := notice.NewRenderer("")
	if cfg.TemplatePath != "" {
		if renderer, err = notice.LoadRenderer(cfg.TemplatePath); err != nil {
			a.Close()
			return nil, err
		}
	}

	svcOpts := dispatch.Options{
		Fleet:         cfg.Fleet(),
		Renderer:      renderer,
		Archive:       a.store,
		Publisher:     publishers,
		Location:      cfg.Location(),
		DisplayWindow: cfg.DisplayWindow(),
	}
	if opts.chat {
		if a.chat = connectChat(ctx, cfg); a.chat != nil {
			svcOpts.Notifier = a.chat
			a.closer = append(a.closer, a.chat.Close)
		}
	}

	if a.svc, err = dispatch.NewService(svcOpts); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// pageReader looks pages up in GCS first when configured, then the database.
func (a *app) pageReader() store.PageReader {
	if a.bucket != nil {
		return store.Readers{a.bucket, a.store}
	}
	return a.store
}

// Close releases connections in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closer) - 1; i >= 0; i-- {
		if err := a.closer[i](); err != nil {
			log.Printf("hy: close: %v", err)
		}
	}
	a.closer = nil
}

// connectChat builds a Telegraph over the configured platforms. It returns
// nil when none is configured or none connects.
func connectChat(ctx context.Context, cfg *config.Config) *telegraph.Telegraph {
	fleet := cfg.Fleet()
	var routes []telegraph.Route

	if sc := cfg.Notify.Slack; sc.Enabled() {
		adapter, err := slack.New(slack.AdapterOpts{BotToken: sc.BotToken, ChannelID: sc.ChannelID})
		if err != nil {
			log.Printf("hy: slack disabled: %v", err)
		} else {
			routes = append(routes, telegraph.Route{Platform: "slack", Adapter: adapter, Channel: fleet.SlackChannel})
		}
	}
	if dc := cfg.Notify.Discord; dc.Enabled() {
		adapter, err := discord.New(discord.AdapterOpts{BotToken: dc.BotToken, ChannelID: dc.ChannelID})
		if err != nil {
			log.Printf("hy: discord disabled: %v", err)
		} else {
			routes = append(routes, telegraph.Route{Platform: "discord", Adapter: adapter, Channel: fleet.DiscordChannel})
		}
	}
	if len(routes) == 0 {
		return nil
	}

	t := telegraph.New(routes...)
	if err := t.Connect(ctx); err != nil {
		log.Printf("hy: chat delivery disabled: %v", err)
		return nil
	}
	log.Printf("hy: chat delivery on %d of %d platforms", t.Len(), len(routes))
	return t
}
