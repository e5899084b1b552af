package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nordvik/shopsync/internal/adapter"
	"github.com/nordvik/shopsync/internal/config"
	"github.com/nordvik/shopsync/internal/logger"
	"github.com/nordvik/shopsync/internal/service"
	"github.com/nordvik/shopsync/internal/session"
	"github.com/nordvik/shopsync/internal/store"
	"github.com/nordvik/shopsync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.New("shopsync", os.Stderr)
	cfg, err := config.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configs")
	}

	httpClient, err := adapter.NewHTTPClient(cfg.Adapter)
	if err != nil {
		log.Fatal().Err(err).Msg("create http client")
	}

	var snapshots session.SnapshotStore
	if cfg.Storage.Session.Enabled {
		snapshots = session.NewFileSnapshotStore(cfg.Storage.Session.FilePath)
	}

	sessionClient := adapter.NewSessionClient(httpClient, cfg.API.Key, cfg.API.Secret, log)
	sessions := session.NewManager(sessionClient, snapshots, log)
	dispatcher := adapter.NewHTTPDispatcher(httpClient, cfg.API.Secret, sessions, log)
	gateway := adapter.NewCacheGateway(dispatcher)

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	services := service.NewServices(storages, dispatcher, gateway, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, err := sessions.EnsureActiveSession(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("establish session")
	}
	log.Info().Time("expires", sess.Expires).Msg("session established")

	if email, password := os.Getenv("SHOPSYNC_DEMO_EMAIL"), os.Getenv("SHOPSYNC_DEMO_PASSWORD"); email != "" {
		sess, err = sessions.AttachUser(ctx, models.Credentials{Email: email, Password: password})
		if err != nil {
			log.Fatal().Err(err).Msg("attach user")
		}
	}

	if sess.User == nil {
		log.Info().Msg("no user attached, nothing to sync")
		return
	}

	result, err := services.Sync.SyncRound(ctx, sess.User.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("sync round failed")
	}
	log.Info().
		Int("pushed_lists", result.PushedLists).
		Int("pulled_lists", result.PulledLists).
		Int("failures", len(result.Failures)).
		Msg("sync round finished")

	lists, err := services.Lists.GetLists(ctx, sess.User.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("read local lists")
	}

	for _, list := range lists {
		items, err := services.Lists.GetItems(ctx, list.ID)
		if err != nil {
			log.Fatal().Err(err).Str("list_id", list.ID).Msg("read list items")
		}
		fmt.Printf("%s (%d items)\n", list.Name, len(items))
		for _, item := range items {
			mark := " "
			if item.Tick {
				mark = "x"
			}
			fmt.Printf("  [%s] %s\n", mark, item.Description)
		}
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
