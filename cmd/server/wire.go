package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"botf2/internal/adapter/events/redisstream"
	httpadapter "botf2/internal/adapter/http"
	metricsinmem "botf2/internal/adapter/metrics/inmemory"
	gormrepo "botf2/internal/adapter/repo/gorm"
	repomem "botf2/internal/adapter/repo/memory"
	"botf2/internal/adapter/snapshot/badgerstore"
	universemem "botf2/internal/adapter/universe/memory"
	"botf2/internal/app/agreement"
	"botf2/internal/app/auth"
	"botf2/internal/app/ports"
	"botf2/internal/app/proposal"
	"botf2/internal/app/relations"
	"botf2/internal/app/replay"
	"botf2/internal/app/shared/statetx"
	"botf2/internal/app/treaty"
	"botf2/internal/config"
)

type backend struct {
	tx          ports.TxManager
	state       ports.DiplomacyStateRepository
	events      ports.EventRepository
	snapshots   ports.SnapshotStore
	credentials ports.CivCredentialRepository
	closers     []func() error
}

func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

func buildBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{}
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := gormrepo.OpenPostgres(cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.Migrate {
			applied, err := gormrepo.ApplyMigrations(ctx, db, gormrepo.Migrations())
			if err != nil {
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("migrations_applied", "versions", applied)
		}
		b.tx = gormrepo.NewTxManager(db)
		b.state = gormrepo.NewDiplomacyStateRepo(db)
		b.events = gormrepo.NewEventRepo(db)
		b.snapshots = gormrepo.NewSnapshotRepo(db)
		b.credentials = gormrepo.NewCivCredentialRepo(db)
		if sqlDB, err := db.DB(); err == nil {
			b.closers = append(b.closers, sqlDB.Close)
		}
	default:
		store := repomem.NewStore()
		b.tx = repomem.NewTxManager(store)
		b.state = repomem.NewDiplomacyStateRepo(store)
		b.events = repomem.NewEventRepo(store)
		b.credentials = repomem.NewCredentialRepo()
	}

	if cfg.Snapshot.BadgerPath != "" || cfg.Snapshot.InMemory {
		bcfg := badgerstore.DefaultConfig(cfg.Snapshot.BadgerPath)
		if cfg.Snapshot.InMemory {
			bcfg = badgerstore.InMemoryConfig()
		}
		bcfg.Logger = logger
		bcfg.GCDiscardRatio = cfg.Snapshot.GCDiscardRatio
		store, err := badgerstore.Open(bcfg)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		b.snapshots = store
		b.closers = append(b.closers, store.Close)
	}
	return b, nil
}

func buildUniverse(cfg config.ScenarioConfig) (*universemem.Universe, error) {
	if cfg.Path == "" {
		return universemem.NewUniverse(1), nil
	}
	seed, err := universemem.LoadSeed(cfg.Path)
	if err != nil {
		return nil, err
	}
	return seed.Build(), nil
}

// buildPublisher returns a nil publisher when no redis URL is configured.
func buildPublisher(ctx context.Context, cfg config.RedisConfig) (ports.EventPublisher, func() error, error) {
	if cfg.URL == "" {
		return nil, func() error { return nil }, nil
	}
	client, err := redisstream.ConnectRedis(cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	pub := redisstream.New(client, cfg.Stream, cfg.Group)
	if err := pub.EnsureStream(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ensure event stream: %w", err)
	}
	return pub, client.Close, nil
}

func buildHandler(cfg config.Config, b *backend, u *universemem.Universe, pub ports.EventPublisher, kpi *metricsinmem.Recorder, metrics ports.DiplomacyMetrics, logger *slog.Logger) httpadapter.Handler {
	runner := statetx.Runner{
		TxManager: b.tx,
		StateRepo: b.state,
		EventRepo: b.events,
		Publisher: pub,
		Metrics:   metrics,
		Logger:    logger,
	}
	engine := treaty.Engine{
		Universe: u,
		Treasury: u,
		Clock:    u,
		Logger:   logger,
	}
	h := httpadapter.Handler{
		RegisterUC:    auth.RegisterUseCase{Credentials: b.credentials, Universe: u},
		ProposeUC:     proposal.ProposeUseCase{Runner: runner, Engine: engine, Universe: u, Clock: u},
		RespondUC:     proposal.RespondUseCase{Runner: runner, Engine: engine, Metrics: metrics},
		IntentUC:      proposal.IntentUseCase{Runner: runner, Clock: u},
		BreakUC:       agreement.BreakUseCase{Runner: runner, Engine: engine, Clock: u, Metrics: metrics},
		AdvanceTurnUC: agreement.AdvanceTurnUseCase{Runner: runner, Engine: engine, Clock: u, Snapshots: b.snapshots, Metrics: metrics},
		DeclareWarUC:  agreement.DeclareWarUseCase{Runner: runner, Engine: engine, Universe: u, Clock: u},
		RelationsUC:   relations.UseCase{Runner: runner, Universe: u, Clock: u},
		ReplayUC:      replay.UseCase{TxManager: b.tx, Events: b.events},
		KPI:           kpi,
	}
	if cfg.Auth.Required {
		h.AuthUC = &auth.VerifyUseCase{Credentials: b.credentials}
	}
	return h
}
