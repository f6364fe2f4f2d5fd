package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/draft-board/internal/config"
	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	"github.com/riskibarqy/draft-board/internal/infrastructure/keyvalue"
	"github.com/riskibarqy/draft-board/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/draft-board/internal/infrastructure/repository/local"
	"github.com/riskibarqy/draft-board/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/draft-board/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/draft-board/internal/platform/cache"
	idgen "github.com/riskibarqy/draft-board/internal/platform/id"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
	"github.com/riskibarqy/draft-board/internal/platform/logging"
	"github.com/riskibarqy/draft-board/internal/platform/resilience"
	"github.com/riskibarqy/draft-board/internal/usecase"
)

// App owns the HTTP server, the backup scheduler and every open connection.
type App struct {
	Server    *http.Server
	scheduler *BackupScheduler
	logger    *logging.Logger
	closers   []func() error
}

type repositories struct {
	players player.Repository
	teams   team.Repository
	drafts  draft.Repository
	writer  usecase.SnapshotWriter
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	kv, err := a.openKVStore(ctx, cfg)
	if err != nil {
		return nil, errors.Join(err, a.close())
	}

	var repos repositories
	if cfg.Remote() {
		repos, err = a.openRemote(ctx, cfg)
		if err != nil {
			return nil, errors.Join(err, a.close())
		}
	} else {
		ids := idgen.NewClockGenerator()
		players := local.NewPlayerRepository(kv, ids)
		teams := local.NewTeamRepository(kv, ids)
		repos = repositories{
			players: players,
			teams:   teams,
			writer:  local.NewSnapshotWriter(players, teams),
		}
	}

	backups := usecase.NewBackupService(usecase.BackupServiceOptions{
		Store:   kv,
		Players: repos.players,
		Teams:   repos.teams,
		Writer:  repos.writer,
		Drafts:  repos.drafts,
		DraftID: cfg.BackupDraftID,
		Logger:  logger,
	})

	report, err := backups.RestoreOnStartup(ctx)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("restore board: %w", err), a.close())
	}
	logger.InfoContext(ctx, "board restored",
		"source", report.Source,
		"key", report.Key,
		"players", report.Players,
		"teams", report.Teams,
	)

	handler := httpapi.NewHandler(httpapi.Services{
		Board:    usecase.NewBoardService(repos.players, repos.teams, repos.drafts),
		Teams:    usecase.NewTeamService(repos.teams, repos.players, repos.drafts),
		Drafts:   usecase.NewDraftService(repos.drafts),
		Backups:  backups,
		Settings: usecase.NewSettingsService(local.NewSettingsRepository(kv)),
	}, logger)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.BackupEnabled {
		a.scheduler = NewBackupScheduler(backups, cfg.BackupInterval, logger)
	} else {
		logger.Info("backup scheduler disabled", "reason", "BACKUP_ENABLED=false")
	}

	return a, nil
}

// Start begins periodic backups. The HTTP server is started by the caller.
func (a *App) Start() error {
	if a.scheduler == nil {
		return nil
	}
	return a.scheduler.Start()
}

// Close stops the scheduler and releases connections in reverse open order.
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	return a.close()
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openKVStore(ctx context.Context, cfg config.Config) (kvstore.Store, error) {
	if cfg.KVDriver != config.KVRedis {
		a.logger.Info("kv store ready", "driver", config.KVMemory, "quota_bytes", cfg.KVQuotaBytes)
		return kvstore.NewMemoryStore(cfg.KVQuotaBytes), nil
	}

	client, err := keyvalue.Connect(ctx, cfg.RedisURL, cfg.RedisPingTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, client.Close)

	a.logger.Info("kv store ready", "driver", config.KVRedis, "prefix", cfg.RedisKeyPrefix)
	return keyvalue.NewRedisStore(client, cfg.RedisKeyPrefix), nil
}

func (a *App) openRemote(ctx context.Context, cfg config.Config) (repositories, error) {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	a.closers = append(a.closers, db.Close)

	breaker := resilience.CircuitBreakerConfig{
		Enabled:          cfg.DBCircuitEnabled,
		Name:             "postgres",
		FailureThreshold: cfg.DBCircuitFailureCount,
		OpenTimeout:      cfg.DBCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.DBCircuitHalfOpenMaxReq,
		IsFailure:        postgres.IsOutage,
		OnStateChange: func(name string, from, to resilience.CircuitState) {
			a.logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
		},
	}.Build()

	var (
		drafts draft.Repository = postgres.NewDraftRepository(db, breaker)
		teams  team.Repository  = postgres.NewTeamRepository(db, breaker)
	)
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		drafts = cache.NewDraftRepository(drafts, store)
		teams = cache.NewTeamRepository(teams, store)
	}

	a.logger.Info("remote storage ready",
		"db", dbNameFromURL(cfg.DBURL),
		"circuit_enabled", cfg.DBCircuitEnabled,
		"cache_enabled", cfg.CacheEnabled,
		"bulk_chunk_size", cfg.BulkChunkSize,
	)

	return repositories{
		players: postgres.NewPlayerRepository(db, breaker, cfg.BulkChunkSize),
		teams:   teams,
		drafts:  drafts,
	}, nil
}
