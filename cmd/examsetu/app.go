package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/examsetu/examsetu-client/internal/apiclient"
	"github.com/examsetu/examsetu-client/internal/attempt"
	"github.com/examsetu/examsetu-client/internal/config"
	"github.com/examsetu/examsetu-client/internal/console"
	"github.com/examsetu/examsetu-client/internal/database"
	"github.com/examsetu/examsetu-client/internal/repository"
	"github.com/examsetu/examsetu-client/internal/service"
	"github.com/examsetu/examsetu-client/internal/session"
	"github.com/examsetu/examsetu-client/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// app holds the wired dependencies of one CLI invocation.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	out    io.Writer
	tty    bool
	prompt *console.Prompter

	rdb  *redis.Client
	pool *pgxpool.Pool

	api     *apiclient.Client
	auth    *service.AuthService
	mock    *service.MockTestService
	portal  *service.PortalService
	journal *service.JournalService
	drafts  attempt.DraftStore

	workerCancel context.CancelFunc
	workerDone   chan struct{}
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, in io.Reader, out *os.File) (*app, error) {
	a := &app{
		cfg:    cfg,
		log:    log,
		out:    out,
		tty:    term.IsTerminal(int(out.Fd())),
		prompt: console.NewPrompter(in, out),
		drafts: attempt.NopDrafts{},
	}

	// ─── Connect to Redis ──────────────────────────────────────────────
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		a.rdb = rdb
		a.drafts = repository.NewDraftRepository(rdb)
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	var journalRepo service.JournalRepository
	if cfg.DatabaseURL != "" {
		if err := database.MigrateUp(cfg.DatabaseURL, log); err != nil {
			a.close()
			return nil, err
		}
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			a.close()
			return nil, err
		}
		a.pool = pool
		journalRepo = repository.NewSubmissionRepository(pool)
	}

	// ─── Initialize Session Store ──────────────────────────────────────
	var store session.Store
	if a.rdb != nil {
		store = session.NewRedisStore(a.rdb, cfg.DeviceID)
	} else {
		store = session.NewFileStore(cfg.SessionFile)
	}
	sessions := session.NewManager(store, cfg.SessionTTL, log)

	// ─── Initialize Services ──────────────────────────────────────────
	a.api = apiclient.New(cfg, log)
	a.auth = service.NewAuthService(a.api, sessions, log)
	a.mock = service.NewMockTestService(a.api, log)
	a.portal = service.NewPortalService(a.api, log)
	a.journal = service.NewJournalService(a.rdb, journalRepo, log)

	// ─── Start Background Workers ─────────────────────────────────────
	if a.rdb != nil && a.pool != nil {
		workerCtx, cancel := context.WithCancel(context.Background())
		a.workerCancel = cancel
		a.workerDone = make(chan struct{})
		journalWorker := worker.NewJournalWorker(journalRepo, a.rdb, log)
		go func() {
			defer close(a.workerDone)
			journalWorker.Start(workerCtx)
		}()
	}

	return a, nil
}

// close stops the journal worker after it drained the queue, then releases
// the connections.
func (a *app) close() {
	if a.workerCancel != nil {
		a.workerCancel()
		select {
		case <-a.workerDone:
		case <-time.After(5 * time.Second):
			a.log.Warn().Msg("Journal worker did not stop in time")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.rdb != nil {
		a.rdb.Close()
	}
}

func (a *app) run(ctx context.Context, command string, args []string) int {
	handlers := map[string]func(context.Context, []string) error{
		"login":         a.login,
		"logout":        a.logout,
		"whoami":        a.whoami,
		"start":         a.start,
		"take":          a.take,
		"results":       a.results,
		"responses":     a.responses,
		"notifications": a.notifications,
		"profile":       a.profile,
		"photo":         a.photo,
		"history":       a.history,
	}

	h, ok := handlers[command]
	if !ok {
		if command != "help" && command != "-h" && command != "--help" {
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		}
		printUsage(os.Stderr)
		return 2
	}

	if err := h(ctx, args); err != nil {
		a.log.Debug().Err(err).Str("command", command).Msg("Command failed")
		fmt.Fprintln(os.Stderr, console.UserMessage(err))
		return 1
	}
	return 0
}
