package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/housersapp/housers/internal/account"
	"github.com/housersapp/housers/internal/avatar"
	"github.com/housersapp/housers/internal/backend"
	"github.com/housersapp/housers/internal/backend/postgres"
	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/config"
	"github.com/housersapp/housers/internal/discover"
	"github.com/housersapp/housers/internal/events"
	"github.com/housersapp/housers/internal/filex"
	"github.com/housersapp/housers/internal/localdb"
	"github.com/housersapp/housers/internal/logging"
	"github.com/housersapp/housers/internal/mention"
	"github.com/housersapp/housers/internal/metrics"
	"github.com/housersapp/housers/internal/models"
	"github.com/housersapp/housers/internal/notifications"
	"github.com/housersapp/housers/internal/pricefilter"
	"github.com/housersapp/housers/internal/repositories/metadata"
	snapshots "github.com/housersapp/housers/internal/repositories/notifications"
	"github.com/housersapp/housers/internal/session"
)

// App holds the wired client. Commands run on the REPL goroutine; the
// notification engine and badge are also touched by background refreshes
// and are safe for that.
type App struct {
	cfg     *config.Config
	log     logging.Logger
	metrics *metrics.Metrics

	backend  backend.Backend
	session  session.Service
	account  account.Service
	engine   *notifications.Engine
	badge    *notifications.Badge
	resolver *mention.Resolver
	avatars  *avatar.Service
	importer *discover.Importer
	price    *pricefilter.Range

	db *sqlx.DB

	me     *models.Profile
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens local storage, selects the backend and wires the services.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if cfg.LocalDBPath != localdb.MemoryDSN {
		if err := filex.EnsureParentDir(cfg.LocalDBPath); err != nil {
			return nil, err
		}
	}
	db, err := localdb.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	be, sink, err := openBackend(ctx, cfg, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := openTokenStore(cfg)
	if err != nil {
		_ = be.Close()
		_ = db.Close()
		return nil, err
	}

	secret := []byte(cfg.JWTSecret)
	if cfg.Demo {
		secret = backend.MemorySigningKey
	}

	m := metrics.New()
	meta := metadata.NewSQLiteRepository(db)
	a := newApp(cfg, log, m, be, db)
	a.session = session.NewService(be, store, meta, sink, secret, log.With("component", "session"))
	a.account = account.NewService(be, be, log.With("component", "account"))
	bus := events.NewBus()
	a.engine = notifications.NewEngine(be, bus, log.With("component", "notifications"),
		notifications.WithSnapshot(snapshots.NewSQLiteRepository(db)),
		notifications.WithMetrics(m),
	)
	a.badge = notifications.NewBadge(a.engine, bus, nil)
	a.resolver = mention.NewResolver(be, log.With("component", "mention"), mention.WithMetrics(m))
	a.avatars = avatar.NewService(avatar.StorageConfig{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Expiry:    cfg.AvatarURLTTL,
	}, log.With("component", "avatar"), m)
	if cfg.OnboardingURL != "" {
		a.importer = discover.NewImporter(cfg.OnboardingURL, cfg.AnonKey, log.With("component", "discover"),
			discover.WithToken(a.session.AccessToken),
			discover.WithMetadata(meta),
			discover.WithCooldown(cfg.ImportCooldown),
			discover.WithMetrics(m),
		)
	}
	return a, nil
}

func newApp(cfg *config.Config, log logging.Logger, m *metrics.Metrics, be backend.Backend, db *sqlx.DB) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		metrics: m,
		backend: be,
		db:      db,
		price:   pricefilter.NewRange(pricefilter.DefaultScale),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

// openBackend returns the configured backend and the component that must
// receive the access token after sign-in.
func openBackend(ctx context.Context, cfg *config.Config, log logging.Logger) (backend.Backend, session.TokenSink, error) {
	if cfg.Demo {
		mem := backend.NewMemory()
		seedDemo(mem)
		log.Info(ctx, "using demo backend", "email", demoEmail, "password", demoPassword)
		return mem, nil, nil
	}

	rest, err := backend.NewRESTClient(cfg.BackendURL, cfg.AnonKey)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseDSN == "" {
		return rest, rest, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		_ = rest.Close()
		return nil, nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		_ = rest.Close()
		return nil, nil, err
	}
	log.Info(ctx, "reading profiles and notifications from postgres")
	return backend.NewComposite(postgres.NewStore(db), rest, db, rest), rest, nil
}

func openTokenStore(cfg *config.Config) (session.TokenStore, error) {
	if cfg.Demo {
		return session.NewKeyringStore(newDemoKeyring()), nil
	}
	dir, err := filex.EnsureDir(filepath.Join(cfg.KeyringDir, "keyring"))
	if err != nil {
		return nil, err
	}
	ring, err := session.OpenKeyring(dir)
	if err != nil {
		return nil, err
	}
	return session.NewKeyringStore(ring), nil
}

// Close releases the backend and local storage.
func (a *App) Close() error {
	return errors.Join(a.backend.Close(), a.db.Close())
}

// Run restores the previous session and runs the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, a.cfg.MetricsAddr, a.metrics, a.log); err != nil {
				a.log.Error(ctx, "metrics listener stopped", "error", err)
			}
		}()
	}
	go a.badge.Run(ctx)

	printlnFn("Welcome to Housers (type 'help' for commands)")
	if uid, err := a.session.Restore(ctx); err == nil {
		printlnFn(fmt.Sprintf("Welcome back! (%s)", uid))
		a.refresh(ctx, uid)
	} else if !errors.Is(err, common.ErrNoSession) {
		a.log.Info(ctx, "previous session not restored", "error", err)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
	return nil
}

// refresh loads what the home screen needs after a sign-in. The two loads
// are independent: one failing does not cancel the other. Failures are
// logged and the REPL stays usable with cached data.
func (a *App) refresh(ctx context.Context, userID string) {
	var g errgroup.Group
	g.Go(func() error {
		if err := a.engine.Restore(ctx, userID); err != nil {
			a.log.Warn(ctx, "notification snapshot not restored", "error", err)
		}
		_, err := a.engine.Load(ctx, userID)
		return err
	})
	g.Go(func() error {
		p, err := a.backend.ProfileByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		a.me = p
		return nil
	})
	if err := g.Wait(); err != nil {
		a.log.Warn(ctx, "startup refresh incomplete", "error", err)
	}
	a.badge.Refresh()
}

func (a *App) isLoggedIn() bool {
	_, err := a.session.CurrentUserID()
	return err == nil
}

// status is shown in the prompt: "(ann 3)" with the unread count.
func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	name := "me"
	if a.me != nil {
		name = a.me.Username
	}
	return fmt.Sprintf("(%s %s)", name, badgeStyle(a.badge.Count()))
}
