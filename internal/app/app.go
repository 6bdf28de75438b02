package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/online_pharmacy/internal/config"
	"github.com/Skotchmaster/online_pharmacy/internal/events"
	"github.com/Skotchmaster/online_pharmacy/internal/httpserver"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
	"github.com/Skotchmaster/online_pharmacy/internal/repo/gormrepo"
	"github.com/Skotchmaster/online_pharmacy/internal/repo/mongorepo"
	"github.com/Skotchmaster/online_pharmacy/internal/search"
	"github.com/Skotchmaster/online_pharmacy/internal/service"
	"github.com/Skotchmaster/online_pharmacy/internal/session"
	"github.com/Skotchmaster/online_pharmacy/pkg/db"
	authmw "github.com/Skotchmaster/online_pharmacy/pkg/middleware/auth"
	"github.com/Skotchmaster/online_pharmacy/pkg/middleware/ratelimit"
)

const (
	janitorInterval = time.Minute
	limiterIdle     = 10 * time.Minute
)

type App struct {
	Cfg       config.Config
	Logger    *slog.Logger
	Store     repo.Store
	Sessions  *session.Manager
	Publisher events.Publisher
	Index     *search.ESIndex
	Limiter   *ratelimit.IPRateLimiter
	Echo      *echo.Echo
}

func OpenStore(ctx context.Context, cfg config.Config) (repo.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		mdb, err := db.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return mongorepo.New(mdb), nil
	case config.StorePostgres:
		gdb, err := db.Open(ctx, db.DriverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return gormrepo.New(gdb), nil
	case config.StoreSQLite:
		gdb, err := db.Open(ctx, db.DriverSQLite, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return gormrepo.New(gdb), nil
	default:
		return nil, fmt.Errorf("app: unknown store driver %q", cfg.StoreDriver)
	}
}

func OpenSessions(ctx context.Context, cfg config.Config) (*session.Manager, error) {
	var backend session.Backend
	switch cfg.SessionStore {
	case config.SessionRedis:
		rb, err := session.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		backend = rb
	default:
		mb := session.NewMemoryBackend()
		mb.StartJanitor(janitorInterval)
		backend = mb
	}
	return session.NewManager(backend, cfg.SessionSecret, cfg.SessionTTL), nil
}

func OpenPublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers)
}

// OpenSearch returns nil when no Elasticsearch URL is configured.
func OpenSearch(cfg config.Config) (*search.ESIndex, error) {
	if cfg.ESURL == "" {
		return nil, nil
	}
	client, err := search.NewClient(search.Config{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword})
	if err != nil {
		return nil, err
	}
	return search.NewESIndex(client, cfg.ESIndex), nil
}

// Build opens every backend named by cfg, migrates the store and wires the
// HTTP server. Callers own the returned App and must Close it.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Cfg: cfg, Logger: logger}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.Store = store
	if err := store.Migrate(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if a.Sessions, err = OpenSessions(ctx, cfg); err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("open sessions: %w", err)
	}

	a.Publisher = OpenPublisher(cfg)

	if a.Index, err = OpenSearch(cfg); err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("open search: %w", err)
	}

	a.Limiter = ratelimit.NewIPRateLimiter(cfg.LoginRatePerMin, cfg.LoginBurst)
	a.Limiter.StartJanitor(janitorInterval, limiterIdle)

	a.Echo = httpserver.New(logger, a.deps())
	return a, nil
}

func (a *App) deps() *httpserver.Deps {
	authSvc := &service.AuthService{Users: a.Store, Sessions: a.Sessions, Events: a.Publisher, BcryptCost: a.Cfg.BcryptCost}
	catalogSvc := &service.CatalogService{Repo: a.Store, Events: a.Publisher}
	if a.Index != nil {
		catalogSvc.Index = a.Index
	}

	checks := map[string]httpserver.Pinger{"store": a.Store}
	if p, ok := a.Sessions.Backend.(httpserver.Pinger); ok {
		checks["sessions"] = p
	}

	d := &httpserver.Deps{
		Auth:    &httpserver.AuthHTTP{Svc: authSvc, CookieName: a.Cfg.SessionCookie, CookieSecure: a.Cfg.CookieSecure},
		Catalog: &httpserver.CatalogHTTP{Svc: catalogSvc},
		Cart:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: a.Store, Products: a.Store, Events: a.Publisher}},
		Orders:  &httpserver.OrderHTTP{Svc: &service.OrderService{Events: a.Publisher}},
		Health:  &httpserver.HealthHTTP{Checks: checks},
		Guard: &authmw.Guard{
			Resolve:    httpserver.IdentityResolver(authSvc),
			CookieName: a.Cfg.SessionCookie,
			Secure:     a.Cfg.CookieSecure,
		},
		LoginLimiter: a.Limiter,
	}
	if a.Cfg.TrustProxy {
		d.IPExtractor = echo.ExtractIPFromXFFHeader()
	}
	if a.Index != nil {
		d.Search = &httpserver.SearchHTTP{Searcher: a.Index}
	}
	return d
}

// Close releases backends in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Limiter != nil {
		a.Limiter.Stop()
	}
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if a.Sessions != nil {
		errs = append(errs, a.Sessions.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close(ctx))
	}
	return errors.Join(errs...)
}
