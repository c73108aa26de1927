package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/folio/internal/adapter/disk"
	"github.com/alanyang/folio/internal/adapter/memory"
	mongodb "github.com/alanyang/folio/internal/adapter/mongo"
	mongoproject "github.com/alanyang/folio/internal/adapter/mongo/project"
	mongoregister "github.com/alanyang/folio/internal/adapter/mongo/register"
	pgdb "github.com/alanyang/folio/internal/adapter/postgres"
	pgeventbus "github.com/alanyang/folio/internal/adapter/postgres/eventbus"
	pgproject "github.com/alanyang/folio/internal/adapter/postgres/project"
	pgregister "github.com/alanyang/folio/internal/adapter/postgres/register"
	s3store "github.com/alanyang/folio/internal/adapter/s3"
	"github.com/alanyang/folio/internal/config"
	porteventbus "github.com/alanyang/folio/internal/port/eventbus"
	portmedia "github.com/alanyang/folio/internal/port/media"
	portproject "github.com/alanyang/folio/internal/port/project"
	portregister "github.com/alanyang/folio/internal/port/register"
	projectsvc "github.com/alanyang/folio/internal/service/project"
	registersvc "github.com/alanyang/folio/internal/service/register"
	"github.com/alanyang/folio/internal/transport"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Server  *http.Server
	closers []func(context.Context) error
}

// Close releases store connections in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			slog.Error("shutdown: closing resource failed", "error", err)
		}
	}
}

type stores struct {
	projects  portproject.Repository
	registers portregister.Repository
	bus       porteventbus.EventBus
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	// ── Database ─────────────────────────────────────────────────────────────
	st, err := buildStores(ctx, cfg, app)
	if err != nil {
		app.Close(context.Background())
		return nil, err
	}

	// ── Media ────────────────────────────────────────────────────────────────
	media, uploadDir, err := buildMedia(ctx, cfg)
	if err != nil {
		app.Close(context.Background())
		return nil, err
	}

	// ── Services ─────────────────────────────────────────────────────────────
	projectSvcInstance := projectsvc.NewService(st.projects, media,
		projectsvc.WithPublisher(st.bus),
		projectsvc.WithTimeout(cfg.Server.OpTimeout),
	)
	registerSvcInstance := registersvc.NewService(st.registers, cfg.Server.OpTimeout)

	// ── Transport ─────────────────────────────────────────────────────────────
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := transport.NewRouter(ctx, projectSvcInstance, registerSvcInstance, st.bus, transport.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		UploadDir:      uploadDir,
	})

	app.Server = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	slog.Info("application wired",
		"port", cfg.Server.Port,
		"media_driver", cfg.Media.Driver,
		"op_timeout", cfg.Server.OpTimeout,
	)
	return app, nil
}

func buildStores(ctx context.Context, cfg *config.Config, app *App) (stores, error) {
	kind, err := cfg.Database.Kind()
	if err != nil {
		return stores{}, err
	}

	switch kind {
	case config.StorePostgres:
		pool, err := pgdb.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return stores{}, fmt.Errorf("connecting to database: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		if err := pgdb.Migrate(ctx, pool); err != nil {
			return stores{}, fmt.Errorf("migrating database: %w", err)
		}
		slog.Info("connected to postgres")
		return stores{
			projects:  pgproject.New(pool),
			registers: pgregister.New(pool),
			bus:       pgeventbus.New(pool),
		}, nil

	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, cfg.Database.URL, cfg.Database.MongoDatabase)
		if err != nil {
			return stores{}, fmt.Errorf("connecting to database: %w", err)
		}
		app.closers = append(app.closers, client.Disconnect)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return stores{}, fmt.Errorf("ensuring indexes: %w", err)
		}
		slog.Info("connected to mongodb", "database", db.Name())
		return stores{
			projects:  mongoproject.New(db),
			registers: mongoregister.New(db),
			bus:       memory.NewEventBus(),
		}, nil
	}
	return stores{}, fmt.Errorf("unsupported store %q", kind)
}

// buildMedia returns the store and, for the disk driver, the directory to serve.
func buildMedia(ctx context.Context, cfg *config.Config) (portmedia.Store, string, error) {
	switch cfg.Media.Driver {
	case config.MediaS3:
		client, err := s3store.NewClient(ctx, cfg.Media.S3Region, cfg.Media.S3Endpoint)
		if err != nil {
			return nil, "", fmt.Errorf("creating s3 client: %w", err)
		}
		publicURL := cfg.Media.S3PublicURL
		if publicURL == "" {
			publicURL = s3store.DefaultPublicURL(cfg.Media.S3Bucket, cfg.Media.S3Region, cfg.Media.S3Endpoint)
		}
		return s3store.New(client, cfg.Media.S3Bucket, publicURL), "", nil

	default:
		store, err := disk.New(cfg.Media.UploadDir, cfg.Media.PublicBaseURL+"/uploads")
		if err != nil {
			return nil, "", err
		}
		return store, store.Root(), nil
	}
}
