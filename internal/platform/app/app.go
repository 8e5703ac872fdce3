// Package app assembles the storage, cache and service layers from configuration. Both the HTTP
// server and the command-line tool start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/bizbooks/internal/adapters/cache/rediscache"
	portsrepo "github.com/SscSPs/bizbooks/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizbooks/internal/core/ports/services"
	"github.com/SscSPs/bizbooks/internal/core/services"
	"github.com/SscSPs/bizbooks/internal/core/taxonomy"
	"github.com/SscSPs/bizbooks/internal/platform/config"
	"github.com/SscSPs/bizbooks/internal/repositories/database/memory"
	"github.com/SscSPs/bizbooks/internal/repositories/database/pgsql"
	"github.com/SscSPs/bizbooks/pkg/database"
)

// App is a wired application.
type App struct {
	Services   *portssvc.ServiceContainer
	Categories *taxonomy.Taxonomy
	// Redis is nil when no REDIS_ADDRESS is configured.
	Redis *redis.Client

	closers []func()
}

// Options tune Build.
type Options struct {
	// RunMigrations applies pending schema migrations when the Postgres driver is used.
	RunMigrations bool
}

// Build opens storage (and Redis when configured) and creates the services.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	a := &App{}

	categories, err := loadCategories(cfg.CategoriesFile)
	if err != nil {
		return nil, err
	}
	a.Categories = categories
	logger.Info("Category taxonomy loaded", slog.Int("version", categories.Version()), slog.Int("categories", len(categories.All())))

	repos, err := a.openStorage(ctx, cfg, logger, opts)
	if err != nil {
		a.Close()
		return nil, err
	}

	var txOptions []services.TransactionServiceOption
	if cfg.RedisAddress != "" {
		client, err := rediscache.Connect(ctx, cfg.RedisAddress)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = client
		a.closers = append(a.closers, func() { _ = client.Close() })
		txOptions = append(txOptions, services.WithPartyLocker(rediscache.NewPartyLocker(client)))
		logger.Info("Redis connected", slog.String("address", cfg.RedisAddress))
	}

	a.Services = services.NewServiceContainer(repos, categories, cfg.Profile(), txOptions...)
	return a, nil
}

func (a *App) openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (portsrepo.RepositoryProvider, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on exit")
		return memory.NewRepositoryProvider(memory.NewStore()), nil
	case config.StoragePostgres:
		if opts.RunMigrations {
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(dbPool) })
		return pgsql.NewRepositoryProvider(dbPool), nil
	default:
		return portsrepo.RepositoryProvider{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Close releases everything Build opened, in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func loadCategories(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}
	return taxonomy.Load(data)
}
