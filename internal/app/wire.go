package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/naviai/smsgate/internal/config"
	"github.com/naviai/smsgate/internal/dispatch"
	"github.com/naviai/smsgate/internal/domain"
	"github.com/naviai/smsgate/internal/gateway"
	"github.com/naviai/smsgate/internal/sms"
	"github.com/naviai/smsgate/internal/store/postgres"
	s3store "github.com/naviai/smsgate/internal/store/s3"
)

// Dependencies bundles the collaborator handles the application needs. They
// are constructed once at process start and passed explicitly into the
// pipeline; nothing is rebuilt per invocation.
type Dependencies struct {
	ProfileStore domain.ProfileAdminStore
	Sender       domain.SMSSender
	Gateway      *gateway.Gateway

	// StoreHealth pings the active profile store backend.
	StoreHealth interface {
		Health(ctx context.Context) error
	}
}

// Wire constructs the concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Profile store ---
	store, storeCloser, err := WireProfileStore(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, storeCloser)
	deps.ProfileStore = store.Store
	deps.StoreHealth = store.Health

	// --- SNS sender ---
	sender, err := sms.New(ctx, sms.ClientConfig{
		Region:    cfg.SNS.Region,
		AccessKey: cfg.SNS.AccessKey,
		SecretKey: cfg.SNS.SecretKey,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: sns: %w", err)
	}
	deps.Sender = sender

	// --- Pipeline ---
	dispatcher := dispatch.New(deps.Sender, logger)
	deps.Gateway = gateway.New(
		gateway.Config{
			Brand:           cfg.Gateway.Brand,
			AllowedPrefixes: cfg.Gateway.AllowedPrefixes,
		},
		deps.ProfileStore,
		dispatcher,
		logger,
	)

	return deps, cleanup, nil
}

// ProfileStoreDeps is the wired profile store backend plus its health
// probe.
type ProfileStoreDeps struct {
	Store  domain.ProfileAdminStore
	Health interface {
		Health(ctx context.Context) error
	}
}

// WireProfileStore constructs the configured profile store backend. It is
// shared between the service and the profilectl operator tool.
func WireProfileStore(ctx context.Context, cfg *config.Config) (*ProfileStoreDeps, func(), error) {
	switch strings.ToLower(cfg.Store.Backend) {
	case "s3":
		client, err := s3store.New(ctx, s3store.ClientConfig{
			Endpoint:       cfg.Store.S3.Endpoint,
			Region:         cfg.Store.S3.Region,
			Bucket:         cfg.Store.S3.Bucket,
			AccessKey:      cfg.Store.S3.AccessKey,
			SecretKey:      cfg.Store.S3.SecretKey,
			UseSSL:         cfg.Store.S3.UseSSL,
			ForcePathStyle: cfg.Store.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		return &ProfileStoreDeps{
			Store:  s3store.NewProfileStore(client, cfg.Store.S3.KeyPrefix),
			Health: client,
		}, func() { _ = client.Close() }, nil

	case "postgres":
		client, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Store.Postgres.DSN,
			Host:     cfg.Store.Postgres.Host,
			Port:     cfg.Store.Postgres.Port,
			Database: cfg.Store.Postgres.Database,
			User:     cfg.Store.Postgres.User,
			Password: cfg.Store.Postgres.Password,
			SSLMode:  cfg.Store.Postgres.SSLMode,
			MaxConns: cfg.Store.Postgres.PoolMaxConns,
			MinConns: cfg.Store.Postgres.PoolMinConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		if cfg.Store.Postgres.RunMigrations {
			if err := client.RunMigrations(ctx); err != nil {
				client.Close()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}
		return &ProfileStoreDeps{
			Store:  postgres.NewProfileStore(client.Pool()),
			Health: client,
		}, client.Close, nil

	default:
		return nil, nil, fmt.Errorf("wire: unsupported store backend %q", cfg.Store.Backend)
	}
}
