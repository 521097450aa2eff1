package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/daslab/treeshade/internal/domain/pointcloud"
	"github.com/daslab/treeshade/internal/domain/shadow"
	"github.com/daslab/treeshade/internal/domain/suntable"
	"github.com/daslab/treeshade/internal/infra/config"
	pcstore "github.com/daslab/treeshade/internal/infra/pointcloud"
)

func provideSunTable(cfg *config.Config) (shadow.SunTable, error) {
	return cfg.SunTable.LoadSunTable()
}

func provideSolarConfig(cfg *config.Config) (suntable.Config, error) {
	return cfg.Solar.GeneratorConfig()
}

// providePointCloudStore opens the configured backend. The primary backend
// must come up; the cache is optional and falls back to direct reads.
func providePointCloudStore(cfg *config.Config, logger *slog.Logger) (pointcloud.Store, func(), error) {
	var (
		store   pointcloud.Store
		cleanup = func() {}
	)
	switch cfg.PointCloud.Backend {
	case config.BackendDir:
		dir, err := pcstore.NewDirStore(cfg.PointCloud.Dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("point cloud dir store enabled", "dir", cfg.PointCloud.Dir)
		store = dir
	case config.BackendS3:
		objCfg := cfg.PointCloud.ObjectStore
		objects, err := pcstore.NewObjectStore(pcstore.ObjectStoreOptions{
			Endpoint:  objCfg.Endpoint,
			AccessKey: objCfg.AccessKey,
			SecretKey: objCfg.SecretKey,
			Bucket:    objCfg.Bucket,
			Region:    objCfg.Region,
			Prefix:    objCfg.Prefix,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("point cloud object store enabled", "bucket", objCfg.Bucket)
		store = objects
	case config.BackendPostgres:
		pool, err := openPostgres(cfg.PointCloud.Postgres)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("point cloud postgres store enabled")
		store = pcstore.NewPostgresStore(pool)
		cleanup = pool.Close
	default:
		logger.Info("point cloud backend is memory, no trees are loaded")
		store = pcstore.NewMemoryStore()
	}

	if !cfg.PointCloud.Cache.Enabled {
		return store, cleanup, nil
	}
	client, err := openValkey(cfg.PointCloud.Cache.Addr)
	if err != nil {
		logger.Error("point cloud cache unavailable, reading backend directly", "error", err)
		return store, cleanup, nil
	}
	logger.Info("point cloud valkey cache enabled", "addr", cfg.PointCloud.Cache.Addr, "ttl", cfg.PointCloud.Cache.TTL)
	cached := pcstore.NewCachedStore(store, pcstore.NewValkeyCache(client), cfg.PointCloud.Cache.Prefix, cfg.PointCloud.Cache.TTL, logger)
	return cached, func() {
		client.Close()
		cleanup()
	}, nil
}

func openPostgres(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func openValkey(addr string) (valkey.Client, error) {
	opt, err := buildValkeyOptions(addr)
	if err != nil {
		return nil, err
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping: %w", err)
	}
	return client, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
