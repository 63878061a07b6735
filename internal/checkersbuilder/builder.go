package checkersbuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/checkers-link/internal/adapter/checkerspresenter"
	"github.com/park285/checkers-link/internal/config"
	"github.com/park285/checkers-link/internal/msgcat"
	"github.com/park285/checkers-link/internal/pvp"
	"github.com/park285/checkers-link/internal/pvpchan"
	"github.com/park285/checkers-link/internal/pvpcheckers"
	"github.com/park285/checkers-link/internal/render"
)

// Deps is everything the HTTP layer needs. Redis-backed parts are nil when
// PvP is disabled; Archive is nil without DATABASE_URL.
type Deps struct {
	Catalog   *msgcat.Catalog
	Formatter *checkerspresenter.Formatter
	Renderer  render.BoardRenderer

	Redis   *redis.Client
	Games      *pvpcheckers.Manager
	Lobby      *pvpchan.Manager
	Challenges *pvp.Manager
	Archive    *pvpcheckers.Archive
}

func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := msgcat.New(cfg.Locale, cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("init messages: %w", err)
	}
	d := &Deps{
		Catalog:   catalog,
		Formatter: checkerspresenter.NewFormatter(catalog),
		Renderer:  render.NewPNGRenderer(cfg.TileSize),
	}

	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		a, err := pvpcheckers.OpenArchive(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init archive: %w", err)
		}
		d.Archive = a
	}

	if !cfg.EnablePvP {
		logger.Info("pvp_disabled")
		return d, nil
	}
	if strings.TrimSpace(cfg.RedisURL) == "" {
		_ = d.Close()
		return nil, fmt.Errorf("REDIS_URL is required for PvP")
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	d.Redis = redis.NewClient(opts)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := d.Redis.Ping(pctx).Err(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	d.Games = pvpcheckers.NewManagerWithClient(d.Redis,
		pvpcheckers.WithTTL(cfg.GameTTL),
		pvpcheckers.WithRenderer(d.Renderer),
		pvpcheckers.WithArchive(d.Archive),
	)
	d.Lobby = pvpchan.NewManager(d.Redis, d.Games)
	d.Challenges = pvp.NewManager(d.Games, cfg.ChallengeTTL)
	logger.Info("pvp_ready",
		zap.String("redis_addr", opts.Addr),
		zap.Bool("archive", d.Archive != nil),
		zap.Duration("game_ttl", cfg.GameTTL),
	)
	return d, nil
}

// Close releases the Redis client and the archive database.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	if d.Archive != nil {
		errs = append(errs, d.Archive.Close())
	}
	return errors.Join(errs...)
}
