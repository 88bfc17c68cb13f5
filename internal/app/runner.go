package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/multiservicios-web/valida-curp-go/internal/config"
	"github.com/multiservicios-web/valida-curp-go/internal/logger"
	"github.com/multiservicios-web/valida-curp-go/internal/metrics"
	"github.com/multiservicios-web/valida-curp-go/internal/storage"
	"github.com/multiservicios-web/valida-curp-go/pkg/httpclient"
	"github.com/multiservicios-web/valida-curp-go/pkg/validacurp"
	"github.com/prometheus/client_golang/prometheus"
)

// Runner executes CLI commands against the valida-curp API. It owns the
// client, the entity cache and the metrics registry.
type Runner struct {
	cfg      *config.Config
	client   *validacurp.Client
	store    storage.Store
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	log      logger.Logger
	out      io.Writer
}

// NewRunner builds a runner from config. Output is written to out (stdout when nil).
func NewRunner(cfg *config.Config, log logger.Logger, out io.Writer) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if out == nil {
		out = os.Stdout
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	transport := httpclient.NewRestyClientWithOptions(httpclient.Options{
		Timeout:   cfg.RequestTimeout,
		UserAgent: cfg.AppName + "/" + validacurp.LibraryVersion,
	})

	opts := []validacurp.Option{
		validacurp.WithHTTPClient(transport),
		validacurp.WithLogger(log),
		validacurp.WithObserver(m),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, validacurp.WithEndpoint(cfg.Endpoint))
	}
	client := validacurp.New(cfg.Token, opts...)
	if err := client.SetVersion(cfg.APIVersion); err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.CacheType, cfg.CachePath, storage.Options{
		TTL:             cfg.CacheTTL,
		CleanupInterval: cfg.CacheCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	log.DebugObj("runner ready", "runner_meta", map[string]any{
		"api_version": client.Version(),
		"endpoint":    client.Endpoint(),
		"cache_type":  cfg.CacheType,
	})

	return &Runner{
		cfg:      cfg,
		client:   client,
		store:    store,
		metrics:  m,
		registry: registry,
		log:      log,
		out:      out,
	}, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r == nil || r.store == nil {
		return nil
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err)
		return err
	}
	return nil
}

// Validate prints the structure check of curp.
func (r *Runner) Validate(ctx context.Context, curp string) error {
	return r.print(r.client.IsValid(ctx, curp))
}

// Data prints the registry data of curp.
func (r *Runner) Data(ctx context.Context, curp string) error {
	return r.print(r.client.GetData(ctx, curp))
}

// Calculate prints the CURP calculated from in.
func (r *Runner) Calculate(ctx context.Context, in validacurp.CalculationInput) error {
	return r.print(r.client.Calculate(ctx, in))
}

// Entities prints the entity catalog, served from cache when possible.
func (r *Runner) Entities(ctx context.Context) error {
	return r.print(r.entities(ctx))
}

// entities wraps GetEntities with the response cache. The catalog is static,
// so it is the only answer worth keeping.
func (r *Runner) entities(ctx context.Context) (json.RawMessage, error) {
	key := fmt.Sprintf("entities:v%d:%s", r.client.Version(), r.client.Endpoint())

	cached, ok, err := r.store.Get(key)
	if err != nil {
		r.log.WarnObj("cache read failed", "cache_error", map[string]any{"key": key, "error": err.Error()})
	} else if ok {
		r.log.DebugObj("entities served from cache", "cache_hit", key)
		return json.RawMessage(cached), nil
	}

	raw, err := r.client.GetEntities(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(key, raw); err != nil {
		r.log.WarnObj("cache write failed", "cache_error", map[string]any{"key": key, "error": err.Error()})
	}
	return raw, nil
}

// print writes raw as indented JSON.
func (r *Runner) print(raw json.RawMessage, err error) error {
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err = r.out.Write(buf.Bytes())
	return err
}
