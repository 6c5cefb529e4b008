package clicmds

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	uuid "github.com/satori/go.uuid"
	"github.com/urfave/cli/v2"
	"gitlab.com/selene/fluent"
	"gitlab.com/selene/plugins/aria"
)

// run holds what a command needs once the browser is up
type run struct {
	ctx     context.Context
	browser *fluent.Browser
	close   func()
}

// start loads config, opens a session, navigates to --url and wraps it all
// in a Browser with the aria plugin
func start(c *cli.Context) (*run, error) {
	cfg, err := LoadConfig(c)
	if err != nil {
		return nil, err
	}

	target, err := resolve(cfg.BaseURL, c.String("url"))
	if err != nil {
		return nil, err
	}

	logger := log.With().Str("run_id", uuid.NewV4().String()).Logger()
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	ctx = logger.WithContext(ctx)

	if addr := c.String("metrics-addr"); addr != "" {
		serveMetrics(ctx, addr)
	}

	session, release, err := Open(ctx, cfg)
	if err != nil {
		stop()
		return nil, errors.Wrapf(err, "open %s session", cfg.Driver)
	}
	closer := func() {
		if err := release(); err != nil {
			logger.Warn().Err(err).Msg("failed to close session")
		}
		stop()
	}

	logger.Info().Str("url", target).Str("driver", string(cfg.Driver)).Msg("navigating")
	if err := session.Navigate(ctx, target); err != nil {
		closer()
		return nil, errors.Wrapf(err, "navigate %s", target)
	}

	return &run{
		ctx:     ctx,
		browser: fluent.New(session, cfg).Use(aria.New().Register),
		close:   closer,
	}, nil
}

func resolve(base, target string) (string, error) {
	if base == "" {
		return target, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrapf(err, "base url %s", base)
	}
	t, err := url.Parse(target)
	if err != nil {
		return "", errors.Wrapf(err, "url %s", target)
	}
	return b.ResolveReference(t).String(), nil
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Ctx(ctx).Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
}
