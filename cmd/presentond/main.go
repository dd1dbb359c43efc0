/*
Command presentond serves presentation exports over HTTP.

It is configured through environment variables, see package config. On
SIGINT or SIGTERM it stops accepting requests, waits for running requests
and shuts the browser down.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuishuai123/presenton/backend"
	"github.com/cuishuai123/presenton/browser"
	"github.com/cuishuai123/presenton/config"
	"github.com/cuishuai123/presenton/export"
	"github.com/cuishuai123/presenton/ledger"
	"github.com/cuishuai123/presenton/server"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton'.
func tracer() tracing.Trace {
	return tracing.Select("presenton")
}

func main() {
	if err := run(); err != nil {
		tracer().Errorf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	env := config.Environment()
	env.InitDefaults()
	cfg, err := config.From(env)
	if err != nil {
		return err
	}
	config.SetupTracing(env, cfg.TraceLevel)
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	opts := browser.DefaultOptions()
	opts.ExecPath = cfg.ChromePath
	opts.Width, opts.Height = int(cfg.Paginate.Width), int(cfg.Paginate.Height)
	opts.Retries = cfg.NavigationRetries
	b, err := browser.Launch(context.WithoutCancel(ctx), opts)
	if err != nil {
		return err
	}
	defer b.Close()
	var options []export.Option
	var history server.History
	if cfg.Ledger != "" {
		l, err := ledger.Open(cfg.Ledger)
		if err != nil {
			return err
		}
		defer l.Close()
		options = append(options, export.WithLedger(l))
		history = l
	}
	hub := server.NewHub()
	defer hub.Close()
	options = append(options, export.WithSink(hub))
	svc := export.New(cfg, backend.New(cfg.BackendURL, nil), browser.Tabs{Browser: b, Base: cfg.FrontendURL}, options...)
	//
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(svc, history, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}
	failed := make(chan error, 1)
	go func() {
		tracer().Infof("listening on %s, front-end %s, backend %s", cfg.Addr, cfg.FrontendURL, cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()
	select {
	case err := <-failed:
		return err
	case <-ctx.Done():
	}
	tracer().Infof("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
