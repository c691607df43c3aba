package internal

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/anvil/pkg/hostrouter"
	"github.com/dmitrymomot/anvil/pkg/queue"
)

// Run serves one or more Apps keyed by host pattern and blocks until
// shutdown. Job workers configured on any of the apps start before the
// first request and drain with the server.
//
//	api := anvil.New(anvil.WithRoutes(apiRoutes))
//	website := anvil.New(anvil.WithRoutes(webRoutes))
//
//	err := anvil.Run(
//	    anvil.Domain("api.acme.com", api),
//	    anvil.Domain("*.acme.com", website),
//	    anvil.Address(":8080"),
//	    anvil.Logger(slog),
//	)
func Run(opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	handler, apps, err := assembleHandler(cfg)
	if err != nil {
		return err
	}

	// One worker manager can back several apps; start each once.
	startupHooks := cfg.startupHooks
	shutdownHooks := cfg.shutdownHooks
	seen := make(map[*queue.Manager]bool)
	for _, app := range apps {
		w := app.Worker()
		if w == nil || seen[w] {
			continue
		}
		seen[w] = true
		startupHooks = append([]func(context.Context) error{w.StartFunc()}, startupHooks...)
		shutdownHooks = append(shutdownHooks, w.Shutdown())
	}

	return runServer(runtimeConfig{
		handler:         handler,
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    startupHooks,
		shutdownHooks:   shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// assembleHandler composes the top-level handler and reports every App it
// serves. Without domains the fallback serves everything; without either,
// there is nothing to run.
func assembleHandler(cfg *runConfig) (http.Handler, []*App, error) {
	if len(cfg.domains) == 0 {
		if cfg.fallback == nil {
			return nil, nil, errors.New("anvil.Run: no domains or fallback configured")
		}
		return cfg.fallback, []*App{cfg.fallback}, nil
	}

	apps := make([]*App, 0, len(cfg.domains)+1)
	routes := make(hostrouter.Routes, len(cfg.domains))
	for pattern, app := range cfg.domains {
		routes[pattern] = app
		apps = append(apps, app)
	}

	var fallback http.Handler = http.NotFoundHandler()
	if cfg.fallback != nil {
		fallback = cfg.fallback
		apps = append(apps, cfg.fallback)
	}

	return hostrouter.New(routes, fallback), apps, nil
}
