// Package app wires the dashboard together: configuration, logging and
// telemetry, the dataset, the session store, the dashboard service, the
// WebSocket hub and the chi router.
//
// # Lifecycle
//
//	cfg, _ := config.Load()
//	logger := infrastructure.MustInitializeLogger(cfg.Logging)
//	a, err := app.New(cfg, logger, web.FS)
//	if err != nil {
//	    // the dataset could not be loaded
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	err = a.Run(ctx)
//
// Run blocks until ctx is cancelled or the server fails. It then drains
// in-flight requests, closes every WebSocket and flushes telemetry.
package app
