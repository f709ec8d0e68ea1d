package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"showreel/internal/animator"
	"showreel/internal/domain"
	"showreel/internal/eventbus"
	"showreel/internal/logging"
	"showreel/internal/server"
	"showreel/internal/source"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve [portfolio.yaml]",
	Short: "Drive browser carousels over a websocket",
	Long: `serve runs the carousel on the server and streams its state to
websocket clients. Every connected client sees the same carousel; clients
send next, prev, goto, hover and autoplay commands.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if addrFlag != "" {
		cfg.Server.Addr = addrFlag
	}

	logger, flush, err := logging.New(cfg.Logging, false)
	if err != nil {
		return err
	}
	defer flush()

	bus := eventbus.New(logger)
	defer bus.Close()
	logEvents(bus, logger)

	src, err := source.New(cfg.Source)
	if err != nil {
		return err
	}
	defer source.Close(src)

	interval, err := cfg.AutoplayInterval()
	if err != nil {
		return err
	}
	timing, err := cfg.Timing()
	if err != nil {
		return err
	}
	timeout, err := cfg.SourceTimeout()
	if err != nil {
		return err
	}

	loop := server.NewLoop(server.LoopOptions{
		Source:   src.Name(),
		Interval: interval,
		Autoplay: cfg.Autoplay.Enabled,
		Planner:  animator.Planner{Table: animator.DefaultTable(), Timing: timing},
		Bus:      bus,
		Logger:   logger,
	})
	srv := server.New(cfg.Server.Addr, cfg.Server.Path, loop, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })
	g.Go(func() error {
		fetchCtx, cancel := context.WithTimeout(gctx, timeout)
		defer cancel()
		loop.Reload(source.Load(fetchCtx, src, logger, bus))
		return nil
	})
	reload := func(items []domain.DisplayItem) { loop.Reload(items) }
	if w := newWatcher(cfg, src, logger, bus, reload); w != nil {
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				logger.Warn("file watcher stopped", zap.Error(err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
