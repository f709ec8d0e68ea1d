package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"showreel/internal/eventbus"
	"showreel/internal/logging"
	"showreel/internal/source"
	"showreel/internal/ui"
)

var (
	configPath     string
	sourceFlag     string
	collectionFlag string
	intervalFlag   time.Duration
	noAutoplay     bool
	watchFlag      bool
	logLevel       string
)

var rootCmd = &cobra.Command{
	Use:   "showreel [portfolio.yaml]",
	Short: "Portfolio carousel for the terminal",
	Long: `showreel cycles through portfolio projects or certificates as a
carousel, advancing on its own until you hover, drag or type.

Items come from a YAML file, a SQLite database or a portfolio HTTP API.
Run "showreel serve" to drive browser clients over a websocket instead.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: showreel/showreel.toml in the user config dir)")
	rootCmd.PersistentFlags().StringVarP(&sourceFlag, "source", "s", "", "Item source: a YAML path, sqlite:<file> or an http(s) base URL")
	rootCmd.PersistentFlags().StringVar(&collectionFlag, "collection", "", "Collection to show: projects, certificates or all")
	rootCmd.PersistentFlags().DurationVar(&intervalFlag, "interval", 0, "Autoplay interval (e.g. 5s)")
	rootCmd.PersistentFlags().BoolVar(&noAutoplay, "no-autoplay", false, "Start with autoplay off")
	rootCmd.PersistentFlags().BoolVarP(&watchFlag, "watch", "w", false, "Reload when the YAML source changes")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	// The program owns the terminal, so logs go to a file
	logger, flush, err := logging.New(cfg.Logging, true)
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

	model, err := ui.NewModel(ui.Options{
		Config: cfg,
		Source: src,
		Bus:    bus,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	model.SetProgram(p)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	if w := newWatcher(cfg, src, logger, bus, model.Reload); w != nil {
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				logger.Warn("file watcher stopped", zap.Error(err))
			}
			return nil
		})
	}
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	logger.Info("starting UI", zap.String("source", src.Name()))
	_, runErr := p.Run()
	model.Close()
	stop()
	_ = g.Wait()

	if runErr != nil {
		logger.Error("program failed", zap.Error(runErr))
		return fmt.Errorf("error running program: %w", runErr)
	}
	logger.Info("UI exited normally")
	return nil
}
