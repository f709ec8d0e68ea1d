package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"showreel/internal/config"
	"showreel/internal/domain"
	"showreel/internal/eventbus"
	"showreel/internal/source"
)

// configService picks the config file from --config or the user config dir
func configService() config.ConfigService {
	if configPath != "" {
		return config.NewConfigServiceAt(configPath)
	}
	return config.NewConfigService()
}

// loadConfig reads the config file and applies command line overrides. A
// positional argument is a YAML source path.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := configService().Load()
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		applySource(cfg, args[0])
	}
	if sourceFlag != "" {
		applySource(cfg, sourceFlag)
	}
	flags := cmd.Flags()
	if flags.Changed("collection") {
		cfg.Source.Collection = collectionFlag
	}
	if flags.Changed("interval") {
		cfg.Autoplay.Interval = intervalFlag.String()
	}
	if flags.Changed("no-autoplay") {
		cfg.Autoplay.Enabled = !noAutoplay
	}
	if flags.Changed("watch") {
		cfg.Source.Watch = watchFlag
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// applySource points cfg at s: sqlite:<file>, an http(s) URL or a YAML path
func applySource(cfg *config.Config, s string) {
	switch {
	case strings.HasPrefix(s, "sqlite:"):
		cfg.Source.Kind = "sqlite"
		cfg.Source.DSN = strings.TrimPrefix(s, "sqlite:")
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		cfg.Source.Kind = "http"
		cfg.Source.URL = s
	default:
		cfg.Source.Kind = "file"
		cfg.Source.Path = s
	}
}

// logEvents writes carousel events to the log
func logEvents(bus eventbus.EventBus, logger *zap.Logger) {
	logger = logger.Named("events")
	bus.Subscribe(eventbus.EventItemsLoaded, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ItemsLoadedEvent); ok {
			logger.Info("items loaded",
				zap.String("source", event.Source),
				zap.Int("count", event.Count),
				zap.Int("active", event.Active))
		}
	})
	bus.Subscribe(eventbus.EventSourceFailed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SourceFailedEvent); ok {
			logger.Warn("source failed", zap.String("source", event.Source), zap.Error(event.Err))
		}
	})
	bus.Subscribe(eventbus.EventActiveChanged, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ActiveChangedEvent); ok {
			logger.Debug("active changed",
				zap.Int("index", event.Index),
				zap.Int("previous", event.Previous),
				zap.String("direction", event.Direction),
				zap.String("trigger", string(event.Trigger)))
		}
	})
	bus.Subscribe(eventbus.EventAutoplayChanged, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.AutoplayChangedEvent); ok {
			logger.Debug("autoplay changed", zap.String("state", event.State))
		}
	})
}

// newWatcher returns a watcher for a YAML source when watching is on
func newWatcher(cfg *config.Config, src source.Source, logger *zap.Logger, bus eventbus.EventBus, onChange func([]domain.DisplayItem)) *source.Watcher {
	fs, ok := src.(*source.FileSource)
	if !ok || !cfg.Source.Watch {
		return nil
	}
	return &source.Watcher{
		Path:     fs.Path(),
		Source:   src,
		OnChange: onChange,
		Logger:   logger,
		Bus:      bus,
	}
}
