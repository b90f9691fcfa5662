package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"assetgrip/internal/backend"
	"assetgrip/internal/config"
	"assetgrip/internal/eventbus"
	"assetgrip/internal/logger"
	"assetgrip/internal/prefs"
	"assetgrip/internal/ui"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	ConfigPath string
	Backend    string
	Demo       bool
	PageSize   int
	LogLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "assetgrip",
		Short: "Browse and edit game client assets in the terminal.",
		Long: `assetgrip pages through the objects, outfits, effects, missiles and sounds
of a game client. Appearances can be selected, deleted, duplicated, exported
and have their flags copied between each other.`,
		Example: `
assetgrip --demo
assetgrip --backend http://127.0.0.1:7878
assetgrip list Objects --search sword
`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Config file (default "+filepath.Join(config.Dir(), config.FileName)+").")
	flags.StringVar(&opts.Backend, "backend", "", "Backend bridge URL, overrides the config file.")
	flags.BoolVar(&opts.Demo, "demo", false, "Serve a generated in-memory catalog instead of a backend.")
	flags.IntVar(&opts.PageSize, "page-size", 0, "Items per page, overrides the config file.")
	flags.StringVar(&opts.LogLevel, "log-level", "", "One of debug, info, warn or error.")

	cmd.AddCommand(newListCommand(opts))
	addVersion(cmd)
	return cmd
}

// load reads the config file and applies flag overrides on top of it
func (o *rootOptions) load(bus eventbus.EventBus) (config.ConfigService, *config.Config, error) {
	svc := config.NewConfigServiceWithBus(bus)
	if o.ConfigPath != "" {
		svc = config.NewConfigServiceAt(o.ConfigPath, bus)
	}
	cfg, err := svc.Load()
	if err != nil {
		return nil, nil, err
	}

	if o.Backend != "" {
		cfg.Backend.URL = o.Backend
		cfg.Backend.Demo = false
	}
	if o.Demo {
		cfg.Backend.Demo = true
	}
	if o.PageSize > 0 {
		cfg.Browse.PageSize = o.PageSize
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	return svc, cfg, nil
}

func newClient(cfg *config.Config) *backend.Client {
	if cfg.Backend.Demo {
		logger.Info("using demo catalog")
		return backend.NewClient(backend.NewDemoCatalog())
	}
	logger.Info("using backend bridge", zap.String("url", cfg.Backend.URL))
	return backend.NewClient(backend.NewHTTPInvoker(cfg.Backend.URL, cfg.Backend.Timeout()))
}

func runUI(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	svc, cfg, err := opts.load(bus)
	if err != nil {
		return err
	}

	logFile := config.ExpandPath(cfg.Log.File)
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}
	if err := logger.Init(cfg.Log.Level, logFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	store := prefs.Open(filepath.Join(config.Dir(), "prefs"))
	model := ui.NewModel(bus, cfg, newClient(cfg), store)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Forward domain events to the UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warn("event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventError,
		eventbus.EventCountsLoaded,
		eventbus.EventConfigChanged,
		eventbus.EventAssetsDeleted,
		eventbus.EventAssetsDuplicated,
	} {
		unsubscribe := bus.Subscribe(t, forward)
		defer unsubscribe()
	}
	go func() {
		for {
			select {
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			case <-ctx.Done():
				return
			}
		}
	}()

	watcher, err := config.Watch(svc, bus)
	if err != nil {
		logger.Warn("config file will not be watched", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	logger.Info("starting UI")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("error running program", zap.Error(err))
		return err
	}
	logger.Info("UI exited normally")
	return nil
}
