package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-theme"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdoc/internal/config"
	"github.com/goliatone/go-formdoc/internal/service"
	"github.com/goliatone/go-formdoc/internal/store/sqlite"
	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/orchestrator"
	"github.com/goliatone/go-formdoc/pkg/renderers/tui"
	"github.com/goliatone/go-formdoc/pkg/store/memory"
	"github.com/goliatone/go-formdoc/pkg/widgets"
)

// Option customises the command tree. Tests use it to inject a service and a
// scripted prompt driver.
type Option func(*runtime)

// WithService skips config-driven wiring and uses svc for every command.
func WithService(svc *service.Service) Option {
	return func(rt *runtime) {
		rt.service = svc
	}
}

// WithPromptDriver replaces the survey driver used by fill.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(rt *runtime) {
		rt.driver = driver
	}
}

// WithLogger sets the logger used when a service is injected.
func WithLogger(logger *zap.Logger) Option {
	return func(rt *runtime) {
		rt.logger = logger
	}
}

type runtime struct {
	version    string
	buildDate  string
	configPath string

	cfg     config.Config
	loaded  bool
	logger  *zap.Logger
	service *service.Service
	driver  tui.PromptDriver
	closers []func() error
}

func (rt *runtime) config() (config.Config, error) {
	if rt.loaded {
		return rt.cfg, nil
	}
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return config.Config{}, err
	}
	rt.cfg = cfg
	rt.loaded = true
	return cfg, nil
}

// Service returns the configured service, building the store, logger and
// orchestrator on first use.
func (rt *runtime) Service(ctx context.Context) (*service.Service, error) {
	if rt.service != nil {
		return rt.service, nil
	}
	cfg, err := rt.config()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	rt.logger = logger
	rt.closers = append(rt.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	orchOpts := []orchestrator.Option{
		orchestrator.WithDecorators(widgets.NewRegistry()),
	}
	if cfg.Theme.Manifest != "" {
		manifest, err := loadManifest(cfg.Theme.Manifest)
		if err != nil {
			return nil, err
		}
		orchOpts = append(orchOpts, orchestrator.WithThemeManifest(manifest, cfg.Theme.Variant))
	}
	if cfg.Form.Preset != "" {
		data, err := os.ReadFile(cfg.Form.Preset)
		if err != nil {
			return nil, fmt.Errorf("cli: read form preset: %w", err)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		orchOpts = append(orchOpts, orchestrator.WithSchemaTransformer(preset))
	}
	if cfg.Form.HumanizeLabels {
		builder := model.NewBuilder(model.WithLabeler(model.DefaultLabeler))
		orchOpts = append(orchOpts, orchestrator.WithModelBuilder(builder))
	}
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithOrchestrator(orchestrator.New(orchOpts...)),
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		rt.service = service.New(memory.NewTemplates(), memory.NewSubmissions(), opts...)
	case config.DriverSQLite:
		repo, err := sqlite.New(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("cli: open store: %w", err)
		}
		rt.closers = append(rt.closers, repo.Close)
		rt.service = service.New(repo.Templates(), repo.Submissions(), opts...)
	default:
		return nil, fmt.Errorf("cli: unknown store driver %q", cfg.Store.Driver)
	}

	logger.Debug("service ready",
		zap.String("store", cfg.Store.Driver),
		zap.String("theme", cfg.Theme.Manifest),
	)
	return rt.service, nil
}

func (rt *runtime) Logger() *zap.Logger {
	if rt.logger == nil {
		return zap.NewNop()
	}
	return rt.logger
}

func (rt *runtime) Close() error {
	var first error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	rt.closers = nil
	return first
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("cli: log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func loadManifest(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read theme manifest: %w", err)
	}
	var manifest theme.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("cli: parse theme manifest %s: %w", path, err)
	}
	return &manifest, nil
}
