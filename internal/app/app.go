// Package app implements the application layer for tally.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/tally/internal/adapters/blobstore" //nolint:depguard // Wired in app layer
	"go.trai.ch/tally/internal/adapters/fixture"   //nolint:depguard // Wired in app layer
	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/core/ports"
	"go.trai.ch/tally/internal/engine/pager"
	"go.trai.ch/tally/internal/tui"
	"go.trai.ch/zerr"
)

const (
	// DemoEvents is the size of the built-in event set used when no fixture is configured.
	DemoEvents = 120
)

// demoEpoch is the date of the first built-in event.
var demoEpoch = time.Date(2026, time.January, 5, 18, 0, 0, 0, time.UTC)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
	clock        clockwork.Clock
	teaOptions   []tea.ProgramOption
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log ports.Logger, tracer ports.Tracer) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		tracer:       tracer,
		clock:        clockwork.NewRealClock(),
	}
}

// WithClock replaces the clock used by sessions. Used for testing.
func (a *App) WithClock(clock clockwork.Clock) *App {
	a.clock = clock
	return a
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// Options are the settings shared by every command.
type Options struct {
	ConfigPath string
	// LogLevel overrides the configured level when set.
	LogLevel string
	// JSON forces JSON log output.
	JSON bool
	// CacheDir overrides the configured cache directory when set.
	CacheDir string
}

// ListOptions configuration for the List method.
type ListOptions struct {
	Options
	Filter domain.Filter
	Page   int
}

// ListResult is one page of a listing together with the pagination state.
type ListResult struct {
	Records   []domain.Event
	State     domain.PaginationState
	Signature domain.FilterSignature
	// Total is the size of the full result set, when the source reports it.
	Total *int
}

// CacheReport describes the cache of the current configuration.
type CacheReport struct {
	Location string
	TTL      time.Duration
	Stats    domain.CacheStats
}

// InvalidateOptions selects what Invalidate removes. Exactly one field must be set.
type InvalidateOptions struct {
	Options
	Scope  string
	Key    string
	Prefix string
}

// levelSetter is implemented by loggers whose output can be reconfigured.
type levelSetter interface {
	SetLevel(name string)
	SetJSON(enable bool)
}

// OpenSession loads the configuration and restores the cache it points at.
// The caller must Close the session.
func (a *App) OpenSession(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.CacheDir != "" {
		cfg.Cache.Dir = opts.CacheDir
	}
	a.configureLogger(cfg.Log, opts)

	sess := NewSession(cfg, persisterFor(cfg.Cache), a.logger, a.clock)
	if err := sess.Open(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

func (a *App) configureLogger(cfg domain.LogConfig, opts Options) {
	l, ok := a.logger.(levelSetter)
	if !ok {
		return
	}
	level := cfg.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	l.SetLevel(level)
	l.SetJSON(cfg.JSON || opts.JSON)
}

func persisterFor(cfg domain.CacheConfig) ports.Persister {
	if cfg.Dir == "" {
		return blobstore.NewMemoryStore()
	}
	return blobstore.NewFileStore(cfg.Dir, cfg.Key)
}

func location(cfg domain.CacheConfig) string {
	if cfg.Dir == "" {
		return "memory"
	}
	return blobstore.NewFileStore(cfg.Dir, cfg.Key).Path()
}

// source returns the event source named by the configuration.
func source(cfg domain.SourceConfig) (ports.DataSource[domain.Event], error) {
	if cfg.Fixture == "" {
		return fixture.NewSource(fixture.Demo(DemoEvents, demoEpoch)), nil
	}
	src, err := fixture.LoadFile(cfg.Fixture)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open event source")
	}
	return src, nil
}

func (a *App) controller(sess *Session, filter domain.Filter) (*pager.Controller[domain.Event], error) {
	if filter.Scope == "" {
		filter.Scope = domain.EventScope
	}
	if filter.Scope != domain.EventScope {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownScope, "no source serves scope"), "scope", filter.Scope)
	}
	cfg := sess.Config()
	src, err := source(cfg.Source)
	if err != nil {
		return nil, err
	}
	return pager.NewController(src, sess.Store(), sess.Registry(), a.tracer, pager.Options{
		PageSize: cfg.Pagination.PageSize,
		TTL:      cfg.Cache.DefaultTTL,
	}, filter), nil
}

// List loads one page of events.
//
// Pages past the first are reached the way a list view reaches them: the first
// page is loaded to learn the page count, then the view jumps to the target.
func (a *App) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	sess, err := a.OpenSession(ctx, opts.Options)
	if err != nil {
		return ListResult{}, err
	}
	defer func() { _ = sess.Close(ctx) }()

	ctrl, err := a.controller(sess, opts.Filter)
	if err != nil {
		return ListResult{}, err
	}

	page, err := ctrl.Load(ctx)
	if err != nil {
		return ListResult{}, err
	}

	if opts.Page > 1 {
		if !ctrl.GoToSpecificPage(opts.Page) {
			return ListResult{}, zerr.With(zerr.With(zerr.Wrap(domain.ErrPageOutOfRange, "cannot list page"),
				"page", opts.Page), "total_pages", ctrl.TotalPages())
		}
		if page, err = ctrl.Load(ctx); err != nil {
			return ListResult{}, err
		}
	}

	return ListResult{
		Records:   page.Records,
		State:     ctrl.State(),
		Signature: ctrl.Signature(),
		Total:     page.TotalCount,
	}, nil
}

// Browse opens the interactive list view.
func (a *App) Browse(ctx context.Context, opts ListOptions) error {
	sess, err := a.OpenSession(ctx, opts.Options)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	ctrl, err := a.controller(sess, opts.Filter)
	if err != nil {
		return err
	}

	model := tui.NewModel(ctx, ctrl)
	progOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil {
		return zerr.Wrap(err, "list view failed")
	}
	return nil
}

// CacheStats reports the contents of the configured cache.
func (a *App) CacheStats(ctx context.Context, opts Options) (CacheReport, error) {
	sess, err := a.OpenSession(ctx, opts)
	if err != nil {
		return CacheReport{}, err
	}
	defer func() { _ = sess.Close(ctx) }()

	stats, err := sess.Stats()
	if err != nil {
		return CacheReport{}, err
	}
	cfg := sess.Config().Cache
	return CacheReport{Location: location(cfg), TTL: cfg.DefaultTTL, Stats: stats}, nil
}

// ClearCache drops every cached entry and the persisted blob.
func (a *App) ClearCache(ctx context.Context, opts Options) error {
	sess, err := a.OpenSession(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	if err := sess.Clear(ctx); err != nil {
		return err
	}
	a.logger.Info("cache cleared")
	return nil
}

// Invalidate removes part of the cache.
func (a *App) Invalidate(ctx context.Context, opts InvalidateOptions) (InvalidateResult, error) {
	set := 0
	for _, v := range []string{opts.Scope, opts.Key, opts.Prefix} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return InvalidateResult{}, domain.ErrInvalidTarget
	}

	sess, err := a.OpenSession(ctx, opts.Options)
	if err != nil {
		return InvalidateResult{}, err
	}
	defer func() { _ = sess.Close(ctx) }()

	switch {
	case opts.Scope != "":
		return sess.InvalidateScope(ctx, opts.Scope)
	case opts.Key != "":
		return sess.InvalidateKey(ctx, opts.Key)
	default:
		return sess.InvalidatePrefix(ctx, opts.Prefix)
	}
}

// SignOut ends the session and clears everything it cached.
func (a *App) SignOut(ctx context.Context, opts Options) error {
	sess, err := a.OpenSession(ctx, opts)
	if err != nil {
		return err
	}
	return sess.SignOut(ctx)
}
