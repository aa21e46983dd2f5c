package app_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tally/internal/adapters/telemetry"
	"go.trai.ch/tally/internal/app"
	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type testApp struct {
	app    *app.App
	log    *mocks.MockLogger
	loader *mocks.MockConfigLoader
	cfg    domain.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)

	cfg := domain.DefaultConfig()
	cfg.Cache.Dir = t.TempDir()
	loader.EXPECT().Load(gomock.Any()).Return(cfg, nil).AnyTimes()

	a := app.New(loader, log, telemetry.NewNoOpTracer()).WithClock(clockwork.NewFakeClock())
	return &testApp{app: a, log: log, loader: loader, cfg: cfg}
}

func ids(events []domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}

func TestApp_List_FirstPage(t *testing.T) {
	ta := newTestApp(t)

	res, err := ta.app.List(context.Background(), app.ListOptions{
		Filter: domain.Filter{SortField: "date"},
	})
	require.NoError(t, err)

	assert.Len(t, res.Records, 10)
	assert.Equal(t, "evt-0001", res.Records[0].ID)
	assert.Equal(t, 1, res.State.CurrentPage)
	assert.Equal(t, 12, res.State.TotalPages)
	require.NotNil(t, res.Total)
	assert.Equal(t, app.DemoEvents, *res.Total)
	assert.Equal(t, domain.Filter{Scope: domain.EventScope, SortField: "date"}.Signature(), res.Signature)
}

func TestApp_List_JumpsToPage(t *testing.T) {
	ta := newTestApp(t)

	res, err := ta.app.List(context.Background(), app.ListOptions{
		Filter: domain.Filter{SortField: "date"},
		Page:   5,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"evt-0041", "evt-0042", "evt-0043", "evt-0044", "evt-0045",
		"evt-0046", "evt-0047", "evt-0048", "evt-0049", "evt-0050",
	}, ids(res.Records))
	assert.Equal(t, 5, res.State.CurrentPage)
	assert.False(t, res.State.HasPendingJump())
}

func TestApp_List_PersistsPages(t *testing.T) {
	ta := newTestApp(t)
	ctx := context.Background()

	_, err := ta.app.List(ctx, app.ListOptions{Filter: domain.Filter{SortField: "date"}, Page: 3})
	require.NoError(t, err)

	report, err := ta.app.CacheStats(ctx, app.Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ta.cfg.Cache.Dir, domain.DefaultCacheKey+".json"), report.Location)
	assert.Equal(t, domain.DefaultCacheTTL, report.TTL)

	sig := domain.Filter{Scope: domain.EventScope, SortField: "date"}.Signature()
	assert.Equal(t, []string{sig.PageKey(1), sig.PageKey(2), sig.PageKey(3)}, report.Stats.Keys)
}

func TestApp_List_Errors(t *testing.T) {
	ta := newTestApp(t)
	ctx := context.Background()

	_, err := ta.app.List(ctx, app.ListOptions{Page: 13})
	require.ErrorIs(t, err, domain.ErrPageOutOfRange)

	_, err = ta.app.List(ctx, app.ListOptions{Filter: domain.Filter{Scope: "attendees"}})
	require.ErrorIs(t, err, domain.ErrUnknownScope)
}

func TestApp_List_ConfigFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	boom := errors.New("boom")
	loader.EXPECT().Load("broken.yaml").Return(domain.Config{}, boom)

	a := app.New(loader, mocks.NewMockLogger(ctrl), telemetry.NewNoOpTracer())
	_, err := a.List(context.Background(), app.ListOptions{Options: app.Options{ConfigPath: "broken.yaml"}})
	require.ErrorIs(t, err, boom)
}

func TestApp_List_MemoryCacheWhenNoDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	cfg := domain.DefaultConfig()
	cfg.Cache.Dir = ""
	loader.EXPECT().Load(gomock.Any()).Return(cfg, nil).Times(2)

	a := app.New(loader, mocks.NewMockLogger(ctrl), telemetry.NewNoOpTracer())
	ctx := context.Background()
	_, err := a.List(ctx, app.ListOptions{})
	require.NoError(t, err)

	report, err := a.CacheStats(ctx, app.Options{})
	require.NoError(t, err)
	assert.Equal(t, "memory", report.Location)
	assert.Equal(t, 0, report.Stats.Entries, "memory caches do not outlive the session")
}

func TestApp_Invalidate(t *testing.T) {
	ta := newTestApp(t)
	ctx := context.Background()
	_, err := ta.app.List(ctx, app.ListOptions{Page: 2})
	require.NoError(t, err)

	_, err = ta.app.Invalidate(ctx, app.InvalidateOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidTarget)
	_, err = ta.app.Invalidate(ctx, app.InvalidateOptions{Scope: "events", Key: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidTarget)

	res, err := ta.app.Invalidate(ctx, app.InvalidateOptions{Scope: domain.EventScope})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Keys)

	report, err := ta.app.CacheStats(ctx, app.Options{})
	require.NoError(t, err)
	assert.Empty(t, report.Stats.Keys)
}

func TestApp_ClearCacheAndSignOut(t *testing.T) {
	ta := newTestApp(t)
	ctx := context.Background()

	_, err := ta.app.List(ctx, app.ListOptions{})
	require.NoError(t, err)
	ta.log.EXPECT().Info("cache cleared")
	require.NoError(t, ta.app.ClearCache(ctx, app.Options{}))

	_, err = ta.app.List(ctx, app.ListOptions{})
	require.NoError(t, err)
	ta.log.EXPECT().Info("signed out, cache cleared")
	require.NoError(t, ta.app.SignOut(ctx, app.Options{}))

	report, err := ta.app.CacheStats(ctx, app.Options{})
	require.NoError(t, err)
	assert.Zero(t, report.Stats.Entries)
}

func TestApp_CacheDirOverride(t *testing.T) {
	ta := newTestApp(t)
	dir := t.TempDir()

	report, err := ta.app.CacheStats(context.Background(), app.Options{CacheDir: dir})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(report.Location, dir))
}

func TestApp_Browse_QuitsOnKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	cfg := domain.DefaultConfig()
	cfg.Cache.Dir = ""
	loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)

	a := app.New(loader, mocks.NewMockLogger(ctrl), telemetry.NewNoOpTracer()).
		WithTeaOptions(
			tea.WithInput(strings.NewReader("q")),
			tea.WithOutput(io.Discard),
		)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, a.Browse(ctx, app.ListOptions{}))
}
