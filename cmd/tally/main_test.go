package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tally/internal/adapters/telemetry"
	"go.trai.ch/tally/internal/app"
	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func provide(application *app.App, log *mocks.MockLogger) ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: log}, func() {}, nil
	}
}

func TestRun_Version(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	application := app.New(mocks.NewMockConfigLoader(ctrl), log, telemetry.NewNoOpTracer())

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provide(application, log))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "tally version dev")
}

func TestRun_ListPrintsTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	loader := mocks.NewMockConfigLoader(ctrl)
	cfg := domain.DefaultConfig()
	cfg.Cache.Dir = ""
	loader.EXPECT().Load("custom.yaml").Return(cfg, nil)
	application := app.New(loader, log, telemetry.NewNoOpTracer())

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"list", "--config", "custom.yaml", "--page", "2"},
		stdout, new(bytes.Buffer), provide(application, log))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "2026-01-15")
	assert.Contains(t, stdout.String(), "Security conference #2")
	assert.Contains(t, stdout.String(), "page 2 of 12")
}

func TestRun_CommandErrorIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	loader := mocks.NewMockConfigLoader(ctrl)
	boom := errors.New("boom")
	loader.EXPECT().Load(gomock.Any()).Return(domain.Config{}, boom)
	application := app.New(loader, log, telemetry.NewNoOpTracer())

	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, boom)
	})

	exitCode := run(context.Background(), []string{"cache", "stats"}, new(bytes.Buffer), new(bytes.Buffer), provide(application, log))
	assert.Equal(t, 1, exitCode)
}

func TestRun_ProviderFailure(t *testing.T) {
	stderr := new(bytes.Buffer)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("graph failed")
	}

	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "Error: graph failed\n", stderr.String())
}
