package app

import "go.trai.ch/tally/internal/core/ports"

// Components holds the resolved dependency graph of the CLI.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
	Tracer       ports.Tracer
}
