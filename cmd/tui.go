package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tevify/internal/audio"
	"github.com/desertthunder/tevify/internal/player"
	"github.com/desertthunder/tevify/internal/shared"
	"github.com/desertthunder/tevify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireCatalog(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	lib, err := r.openLibrary()
	if err != nil {
		return err
	}

	var engine player.Engine
	if r.config.Player.Audio && !cmd.Bool("no-audio") {
		// Audio downloads are bounded by the context, not the catalog timeout.
		engine = audio.NewBeepEngine(&http.Client{}, r.logger)
	} else {
		engine = audio.NewSilentEngine()
	}
	defer engine.Close()

	store := player.NewStore(player.WithVolume(r.config.Player.Volume))
	sync := player.NewSync(store, engine, r.logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	syncDone := make(chan error, 1)
	go func() { syncDone <- sync.Run(ctx) }()

	shared.WithLogger(r.logger, "session", store.SessionID()).Info("starting tui")
	model := ui.NewModel(ctx, r.browser, lib, store, ui.WithSync(sync), ui.WithLogger(r.logger))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, runErr := p.Run()
	cancel()
	if err := <-syncDone; err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("player stopped", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	return nil
}
