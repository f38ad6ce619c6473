package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/p2c/internal/formatter"
	"github.com/desertthunder/p2c/internal/shared"
	"github.com/desertthunder/p2c/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Copy runs the interactive playlist-to-collection flow.
//
// Failures after startup are reported on the console and end the run with a nil error, matching the
// "..., exiting..." messages users see for each phase.
func (r *Runner) Copy(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("%w: unexpected arguments %v", shared.ErrInvalidArgument, cmd.Args().Slice())
	}

	s, err := r.start(cmd)
	if err != nil {
		return err
	}
	s.logger.Debug("starting copy run", "host", s.settings.Host, "playlist", s.settings.Playlist,
		"section", s.settings.Section, "collection", s.settings.Collection)

	r.writePlain("\n")
	if err := r.askToken(ctx, s); err != nil {
		if errors.Is(err, shared.ErrCancelled) {
			s.logger.Warn("no token entered, exiting")
			return nil
		}
		return err
	}

	client := r.newClient(s)
	if err := client.CheckConnection(ctx); err != nil {
		s.logger.Debug("connection check failed", "error", err)
		return r.writePlain("%s, exiting...\n", err.Error())
	}

	engine := tasks.NewEngine(client, s.selector, r.output, s.logger)
	result, err := engine.Run(ctx, tasks.CopyRequest{
		Playlist:   s.settings.Playlist,
		Section:    s.settings.Section,
		Collection: s.settings.Collection,
	})
	if err != nil {
		s.logger.Debug("copy run stopped", "error", err)
	}

	if path := cmd.String("report"); path != "" {
		if result == nil {
			s.logger.Warn("no items were merged, skipping report", "path", path)
			return nil
		}
		format, err := formatter.WriteReport(result, path)
		if err != nil {
			return err
		}
		s.logger.Info("report written", "path", path, "format", format)
	}
	return nil
}
