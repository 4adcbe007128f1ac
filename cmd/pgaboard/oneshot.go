package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	displayservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/application"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/infrastructure/matrix"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard"
	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/export"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
	"github.com/urfave/cli/v2"
)

// refresh builds a standalone leaderboard module and runs one forced update.
func refresh(ctx context.Context, cfg *config.Config, obs observability.Observability) (*leaderboard.Module, leaderboardservice.UpdateOutcome, error) {
	module, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, leaderboard.Deps{})
	if err != nil {
		return nil, "", err
	}
	outcome, err := module.LeaderboardService.ForceUpdate(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	return module, outcome, nil
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "fetch the leaderboard once and print it",
		Action: func(c *cli.Context) error {
			ctx := contextOrBackground(c)
			cfg, obs, err := setup(c, true)
			if err != nil {
				return err
			}
			module, outcome, err := refresh(ctx, cfg, obs)
			if err != nil {
				return err
			}
			defer module.Close()

			return printSnapshot(c.App.Writer, outcome, module.LeaderboardService.Snapshot())
		},
	}
}

func printSnapshot(w io.Writer, outcome leaderboardservice.UpdateOutcome, snap leaderboardservice.Snapshot) error {
	if snap.Tournament == nil {
		_, err := fmt.Fprintf(w, "No PGA Tour tournaments (%s)\n", outcome)
		return err
	}

	fmt.Fprintf(w, "%s [%s]\n", export.Title(snap), snap.Tournament.Status)
	if snap.Tournament.Detail != "" {
		fmt.Fprintln(w, snap.Tournament.Detail)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tPLAYER\tSCORE\tSTATUS")
	for _, p := range snap.Players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Position, p.Name, p.Score, p.Status)
	}
	return tw.Flush()
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "fetch the leaderboard once and render a single frame to PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "frame.png", Usage: "output file"},
			&cli.BoolFlag{Name: "static", Usage: "render the static layout instead of the ticker"},
		},
		Action: func(c *cli.Context) error {
			ctx := contextOrBackground(c)
			cfg, obs, err := setup(c, true)
			if err != nil {
				return err
			}
			if c.Bool("static") {
				cfg.Plugin.DisplayMode = config.DisplayModeStatic
			}

			module, _, err := refresh(ctx, cfg, obs)
			if err != nil {
				return err
			}
			defer module.Close()

			fb := matrix.NewFramebuffer(cfg.Matrix.Width, cfg.Matrix.Height)
			svc := displayservice.NewDisplayService(cfg.Plugin, fb, module.LeaderboardService,
				obs.Provider.Logger, obs.Registry.DisplayMetrics, obs.Registry.Tracer)
			if err := svc.Display(ctx, true); err != nil {
				return fmt.Errorf("failed to render frame: %w", err)
			}

			data, err := fb.PNG()
			if err != nil {
				return err
			}
			if err := os.WriteFile(c.String("out"), data, 0o644); err != nil {
				return fmt.Errorf("failed to write frame: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "wrote %s (%dx%d)\n", c.String("out"), cfg.Matrix.Width, cfg.Matrix.Height)
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "fetch the leaderboard once and write it as a spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "standings.xlsx", Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			ctx := contextOrBackground(c)
			cfg, obs, err := setup(c, true)
			if err != nil {
				return err
			}
			module, _, err := refresh(ctx, cfg, obs)
			if err != nil {
				return err
			}
			defer module.Close()

			if err := writeWorkbook(c.String("out"), module.LeaderboardService.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "wrote %s\n", c.String("out"))
			return nil
		},
	}
}

// writeWorkbook writes snap to path, reporting close errors.
func writeWorkbook(path string, snap leaderboardservice.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteXLSX(f, snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
