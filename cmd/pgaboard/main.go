package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/pga-leaderboard/app"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "pgaboard",
		Usage: "PGA Tour leaderboard for LED matrix panels",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"PGABOARD_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			runCommand(),
			fetchCommand(),
			renderCommand(),
			exportCommand(),
			validateCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads the configuration and initialises observability. CLI commands
// other than run log to stderr so stdout stays clean.
func setup(c *cli.Context, logToStderr bool) (*config.Config, observability.Observability, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, observability.Observability{}, err
	}

	obsCfg := config.ToObsConfig(cfg)
	if logToStderr {
		obsCfg.Output = os.Stderr
	}
	obs, err := observability.Init(c.Context, obsCfg)
	if err != nil {
		return nil, observability.Observability{}, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return cfg, obs, nil
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the plugin host until interrupted",
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c, false)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApp(ctx, cfg, obs, app.Options{})
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			return application.Run(ctx)
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check the configuration file",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return cli.Exit(fmt.Sprintf("invalid configuration:\n%v", err), 1)
			}
			fmt.Fprintln(c.App.Writer, "configuration is valid")
			return nil
		},
	}
}

func contextOrBackground(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
