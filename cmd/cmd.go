// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// newApp builds the root command. Running it without a subcommand performs a copy run.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "p2c",
		Usage:     "Copy a Plex playlist into a library collection",
		UsageText: "p2c [--host URL] [--token TOKEN] [--playlist NAME] [--section ID] [--collection NAME]",
		Version:   "0.1.0",
		Flags:     rootFlags(r),
		Action:    r.Copy,
		Commands:  r.register(),
	}
}

// rootFlags are shared by the copy run and every subcommand.
func rootFlags(r *Runner) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Usage:   "Plex server URL",
			Sources: cli.EnvVars("PLEX_HOST"),
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "Plex access token",
			Sources: cli.EnvVars("PLEX_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "playlist",
			Aliases: []string{"p"},
			Usage:   "Title of the playlist to copy",
			Sources: cli.EnvVars("PLEX_PLAYLIST"),
		},
		&cli.StringFlag{
			Name:    "section",
			Aliases: []string{"s"},
			Usage:   "Library section number to add the collection to",
			Sources: cli.EnvVars("PLEX_SECTION"),
		},
		&cli.StringFlag{
			Name:    "collection",
			Aliases: []string{"c"},
			Usage:   "Collection name to create or extend",
			Sources: cli.EnvVars("PLEX_COLLECTION"),
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to configuration file (default: config.toml, config.yml or config.yaml)",
			Value: r.configPath,
		},
		&cli.BoolFlag{
			Name:  "tui",
			Usage: "Use interactive terminal menus instead of numbered prompts",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a run report; format follows the extension (.csv, .md, .json, anything else is text)",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.EnvVars("P2C_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		checkCommand(r),
		playlistsCommand(r),
		itemsCommand(r),
		sectionsCommand(r),
		collectionsCommand(r),
		setupCommand(r),
	}
}

func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "check",
		Usage:  "Verify the server is reachable and accepts the token",
		Action: r.Check,
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List video playlists",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Playlists,
	}
}

func itemsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "items",
		Usage:     "List the items of the playlist named by --playlist",
		UsageText: "p2c --playlist NAME items [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Items,
	}
}

func sectionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sections",
		Aliases: []string{"libraries"},
		Usage:   "List library sections",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Sections,
	}
}

func collectionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "collections",
		Usage:     "List collections of the section named by --section",
		UsageText: "p2c --section ID collections [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Collections,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup helpers",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Destination path",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
