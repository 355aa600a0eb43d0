// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/tuneflow/internal/formatter"
	"github.com/desertthunder/tuneflow/internal/models"
	"github.com/urfave/cli/v3"
)

// setupCommand handles setup operations for the configuration file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml populated with the defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// searchCommand runs a one-shot catalog search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "search",
		Aliases: []string{"s"},
		Usage:   "Search the catalog for songs and albums",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "keyword",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "media",
				Aliases: []string{"m"},
				Usage:   "Media filter (all, song or album)",
				Value:   string(models.MediaAll),
			},
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Sort key (releaseDate or price)",
				Value: string(models.SortReleaseDate),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Search,
	}
}

// playlistCommand handles operations on the saved playlist.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Manage the saved playlist",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "Show the playlist",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "add",
				Usage: "Search for a keyword and add a result to the playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "keyword",
					},
				},
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "id",
						Usage: "ID of the result to add (default: first result)",
					},
					&cli.StringFlag{
						Name:    "media",
						Aliases: []string{"m"},
						Usage:   "Media filter (all, song or album)",
						Value:   string(models.MediaAll),
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove an entry by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:   "clear",
				Usage:  "Remove every entry",
				Action: r.PlaylistClear,
			},
			{
				Name:  "export",
				Usage: "Export the playlist to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text or json)",
						Value:   string(formatter.CSV),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (directory for markdown)",
					},
				},
				Action: r.PlaylistExport,
			},
			{
				Name:  "import",
				Usage: "Add the first match for every keyword in a file (one per line)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "file",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "media",
						Aliases: []string{"m"},
						Usage:   "Media filter (all, song or album)",
						Value:   string(models.MediaSong),
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent searches (max 8)",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Searches per second",
						Value: 2,
					},
				},
				Action: r.PlaylistImport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive search and playlist UI",
		Action:  r.TUI,
	}
}

// serveCommand starts the browser page.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the search page and JSON API over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default from config)",
			},
		},
		Action: r.Serve,
	}
}
