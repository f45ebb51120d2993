// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func limitFlag(value int) cli.Flag {
	return &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum number of results to return",
		Value:   value,
	}
}

// setupCommand handles setup operations for configuration and the library database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the library database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tracksCommand handles track listings
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"t"},
		Usage:   "Browse catalog tracks",
		Commands: []*cli.Command{
			{
				Name:   "popular",
				Usage:  "Most popular tracks this month",
				Flags:  []cli.Flag{limitFlag(20), jsonFlag()},
				Action: r.TracksPopular,
			},
			{
				Name:      "search",
				Usage:     "Search tracks by name",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     []cli.Flag{limitFlag(30), jsonFlag()},
				Action:    r.TracksSearch,
			},
			{
				Name:      "tag",
				Aliases:   []string{"genre"},
				Usage:     "Popular tracks for a genre tag",
				Arguments: []cli.Argument{&cli.StringArg{Name: "tag"}},
				Flags:     []cli.Flag{limitFlag(40), jsonFlag()},
				Action:    r.TracksByTag,
			},
			{
				Name:   "new",
				Usage:  "Newest releases",
				Flags:  []cli.Flag{limitFlag(20), jsonFlag()},
				Action: r.TracksNew,
			},
		},
	}
}

// artistCommand handles artist pages
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Artist operations",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show an artist with top tracks and albums",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ArtistShow,
			},
			{
				Name:   "popular",
				Usage:  "Most popular artists this month",
				Flags:  []cli.Flag{limitFlag(20), jsonFlag()},
				Action: r.ArtistPopular,
			},
		},
	}
}

// albumCommand handles album pages
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Album operations",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show an album with its tracks",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.AlbumShow,
			},
			{
				Name:      "search",
				Usage:     "Search albums by name",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     []cli.Flag{limitFlag(20), jsonFlag()},
				Action:    r.AlbumSearch,
			},
		},
	}
}

// playlistCommand handles community playlists
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Community playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List community playlists",
				Flags:  []cli.Flag{limitFlag(20), jsonFlag()},
				Action: r.PlaylistList,
			},
			{
				Name:      "tracks",
				Usage:     "List a playlist's tracks",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.PlaylistTracks,
			},
		},
	}
}

// libraryCommand handles the local library
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Liked songs, saved albums and followed artists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Show the library",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.LibraryList,
			},
			{
				Name:      "like",
				Usage:     "Like or unlike a track",
				Arguments: []cli.Argument{&cli.StringArg{Name: "track-id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "album",
						Usage: "Album the track belongs to (required to like a new track)",
					},
				},
				Action: r.LibraryLike,
			},
			{
				Name:      "save",
				Usage:     "Save or remove an album",
				Arguments: []cli.Argument{&cli.StringArg{Name: "album-id"}},
				Action:    r.LibrarySave,
			},
			{
				Name:      "follow",
				Usage:     "Follow or unfollow an artist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "artist-id"}},
				Action:    r.LibraryFollow,
			},
			{
				Name:  "export",
				Usage: "Export liked songs and saved albums to files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: tevify_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent album exports",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Album requests per second",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "covers",
						Usage: "Download album covers (markdown only)",
					},
				},
				Action: r.LibraryExport,
			},
		},
	}
}

// apiCommand handles direct catalog API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct catalog API calls",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the catalog API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive player.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-audio",
				Usage: "Browse without audio output",
			},
		},
		Action: r.TUI,
	}
}
