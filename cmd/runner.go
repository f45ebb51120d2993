package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tevify/internal/library"
	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/repositories"
	"github.com/desertthunder/tevify/internal/services"
	"github.com/desertthunder/tevify/internal/shared"
	"github.com/desertthunder/tevify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.Catalog
	api        *services.APIService
	library    *library.Store
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	browser    *tasks.Browser
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Catalog
	API        *services.APIService
	Library    *library.Store // opened from the configured database when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		api:        opts.API,
		library:    opts.Library,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if opts.Catalog != nil {
		r.browser = tasks.NewBrowser(opts.Catalog, opts.Logger)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, tracksCommand, artistCommand, albumCommand, playlistCommand, libraryCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and everything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.catalog != nil {
		r.browser = tasks.NewBrowser(r.catalog, l)
	}
}

// Close releases the library database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// requireCatalog returns the browser, or an error explaining how to configure the catalog.
func (r *Runner) requireCatalog() (*tasks.Browser, error) {
	if r.browser == nil {
		return nil, fmt.Errorf("%w: set catalog.client_id in config.toml or %s", shared.ErrServiceUnavailable, shared.ClientIDEnv)
	}
	return r.browser, nil
}

// openLibrary returns the library store, opening the configured database on first use.
func (r *Runner) openLibrary() (*library.Store, error) {
	if r.library != nil {
		return r.library, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrPersistence, err)
	}
	r.db = db
	r.library = library.New(repositories.NewKVRepository(db), r.logger)
	return r.library, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeTracks prints tracks as JSON or a numbered listing.
func (r *Runner) writeTracks(title string, tracks []models.Track, asJSON bool) error {
	if asJSON {
		return r.writeJSON(tracks, true)
	}

	r.writePlainHeader(title)
	if len(tracks) == 0 {
		return r.writePlain("No tracks found\n")
	}
	for i, t := range tracks {
		line := fmt.Sprintf("%3d. %s • %s (%s)", i+1, t.Name, t.ArtistName, shared.FormatDuration(t.Duration))
		if err := r.writePlain("%s  [%s]\n", line, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) writeAlbums(title string, albums []models.Album) {
	r.writePlainHeader(title)
	if len(albums) == 0 {
		r.writePlain("No albums found\n")
		return
	}
	for i, a := range albums {
		r.writePlain("%3d. %s • %s  [%s]\n", i+1, a.Name, a.ArtistName, a.ID)
	}
}

// argument returns the named positional argument, trimmed, or a missing argument error.
func argument(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}
