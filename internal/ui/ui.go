package ui

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tevify/internal/library"
	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/player"
	"github.com/desertthunder/tevify/internal/shared"
	"github.com/desertthunder/tevify/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	SearchView
	GenresView
	GenreView
	ArtistView
	AlbumView
	PlaylistsView
	PlaylistView
	LibraryView
)

func (v ViewState) String() string {
	switch v {
	case HomeView:
		return "Home"
	case SearchView:
		return "Search"
	case GenresView:
		return "Genres"
	case GenreView:
		return "Genre"
	case ArtistView:
		return "Artist"
	case AlbumView:
		return "Album"
	case PlaylistsView:
		return "Playlists"
	case PlaylistView:
		return "Playlist"
	case LibraryView:
		return "Library"
	default:
		return ""
	}
}

const (
	seekStep     = 10.0
	tickInterval = 500 * time.Millisecond
	progressBar  = 24
	chromeHeight = 8
)

// page is a loaded view: its list items and the data actions operate on.
type page struct {
	view   ViewState
	arg    string // id, tag or query the page was loaded for
	title  string
	items  []list.Item
	tracks []models.Track // queue context for play actions
	artist *models.Artist
	album  *models.Album
}

// Option configures a [Model].
type Option func(*Model)

// WithSync enables seeking and playback error reporting.
func WithSync(s *player.Sync) Option {
	return func(m *Model) { m.sync = s }
}

// WithDebounce sets the search input delay.
func WithDebounce(d time.Duration) Option {
	return func(m *Model) { m.debounce = tasks.NewDebouncer(d) }
}

// WithRand sets the shuffle source.
func WithRand(rng *rand.Rand) Option {
	return func(m *Model) { m.rng = rng }
}

// WithOpener replaces the function used to open share links.
func WithOpener(fn func(url string) error) Option {
	return func(m *Model) { m.open = fn }
}

// WithLogger sets the model's logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l.WithPrefix("ui") }
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	browser  *tasks.Browser
	library  *library.Store
	player   *player.Store
	sync     *player.Sync
	logger   *log.Logger
	page     page
	history  []page
	list     list.Model
	input    textinput.Model
	typing   bool
	loading  bool
	gen      tasks.Generation
	debounce *tasks.Debouncer
	events   chan Msg
	rng      *rand.Rand
	open     func(string) error
	status   string
	err      error
	width    int
	height   int
	help     help.Model
	keys     keyMap

	// at most one player and one library change event is queued at a time
	playerPending  atomic.Bool
	libraryPending atomic.Bool
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, browser *tasks.Browser, lib *library.Store, store *player.Store, opts ...Option) *Model {
	input := textinput.New()
	input.Placeholder = "Search tracks..."
	input.Prompt = "/ "
	input.CharLimit = 120

	l := list.New(nil, list.NewDefaultDelegate(), 80, 24-chromeHeight)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	m := &Model{
		ctx:      ctx,
		browser:  browser,
		library:  lib,
		player:   store,
		logger:   log.New(io.Discard),
		page:     page{view: HomeView, title: "Home"},
		list:     l,
		input:    input,
		debounce: tasks.NewDebouncer(tasks.DefaultDebounce),
		events:   make(chan Msg, 32),
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		open:     shared.OpenBrowser,
		width:    80,
		height:   24,
		help:     help.New(),
		keys:     newKeyMap(),
	}
	for _, opt := range opts {
		opt(m)
	}

	lib.Subscribe(func(models.LibraryState) { m.coalesce(&m.libraryPending, libraryChangedMsg()) })
	store.Subscribe(func(_, _ player.State) { m.coalesce(&m.playerPending, playerChangedMsg()) })
	return m
}

// Init loads the home view and starts the event and tick loops.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.reload(), m.waitForEvent(), tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-chromeHeight, 3))
		m.input.Width = max(msg.Width-4, 10)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.handleInputKeys(msg)
		}
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgPageLoaded:
			m.applyPage(msg.data.(pageLoaded))
			return m, nil
		case MsgSearchReady:
			q := msg.data.(searchReady).query
			if q != strings.TrimSpace(m.input.Value()) || m.page.view != SearchView {
				return m, m.waitForEvent()
			}
			return m, tea.Batch(m.runSearch(q), m.waitForEvent())
		case MsgLibraryChanged:
			m.libraryPending.Store(false)
			if m.page.view == LibraryView {
				idx := m.list.Index()
				m.setPage(m.libraryPage())
				if n := len(m.list.Items()); n > 0 {
					m.list.Select(min(idx, n-1))
				}
			}
			return m, m.waitForEvent()
		case MsgPlayerChanged:
			m.playerPending.Store(false)
			return m, m.waitForEvent()
		case MsgTick:
			return m, tick()
		case MsgBrowserOpened:
			if err, _ := msg.data.(error); err != nil {
				m.err = err
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the current page above the player bar.
func (m *Model) View() string {
	var b strings.Builder

	title := m.page.title
	if m.loading {
		title += " …"
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	if m.page.view == SearchView {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	switch {
	case m.loading && len(m.list.Items()) == 0:
		b.WriteString(styles.help.Render("Loading..."))
	case len(m.list.Items()) == 0:
		b.WriteString(styles.help.Render(m.emptyText()))
	default:
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.status != "":
		b.WriteString(styles.ok.Render(m.status))
	}
	b.WriteString("\n")

	b.WriteString(m.renderPlayer())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) emptyText() string {
	switch m.page.view {
	case SearchView:
		if strings.TrimSpace(m.input.Value()) == "" {
			return "Type to search the catalog"
		}
		return "No results"
	case LibraryView:
		return "Your library is empty. Press f to like a track."
	default:
		return "Nothing here"
	}
}

func (m *Model) renderPlayer() string {
	st := m.player.Snapshot()
	if !st.HasTrack() {
		return styles.bar.Render(styles.help.Render("Nothing playing"))
	}

	icon := "❚❚"
	if st.IsPlaying {
		icon = "▶"
	}
	heart := ""
	if m.library.IsLiked(st.TrackID()) {
		heart = " " + styles.err.Render("♥")
	}

	filled := 0
	if st.Duration > 0 {
		filled = int(st.Progress / st.Duration * progressBar)
		filled = min(max(filled, 0), progressBar)
	}
	bar := styles.accent.Render(strings.Repeat("━", filled)) + styles.help.Render(strings.Repeat("─", progressBar-filled))

	volume := fmt.Sprintf("vol %d%%", int(st.Volume*100+0.5))
	if st.Volume == 0 {
		volume = "muted"
	}

	line := fmt.Sprintf("%s %s • %s%s  %s %s %s  %s",
		icon,
		st.CurrentTrack.Name,
		st.CurrentTrack.ArtistName,
		heart,
		shared.FormatTime(st.Progress),
		bar,
		shared.FormatTime(st.Duration),
		volume,
	)
	if m.sync != nil {
		if err := m.sync.Err(); err != nil {
			line += "\n" + styles.err.Render(err.Error())
		}
	}
	return styles.bar.Render(line)
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.debounce.Stop()
		return m, tea.Quit
	case "esc":
		m.typing = false
		m.input.Blur()
		m.debounce.Stop()
		return m, nil
	case "enter":
		m.typing = false
		m.input.Blur()
		m.debounce.Stop()
		return m, m.runSearch(strings.TrimSpace(m.input.Value()))
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		query := strings.TrimSpace(after)
		m.debounce.Trigger(func() { m.send(searchReadyMsg(query)) })
	}
	return m, cmd
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.quit):
		m.debounce.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.back()
		return m, nil
	case key.Matches(msg, m.keys.search):
		if m.page.view != SearchView {
			m.push(page{view: SearchView, title: "Search"})
		}
		m.typing = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.home):
		return m, m.navigate(page{view: HomeView, title: "Home"})
	case key.Matches(msg, m.keys.genres):
		return m, m.navigate(page{view: GenresView, title: "Genres"})
	case key.Matches(msg, m.keys.lists):
		return m, m.navigate(page{view: PlaylistsView, title: "Playlists"})
	case key.Matches(msg, m.keys.library):
		return m, m.navigate(page{view: LibraryView, title: "Your Library"})
	case key.Matches(msg, m.keys.enter):
		return m, m.activate()
	case key.Matches(msg, m.keys.toggle):
		m.player.TogglePlay()
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.player.NextTrack()
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.player.PreviousTrack()
		return m, nil
	case key.Matches(msg, m.keys.forward):
		m.seek(seekStep)
		return m, nil
	case key.Matches(msg, m.keys.rewind):
		m.seek(-seekStep)
		return m, nil
	case key.Matches(msg, m.keys.volUp):
		m.player.AdjustVolume(player.VolumeStep)
		return m, nil
	case key.Matches(msg, m.keys.volDown):
		m.player.AdjustVolume(-player.VolumeStep)
		return m, nil
	case key.Matches(msg, m.keys.mute):
		m.player.ToggleMute()
		return m, nil
	case key.Matches(msg, m.keys.like):
		m.like()
		return m, nil
	case key.Matches(msg, m.keys.save):
		m.save()
		return m, nil
	case key.Matches(msg, m.keys.follow):
		m.follow()
		return m, nil
	case key.Matches(msg, m.keys.playAll):
		if len(m.page.tracks) > 0 {
			m.player.PlayAll(m.page.tracks)
		}
		return m, nil
	case key.Matches(msg, m.keys.shuffle):
		if len(m.page.tracks) > 0 {
			m.player.PlayShuffled(m.page.tracks, m.rng)
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		return m, m.openShareURL()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// activate plays the selected track or opens the selected entity.
func (m *Model) activate() tea.Cmd {
	switch it := m.list.SelectedItem().(type) {
	case trackItem:
		m.player.PlayTrackFromQueue(it.track, m.page.tracks)
	case artistItem:
		return m.navigate(page{view: ArtistView, arg: it.artist.ID, title: it.artist.Name})
	case albumItem:
		return m.navigate(page{view: AlbumView, arg: it.album.ID, title: it.album.Name})
	case playlistItem:
		return m.navigate(page{view: PlaylistView, arg: it.playlist.ID, title: it.playlist.Name})
	case genreItem:
		return m.navigate(page{view: GenreView, arg: string(it), title: "Genre: " + string(it)})
	}
	return nil
}

func (m *Model) selectedTrack() (models.Track, bool) {
	if it, ok := m.list.SelectedItem().(trackItem); ok {
		return it.track, true
	}
	if st := m.player.Snapshot(); st.HasTrack() {
		return *st.CurrentTrack, true
	}
	return models.Track{}, false
}

func (m *Model) like() {
	track, ok := m.selectedTrack()
	if !ok {
		return
	}
	if m.library.ToggleLike(track) {
		m.status = fmt.Sprintf("Added %q to Liked Songs", track.Name)
	} else {
		m.status = fmt.Sprintf("Removed %q from Liked Songs", track.Name)
	}
}

func (m *Model) save() {
	var album *models.Album
	if it, ok := m.list.SelectedItem().(albumItem); ok {
		album = &it.album
	} else if m.page.view == AlbumView {
		album = m.page.album
	}
	if album == nil {
		return
	}
	if m.library.ToggleSaveAlbum(models.NewSavedAlbum(*album)) {
		m.status = fmt.Sprintf("Saved %q", album.Name)
	} else {
		m.status = fmt.Sprintf("Removed %q from your albums", album.Name)
	}
}

func (m *Model) follow() {
	var artist *models.Artist
	if it, ok := m.list.SelectedItem().(artistItem); ok {
		artist = &it.artist
	} else if m.page.view == ArtistView {
		artist = m.page.artist
	}
	if artist == nil {
		return
	}
	if m.library.ToggleFollowArtist(models.NewFollowedArtist(*artist)) {
		m.status = fmt.Sprintf("Following %s", artist.Name)
	} else {
		m.status = fmt.Sprintf("Unfollowed %s", artist.Name)
	}
}

func (m *Model) seek(delta float64) {
	if m.sync == nil {
		return
	}
	if err := m.sync.SeekBy(delta); err != nil {
		m.err = err
	}
}

func (m *Model) openShareURL() tea.Cmd {
	track, ok := m.selectedTrack()
	if !ok || track.ShareURL == "" {
		m.status = "No share link for this track"
		return nil
	}
	url, open := track.ShareURL, m.open
	return func() tea.Msg {
		return browserOpenedMsg(open(url))
	}
}

// push makes p the current page, remembering the previous one for [Model.back].
func (m *Model) push(p page) {
	m.history = append(m.history, m.page)
	m.loading = false
	m.setPage(p)
}

// navigate pushes p and loads its content.
func (m *Model) navigate(p page) tea.Cmd {
	m.push(p)
	return m.reload()
}

// reload fetches the current page. Any load still in flight becomes stale.
func (m *Model) reload() tea.Cmd {
	token := m.gen.Next()
	m.loading = true
	p := m.page
	return func() tea.Msg {
		loaded, err := m.fetch(p)
		return pageLoadedMsg(token, loaded, err)
	}
}

func (m *Model) runSearch(query string) tea.Cmd {
	m.page.arg = query
	if query == "" {
		m.gen.Next()
		m.loading = false
		m.setPage(page{view: SearchView, title: "Search"})
		return nil
	}
	m.page.title = fmt.Sprintf("Search: %s", query)
	return m.reload()
}

func (m *Model) back() {
	if m.typing {
		return
	}
	if len(m.history) == 0 {
		return
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.gen.Next()
	m.loading = false
	m.setPage(prev)
	if prev.view == LibraryView {
		m.setPage(m.libraryPage())
	}
}

func (m *Model) setPage(p page) {
	m.page = p
	m.list.SetItems(p.items)
	m.list.Title = p.title
	m.list.ResetSelected()
}

func (m *Model) applyPage(res pageLoaded) {
	if !m.gen.Current(res.token) {
		m.logger.Debug("dropping stale page", "view", res.page.view, "arg", res.page.arg)
		return
	}
	m.loading = false
	if res.err != nil {
		m.logger.Error("page load failed", "view", res.page.view, "arg", res.page.arg, "error", res.err)
		failed := res.page
		failed.items, failed.tracks = nil, nil
		failed.artist, failed.album = nil, nil
		m.setPage(failed)
		m.err = res.err
		return
	}
	m.setPage(res.page)
}

// fetch loads p's content. It runs off the update loop and only reads thread-safe stores.
func (m *Model) fetch(p page) (page, error) {
	liked := m.library.IsLiked

	switch p.view {
	case HomeView:
		home, err := m.browser.Home(m.ctx)
		if err != nil {
			return p, err
		}
		var items []list.Item
		items = append(items, section("Trending", trackItems(home.Trending, liked))...)
		items = append(items, section("Chill", trackItems(home.Chill, liked))...)
		items = append(items, section("Electronic", trackItems(home.Electronic, liked))...)
		items = append(items, section("Popular Artists", artistItems(home.Artists))...)
		items = append(items, section("Popular Albums", albumItems(home.Albums))...)
		p.items = items
		p.tracks = home.Trending

	case GenresView:
		p.items = genreItems(tasks.Genres)

	case GenreView:
		tracks, err := m.browser.Genre(m.ctx, p.arg)
		if err != nil {
			return p, err
		}
		p.items, p.tracks = trackItems(tracks, liked), tracks

	case SearchView:
		tracks, err := m.browser.Search(m.ctx, p.arg)
		if err != nil {
			return p, err
		}
		p.items, p.tracks = trackItems(tracks, liked), tracks

	case ArtistView:
		ap, err := m.browser.Artist(m.ctx, p.arg)
		if err != nil {
			return p, err
		}
		p.title = ap.Artist.Name
		p.artist = ap.Artist
		p.tracks = ap.Tracks
		p.items = append(section("Top Tracks", trackItems(ap.Tracks, liked)), section("Albums", albumItems(ap.Albums))...)

	case AlbumView:
		ap, err := m.browser.Album(m.ctx, p.arg)
		if err != nil {
			return p, err
		}
		p.title = fmt.Sprintf("%s • %s", ap.Album.Name, ap.Album.ArtistName)
		p.album = ap.Album
		p.items, p.tracks = trackItems(ap.Tracks, liked), ap.Tracks

	case PlaylistsView:
		playlists, err := m.browser.Playlists(m.ctx)
		if err != nil {
			return p, err
		}
		p.items = playlistItems(playlists)

	case PlaylistView:
		tracks, err := m.browser.Playlist(m.ctx, p.arg)
		if err != nil {
			return p, err
		}
		p.items, p.tracks = trackItems(tracks, liked), tracks

	case LibraryView:
		return m.libraryPage(), nil
	}
	return p, nil
}

func (m *Model) libraryPage() page {
	state := m.library.State()
	var items []list.Item
	items = append(items, section("Liked Songs", trackItems(state.LikedSongs, m.library.IsLiked))...)
	items = append(items, section("Saved Albums", albumItems(savedAlbumsToAlbums(state.SavedAlbums)))...)
	items = append(items, section("Followed Artists", artistItems(followedToArtists(state.FollowedArtists)))...)
	return page{view: LibraryView, title: "Your Library", items: items, tracks: state.LikedSongs}
}

// emit queues a background event without blocking the sender. It reports whether msg was queued.
func (m *Model) emit(msg Msg) bool {
	select {
	case m.events <- msg:
		return true
	default:
		return false
	}
}

// coalesce queues msg unless an event of its kind is already waiting.
func (m *Model) coalesce(pending *atomic.Bool, msg Msg) {
	if !pending.CompareAndSwap(false, true) {
		return
	}
	if !m.emit(msg) {
		pending.Store(false)
	}
}

// send queues msg, waiting for room until the model's context ends.
func (m *Model) send(msg Msg) {
	select {
	case m.events <- msg:
	case <-m.ctx.Done():
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg() })
}
