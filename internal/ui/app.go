// Package ui implements the terminal browser for the video library. It is
// a pure consumer of the resource API: sections are recomputed client-side
// from the fetched set and nothing here is persisted.
package ui

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quipvid/internal/browse"
	"quipvid/internal/domain"
)

// API is the slice of the resource API the browser consumes.
type API interface {
	ListVideos(ctx context.Context, page, pageSize int, sortBy string) (*domain.VideoPage, error)
	GetVideo(ctx context.Context, id string) (*domain.Video, error)
}

type section int

const (
	sectionPopular section = iota
	sectionFeatured
	sectionAll
	sectionCount
)

var sectionTitles = [sectionCount]string{"POPULAR", "FEATURED", "ALL VIDEOS"}

const (
	sectionSize   = 12
	videosPerPage = 12
	fetchTimeout  = 5 * time.Second
)

type videosMsg struct {
	videos []domain.Video
}

type detailMsg struct {
	video *domain.Video
}

type warnMsg struct {
	err error
}

// Model is the bubbletea model for the browser.
type Model struct {
	api API
	rng *rand.Rand

	videos   []domain.Video
	filtered []domain.Video
	featured []domain.Video
	pagers   [sectionCount]*browse.Pager

	focus     section
	cursor    int
	search    textinput.Model
	searching bool
	watching  *domain.Video
	warning   string
	loading   bool

	width  int
	height int
}

func NewModel(api API) Model {
	search := textinput.New()
	search.Placeholder = "type a movie quote…"
	search.CharLimit = 80

	m := Model{
		api:     api,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		search:  search,
		loading: true,
	}
	for i := range m.pagers {
		m.pagers[i] = browse.NewPager(videosPerPage)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.fetchVideos()
}

func (m Model) fetchVideos() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := api.ListVideos(ctx, 1, 100, "")
		if err != nil {
			return warnMsg{err: err}
		}
		return videosMsg{videos: page.Videos}
	}
}

func (m Model) fetchDetail(id string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		video, err := api.GetVideo(ctx, id)
		if err != nil {
			return warnMsg{err: err}
		}
		return detailMsg{video: video}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case videosMsg:
		m.loading = false
		m.warning = ""
		m.videos = msg.videos
		m.applyFilter()
		return m, nil

	case detailMsg:
		m.warning = ""
		m.watching = msg.video
		return m, nil

	case warnMsg:
		// API failures degrade to an empty list plus a visible warning.
		m.loading = false
		m.warning = msg.err.Error()
		m.videos = nil
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.applyFilter()
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.watching != nil {
			m.watching = nil
		}

	case "/":
		if m.watching == nil {
			m.searching = true
			m.search.Focus()
		}

	case "r":
		if m.watching == nil {
			m.loading = true
			return m, m.fetchVideos()
		}

	case "tab":
		if m.watching == nil {
			m.focus = (m.focus + 1) % sectionCount
			m.cursor = 0
		}

	case "left", "h":
		if m.watching == nil {
			m.pagers[m.focus].Prev()
			m.cursor = 0
		}

	case "right", "l":
		if m.watching == nil {
			m.pagers[m.focus].Next()
			m.cursor = 0
		}

	case "up", "k":
		if m.watching == nil && m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.watching == nil {
			if page := m.currentPage(); m.cursor < len(page)-1 {
				m.cursor++
			}
		}

	case "enter":
		if m.watching == nil {
			if page := m.currentPage(); m.cursor < len(page) {
				return m, m.fetchDetail(page[m.cursor].ID)
			}
		}
	}

	return m, nil
}

// applyFilter recomputes the derived sections from the fetched set and the
// current title filter, and re-clamps every pager.
func (m *Model) applyFilter() {
	m.filtered = browse.FilterByTitle(m.videos, m.search.Value())
	m.featured = browse.Featured(m.filtered, sectionSize, m.rng)
	m.pagers[sectionPopular].SetTotal(len(m.popular()))
	m.pagers[sectionFeatured].SetTotal(len(m.featured))
	m.pagers[sectionAll].SetTotal(len(m.filtered))
	m.cursor = 0
}

func (m *Model) popular() []domain.Video {
	return browse.Popular(m.filtered, sectionSize)
}

func (m *Model) sectionVideos(s section) []domain.Video {
	switch s {
	case sectionPopular:
		return m.popular()
	case sectionFeatured:
		return m.featured
	default:
		return m.filtered
	}
}

func (m *Model) currentPage() []domain.Video {
	return m.pagers[m.focus].Slice(m.sectionVideos(m.focus))
}

// Run starts the browser and blocks until it exits.
func Run(api API) error {
	p := tea.NewProgram(NewModel(api), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
