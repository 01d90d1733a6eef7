package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	headerFocusStyle = headerStyle.
				Foreground(lipgloss.Color("212"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	scriptStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("250"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("QuipVid — Movie Quote Video Library"))
	b.WriteString("\n")

	if m.warning != "" {
		b.WriteString(warningStyle.Render("! unable to load videos: " + m.warning))
		b.WriteString("\n")
	}

	if m.watching != nil {
		b.WriteString(m.watchView())
		return b.String()
	}

	if m.searching {
		b.WriteString("search: " + m.search.View())
	} else if q := m.search.Value(); q != "" {
		b.WriteString(mutedStyle.Render("filter: " + q + "  (/ to edit)"))
	} else {
		b.WriteString(mutedStyle.Render("/ search · tab section · ←/→ page · enter watch · r reload · q quit"))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(mutedStyle.Render("loading…"))
		b.WriteString("\n")
		return b.String()
	}

	for s := sectionPopular; s < sectionCount; s++ {
		b.WriteString(m.sectionView(s))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) sectionView(s section) string {
	var b strings.Builder

	videos := m.sectionVideos(s)
	pager := m.pagers[s]
	focused := s == m.focus

	header := sectionTitles[s]
	if total := pager.TotalPages(); total > 1 {
		header += fmt.Sprintf("  (page %d/%d)", pager.Page()+1, total)
	}
	if focused {
		b.WriteString(headerFocusStyle.Render("» " + header))
	} else {
		b.WriteString(headerStyle.Render("  " + header))
	}
	b.WriteString("\n")

	page := pager.Slice(videos)
	if len(page) == 0 {
		b.WriteString(mutedStyle.Render("  no videos to show"))
		b.WriteString("\n")
		return b.String()
	}

	for i, v := range page {
		line := fmt.Sprintf("  %-40s %8d views", truncate(v.Title, 40), v.Views)
		if focused && i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) watchView() string {
	var b strings.Builder
	v := m.watching

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(v.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d views", v.Views)))
	b.WriteString("\n\n")

	if v.Script != nil && *v.Script != "" {
		b.WriteString(scriptStyle.Render(*v.Script))
		b.WriteString("\n\n")
	}

	if v.VideoURL != nil && *v.VideoURL != "" {
		b.WriteString("video:    " + *v.VideoURL + "\n")
	} else {
		b.WriteString(warningStyle.Render("video URL not available"))
		b.WriteString("\n")
	}
	uploader := "unknown"
	if v.Uploader != nil && *v.Uploader != "" {
		uploader = *v.Uploader
	}
	b.WriteString("uploader: " + uploader + "\n")
	b.WriteString("created:  " + v.CreatedAt.Format("2006-01-02 15:04") + "\n")

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("esc back · q quit"))
	b.WriteString("\n")

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
