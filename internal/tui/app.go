// Package tui renders a live now-playing panel in the terminal, fed by
// the control API's push feed.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stagehand-app/stagehand/internal/api"
	"github.com/stagehand-app/stagehand/internal/core"
)

type stateMsg struct {
	state *api.State
}

type feedClosedMsg struct{}

// Model is the bubbletea model for the now-playing view.
type Model struct {
	client *api.Client
	states <-chan api.State

	current *api.State
	width   int
	err     error
}

// Run connects to the control API at baseURL and blocks until the user
// quits.
func Run(baseURL string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(baseURL)
	states, err := client.Watch(ctx)
	if err != nil {
		return err
	}

	m := Model{client: client, states: states, width: 60}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init starts listening for pushed states.
func (m Model) Init() tea.Cmd {
	return m.waitForState()
}

func (m Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		st, ok := <-m.states
		if !ok {
			return feedClosedMsg{}
		}
		return stateMsg{state: &st}
	}
}

// Update handles key presses and pushed states.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateMsg:
		m.current = msg.state
		return m, m.waitForState()

	case feedClosedMsg:
		m.err = fmt.Errorf("connection to the control API lost")
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			return m, m.action(string(core.IntentTogglePlay))
		case "n":
			return m, m.action(string(core.IntentNext))
		case "p":
			return m, m.action(string(core.IntentPrevious))
		case "s":
			return m, m.action(string(core.IntentToggleShuffle))
		case "r":
			return m, m.action(string(core.IntentCycleRepeat))
		case "f":
			return m, m.action(string(core.IntentToggleFavorite))
		}
	}
	return m, nil
}

func (m Model) action(name string) tea.Cmd {
	return func() tea.Msg {
		// Fire and forget; the resulting state arrives on the feed.
		_ = m.client.Do(name, nil)
		return nil
	}
}

// View renders the panel.
func (m Model) View() string {
	width := m.width - 4
	if width < 30 {
		width = 30
	}

	var body string
	if m.current == nil {
		body = styleDim.Render("Waiting for playback state...")
	} else if m.current.ID == "" {
		body = styleDim.Render("Nothing playing")
	} else {
		body = m.renderTrack(width)
	}

	help := styleHelp.Render("space play/pause · n next · p prev · s shuffle · r repeat · f favorite · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		stylePanel.Width(width).Render(body),
		help,
	)
}

func (m Model) renderTrack(width int) string {
	st := m.current

	icon := stylePaused.Render("⏸")
	if st.Status == string(core.StatusPlaying) {
		icon = stylePlaying.Render("▶")
	}

	title := styleTitle.Render(st.Title)
	if st.Favorite {
		title += " " + styleFavorite.Render("♥")
	}
	artist := styleSubtitle.Render(st.Artist)
	album := styleDim.Render(st.Album)

	barWidth := width - len(st.Current) - len(st.Duration) - 6
	if barWidth < 10 {
		barWidth = 10
	}
	percent := 0.0
	if st.DurationInSeconds > 0 {
		percent = float64(st.CurrentInSeconds) / float64(st.DurationInSeconds)
	}
	progress := fmt.Sprintf("%s %s %s", st.Current, progressBar(percent, barWidth), st.Duration)

	flags := ""
	if st.Player.Shuffle {
		flags += "🔀 "
	}
	if st.Player.Repeat != "" && st.Player.Repeat != string(core.RepeatOff) {
		flags += "🔁 " + st.Player.Repeat
	}

	lines := []string{
		icon + " " + title,
		"  " + artist,
	}
	if st.Album != "" {
		lines = append(lines, "  "+album)
	}
	lines = append(lines, "", progress)
	if flags != "" {
		lines = append(lines, "", styleDim.Render(flags))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
