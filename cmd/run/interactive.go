package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wasi-memfs/memfs/wasi1"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type tuiPane int

const (
	paneDescriptors tuiPane = iota
	paneLog
)

// interactiveModel browses the live descriptor table and tails the call
// log of a mounted filesystem; it does not run any guest code itself.
type interactiveModel struct {
	err      error
	wasmFile string
	initFile string
	sink     *callLogSink
	wasiCtx  *wasi1.Context
	pane     tuiPane
}

func newInteractiveModel(wasmFile, initFile string) *interactiveModel {
	return &interactiveModel{wasmFile: wasmFile, initFile: initFile}
}

type mountedMsg struct {
	err     error
	wasiCtx *wasi1.Context
	sink    *callLogSink
}

type tickMsg struct{}

func (m *interactiveModel) Init() tea.Cmd {
	return m.doMount
}

func (m *interactiveModel) doMount() tea.Msg {
	ctx := context.Background()
	sink := newCallLogSink(200)
	logger := consoleLogger(sink)

	r, wasiCtx, _, err := mount(ctx, m.initFile, logger)
	if err != nil {
		return mountedMsg{err: err}
	}
	defer r.Close(ctx)

	return mountedMsg{wasiCtx: wasiCtx, sink: sink}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.pane == paneDescriptors {
				m.pane = paneLog
			} else {
				m.pane = paneDescriptors
			}
		}

	case mountedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.wasiCtx = msg.wasiCtx
		m.sink = msg.sink
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.wasiCtx == nil {
		return "Mounting filesystem..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("wasi1 browser"))
	b.WriteString(" ")
	b.WriteString(m.wasmFile)
	b.WriteString("\n\n")

	switch m.pane {
	case paneDescriptors:
		b.WriteString(dimStyle.Render("Preopens: ") + fmt.Sprintf("%v", m.wasiCtx.Preopens()))
		b.WriteString("\n\n")
		views := m.wasiCtx.Snapshot()
		sort.Slice(views, func(i, j int) bool { return views[i].Handle < views[j].Handle })
		for _, v := range views {
			kind := "file"
			if v.Kind == wasi1.KindDirectory {
				kind = "dir"
			}
			if v.Stream {
				kind = "stream"
			}
			tag := ""
			if v.Preopen {
				tag = " (preopen)"
			}
			b.WriteString(fmt.Sprintf("  %-10d %-6s %s%s\n", v.Handle, kind, pathStyle.Render(v.Path), tag))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab: view call log • q quit"))

	case paneLog:
		b.WriteString(dimStyle.Render("Call log (tail)"))
		b.WriteString("\n\n")
		for _, line := range m.sink.Lines() {
			b.WriteString(line)
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab: view descriptors • q quit"))
	}

	return b.String()
}

func runInteractive(wasmFile, initFile string) error {
	p := tea.NewProgram(newInteractiveModel(wasmFile, initFile), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
