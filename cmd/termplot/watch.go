// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/termplot/status"
)

// watchKeyMap holds the key bindings of the status watch view.
type watchKeyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

var defaultWatchKeys = watchKeyMap{
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// fetchFunc reads one report from a running server.
type fetchFunc func(ctx context.Context) (status.Report, error)

// reportMsg carries the outcome of one fetch.
type reportMsg struct {
	report status.Report
	err    error
	at     time.Time
}

// tickMsg schedules the next fetch. Ticks from an older generation are
// dropped so a manual refresh does not start a second polling loop.
type tickMsg struct {
	generation int
}

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true)
	watchHelpStyle  = lipgloss.NewStyle().Faint(true)
)

// watchModel is the bubbletea model behind "termplot status --watch".
type watchModel struct {
	address  string
	fetch    fetchFunc
	interval time.Duration
	timeout  time.Duration
	keys     watchKeyMap

	result     *statusResult
	err        error
	updated    time.Time
	fetching   bool
	generation int
}

func newWatchModel(address string, fetch fetchFunc, interval, timeout time.Duration) watchModel {
	return watchModel{
		address:  address,
		fetch:    fetch,
		interval: interval,
		timeout:  timeout,
		keys:     defaultWatchKeys,
		fetching: true,
	}
}

// Init implements tea.Model by fetching the first report.
func (model watchModel) Init() tea.Cmd {
	return model.fetchCmd()
}

func (model watchModel) fetchCmd() tea.Cmd {
	fetch, timeout := model.fetch, model.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		report, err := fetch(ctx)
		return reportMsg{report: report, err: err, at: time.Now()}
	}
}

// Update implements tea.Model.
func (model watchModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(message, model.keys.Refresh):
			if model.fetching {
				return model, nil
			}
			model.fetching = true
			return model, model.fetchCmd()
		}

	case reportMsg:
		model.fetching = false
		model.updated = message.at
		model.err = message.err
		if message.err == nil {
			result := newStatusResult(message.report)
			model.result = &result
		}
		model.generation++
		generation := model.generation
		return model, tea.Tick(model.interval, func(time.Time) tea.Msg {
			return tickMsg{generation: generation}
		})

	case tickMsg:
		if message.generation != model.generation || model.fetching {
			return model, nil
		}
		model.fetching = true
		return model, model.fetchCmd()
	}
	return model, nil
}

// View implements tea.Model.
func (model watchModel) View() string {
	var view strings.Builder
	view.WriteString(watchTitleStyle.Render("termplot status " + model.address))
	view.WriteString("\n\n")

	switch {
	case model.err != nil:
		fmt.Fprintf(&view, "not answering: %v\n", model.err)
		if model.result != nil {
			view.WriteString("\nlast report:\n")
		}
	case model.result == nil:
		view.WriteString("connecting...\n")
	}
	if model.result != nil {
		writeStatus(&view, *model.result)
	}

	help := fmt.Sprintf("%s %s  %s %s",
		model.keys.Refresh.Help().Key, model.keys.Refresh.Help().Desc,
		model.keys.Quit.Help().Key, model.keys.Quit.Help().Desc)
	if !model.updated.IsZero() {
		help = "updated " + model.updated.Format(time.TimeOnly) + "  " + help
	}
	view.WriteString("\n")
	view.WriteString(watchHelpStyle.Render(help))
	view.WriteString("\n")
	return view.String()
}

// runWatch polls address every interval until the user quits or ctx
// is cancelled.
func runWatch(ctx context.Context, address string, interval, timeout time.Duration) error {
	fetch := func(ctx context.Context) (status.Report, error) {
		return status.Fetch(ctx, address)
	}
	program := tea.NewProgram(newWatchModel(address, fetch, interval, timeout),
		tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
