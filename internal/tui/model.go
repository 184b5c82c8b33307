// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package tui is a terminal browser for the distribution lists of a session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-distribution-list-service/internal/service"
)

// ListLoadedMsg carries the list view after a navigation.
type ListLoadedMsg struct {
	View service.ListView
	Err  error
}

// PanelChangedMsg carries a fresh displayer view.
type PanelChangedMsg struct {
	View service.DisplayerView
}

// NotificationMsg carries a notification to show in the status line.
type NotificationMsg struct {
	Notification model.Notification
}

// Model is the browser: the lists of the current filter on the left and the
// displayer of the active list on the right.
type Model struct {
	ctx      context.Context
	session  *service.Session
	notifier *Notifier
	changed  chan struct{}
	start    model.Route

	keys KeyMap
	help help.Model

	list    service.ListView
	panel   service.DisplayerView
	cursor  int
	notice  *model.Notification
	loading bool

	width  int
	height int
}

// New creates the browser for session, starting at route. notifier must be
// the one the session reports to.
func New(ctx context.Context, session *service.Session, notifier *Notifier, start model.Route) Model {
	changed := make(chan struct{}, 1)
	session.Displayer.OnChange(func(service.DisplayerView) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	return Model{
		ctx:      ctx,
		session:  session,
		notifier: notifier,
		changed:  changed,
		start:    start,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		loading:  true,
		width:    100,
		height:   30,
	}
}

// Init navigates to the start route and starts listening for events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.navigate(m.start), m.waitForEvent())
}

func (m Model) navigate(route model.Route) tea.Cmd {
	return func() tea.Msg {
		view, err := m.session.View.Navigate(m.ctx, route)
		return ListLoadedMsg{View: view, Err: err}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changed:
			return PanelChangedMsg{View: m.session.Displayer.View()}
		case n := <-m.notifier.ch:
			return NotificationMsg{Notification: n}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Update handles messages for the browser.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ListLoadedMsg:
		m.loading = false
		m.list = msg.View
		m.cursor = m.activeIndex()
		m.panel = m.session.Displayer.View()
		return m, nil

	case PanelChangedMsg:
		m.panel = msg.View
		return m, m.waitForEvent()

	case NotificationMsg:
		n := msg.Notification
		m.notice = &n
		return m, m.waitForEvent()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.list.Items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(m.list.Items) {
			m.notice = nil
			return m, m.navigate(model.Route{Filter: m.list.Filter, ID: m.list.Items[m.cursor].List.ID})
		}

	case key.Matches(msg, m.keys.Close):
		return m, m.navigate(model.Route{Filter: m.list.Filter})

	case key.Matches(msg, m.keys.Filter):
		filter := model.FilterManager
		if m.list.Filter == model.FilterManager {
			filter = model.FilterMember
		}
		m.loading = true
		return m, m.navigate(model.Route{Filter: filter})

	case key.Matches(msg, m.keys.NextTab):
		if !m.panel.Open {
			break
		}
		if err := m.session.Displayer.SelectTab(m.ctx, nextTab(m.panel.Tab)); err != nil {
			m.notice = &model.Notification{Kind: model.NotificationError, Message: err.Error()}
			break
		}
		m.panel = m.session.Displayer.View()

	case key.Matches(msg, m.keys.LoadMore):
		if !m.panel.MoreMembers {
			break
		}
		if err := m.session.Displayer.LoadMore(m.ctx); err != nil {
			m.notice = &model.Notification{Kind: model.NotificationError, Message: err.Error()}
			break
		}
		m.panel = m.session.Displayer.View()
	}

	return m, nil
}

func (m Model) activeIndex() int {
	for i, item := range m.list.Items {
		if item.Active {
			return i
		}
	}
	if m.cursor < len(m.list.Items) {
		return m.cursor
	}
	return 0
}

func nextTab(current model.Tab) model.Tab {
	tabs := model.Tabs()
	for i, t := range tabs {
		if t == current {
			return tabs[(i+1)%len(tabs)]
		}
	}
	return model.TabDetails
}

// View renders the browser.
func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Distribution lists · %s", filterTitle(m.list.Filter)))

	listWidth := m.width / 3
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(m.renderList()),
		m.renderPanel(m.width-listWidth-2),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		m.renderNotice(),
		m.help.View(m.keys),
	)
}

func filterTitle(filter model.Filter) string {
	if filter == model.FilterManager {
		return "Manager"
	}
	return "Member"
}

func (m Model) renderList() string {
	if m.loading {
		return mutedStyle.Render("Loading…")
	}
	if len(m.list.Items) == 0 {
		return mutedStyle.Render(m.list.EmptyHint)
	}

	var b strings.Builder
	for i, item := range m.list.Items {
		label := item.List.Label()
		if len(item.Actions) > 0 {
			label += mutedStyle.Render(" (owner)")
		}
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render(label))
		} else {
			b.WriteString(itemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderPanel(width int) string {
	if !m.panel.Open {
		return panelStyle.Width(width).Render(mutedStyle.Render("Select a distribution list"))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(m.panel.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.panel.Email))
	b.WriteString("\n\n")

	tabs := make([]string, 0, len(m.panel.Tabs))
	for _, t := range m.panel.Tabs {
		if t.Tab == m.panel.Tab {
			tabs = append(tabs, activeTabStyle.Render(t.Caption))
		} else {
			tabs = append(tabs, tabStyle.Render(t.Caption))
		}
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n\n")

	switch m.panel.Tab {
	case model.TabDetails:
		switch {
		case m.panel.LoadingDetails:
			b.WriteString(mutedStyle.Render("Loading…"))
		case m.panel.Description != "":
			b.WriteString(m.panel.Description)
		}
	case model.TabMemberList:
		for _, member := range m.panel.Members {
			b.WriteString(member)
			b.WriteString("\n")
		}
		switch {
		case m.panel.LoadingMembers:
			b.WriteString(mutedStyle.Render("Loading…"))
		case m.panel.MoreMembers:
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d, press m for more", len(m.panel.Members), m.panel.MembersTotal)))
		}
	case model.TabManagerList:
		for _, owner := range m.panel.Owners {
			b.WriteString(owner)
			b.WriteString("\n")
		}
	}

	return panelStyle.Width(width).Render(b.String())
}

func (m Model) renderNotice() string {
	if m.notice == nil {
		return ""
	}
	if m.notice.Kind == model.NotificationError {
		return errorStyle.Render(m.notice.Message)
	}
	return infoStyle.Render(m.notice.Message)
}
