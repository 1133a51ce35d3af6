package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/roster/internal/config"
	"github.com/gravitrone/roster/internal/engine"
	"github.com/gravitrone/roster/internal/ui/components"
)

// --- Messages ---

type errMsg struct{ err error }

type pageLoadedMsg struct {
	req  engine.FetchRequest
	page engine.Page
	err  error
}

type saveDoneMsg struct {
	req    engine.SaveRequest
	fields engine.Fields
	err    error
}

// --- Modes ---

type appMode int

const (
	modeList appMode = iota
	modeSearch
	modeDetail
	modeEdit
)

const (
	// loadMoreThreshold is how many rows before the end scrolling asks for the next page.
	loadMoreThreshold = 3
	defaultListRows   = 10
	// chromeHeight is the banner, scope line, box frame and status bar.
	chromeHeight = 20

	endOfListText = "You've reached the end of the list!"
)

// Backend is the remote directory the screen reads from and writes to.
type Backend interface {
	engine.Fetcher
	engine.Updater
}

// App is the root directory screen: a paged list, an id search, a detail
// card and an edit form, all backed by one engine.
type App struct {
	engine  *engine.Engine
	backend Backend
	vim     bool

	width  int
	height int

	snap engine.Snapshot
	list *components.List
	mode appMode

	search textinput.Model
	form   editForm

	detailID string
	notice   string
	err      string

	quitConfirm bool
	helpOpen    bool
}

// NewApp creates the root application model.
func NewApp(eng *engine.Engine, backend Backend, cfg *config.Config) App {
	search := newTextInput(32)
	search.Placeholder = "employee id"
	return App{
		engine:  eng,
		backend: backend,
		vim:     cfg != nil && cfg.VimKeys,
		snap:    eng.Snapshot(),
		list:    components.NewList(defaultListRows),
		search:  search,
	}
}

func (a App) Init() tea.Cmd {
	req, err := a.engine.Start()
	if err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	return a.fetchCmd(req)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.Resize(max(msg.Height-chromeHeight, 5))
		a.sync(false)
		return a, nil
	case errMsg:
		a.err = msg.err.Error()
		a.sync(false)
		return a, nil
	case pageLoadedMsg:
		return a.applyPage(msg)
	case saveDoneMsg:
		return a.applySave(msg)
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

// --- Engine Plumbing ---

// sync pulls a fresh snapshot into the list. reset moves back to the top.
func (a *App) sync(reset bool) {
	a.snap = a.engine.Snapshot()
	width := components.BoxContentWidth(a.width) - 2
	rows := make([]string, len(a.snap.Records))
	for i, r := range a.snap.Records {
		rows[i] = formatRow(r, width)
	}
	if reset {
		a.list.SetItems(rows)
	} else {
		a.list.Refresh(rows)
	}
}

func (a App) fetchCmd(req engine.FetchRequest) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		page, err := backend.FetchPage(context.Background(), req.Request)
		return pageLoadedMsg{req: req, page: page, err: err}
	}
}

func (a App) saveCmd(req engine.SaveRequest) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		fields, err := backend.UpdateRecord(context.Background(), req.ID, req.Fields.Clone())
		return saveDoneMsg{req: req, fields: fields, err: err}
	}
}

func (a App) applyPage(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	res := a.engine.ApplyPage(msg.req, msg.page, msg.err)
	if res.Stale() {
		a.sync(false)
		return a, nil
	}
	first := msg.req.Permit.PageIndex == 0
	a.sync(first)
	switch {
	case errors.Is(res.Err, engine.ErrFetchFailure):
		a.err = fmt.Sprintf("Could not load records: %v", msg.err)
		return a, nil
	case res.Err != nil:
		return a, nil
	}
	// Keep loading until the window is full.
	if len(a.list.Items) < a.list.PageSize {
		return a.loadMore()
	}
	return a, nil
}

func (a App) applySave(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	res := a.engine.ApplySave(msg.req, msg.fields, msg.err)
	a.sync(false)
	if res.Stale {
		return a, nil
	}
	if res.Err != nil {
		a.err = fmt.Sprintf("Save failed: %v", msg.err)
		return a, nil
	}
	a.mode = modeDetail
	a.detailID = res.ID
	a.notice = fmt.Sprintf("Saved employee #%s.", res.ID)
	return a, nil
}

func (a App) loadMore() (App, tea.Cmd) {
	req, err := a.engine.LoadMore()
	if err != nil {
		return a, nil
	}
	a.sync(false)
	return a, a.fetchCmd(req)
}

func (a App) selected() (engine.Record, bool) {
	idx := a.list.Selected()
	if idx < 0 || idx >= len(a.snap.Records) {
		return engine.Record{}, false
	}
	return a.snap.Records[idx], true
}

func (a App) record(id string) (engine.Record, bool) {
	for _, r := range a.snap.Records {
		if r.ID == id {
			return r, true
		}
	}
	return engine.Record{}, false
}

func (a App) dirty() bool {
	return a.mode == modeEdit && a.form.dirty(a.snap.Draft)
}

// --- Keys ---

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.quitConfirm {
		switch {
		case isKey(msg, "y"):
			return a, tea.Quit
		case isKey(msg, "n"), isBack(msg):
			a.quitConfirm = false
		}
		return a, nil
	}
	if a.helpOpen {
		if isBack(msg) || isKey(msg, "?") {
			a.helpOpen = false
		}
		return a, nil
	}
	a.notice = ""
	if a.mode != modeEdit {
		a.err = ""
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKeys(msg)
	case modeDetail:
		return a.handleDetailKeys(msg)
	case modeEdit:
		return a.handleEditKeys(msg)
	}
	return a.handleListKeys(msg)
}

func (a App) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isQuit(msg):
		return a, tea.Quit
	case isKey(msg, "?"):
		a.helpOpen = true
	case isUp(msg, a.vim):
		a.list.Up()
	case isDown(msg, a.vim):
		a.list.Down()
		if a.list.NearEnd(loadMoreThreshold) {
			return a.loadMore()
		}
	case isTop(msg, a.vim):
		a.list.Top()
	case isBottom(msg, a.vim):
		a.list.Bottom()
		return a.loadMore()
	case isKey(msg, "/"):
		a.mode = modeSearch
		a.search.SetValue(a.snap.Scope)
		a.search.CursorEnd()
		a.search.Focus()
	case isKey(msg, "c"):
		return a.requestScope("")
	case isKey(msg, "r"):
		req, err := a.engine.Start()
		if err != nil {
			a.err = err.Error()
			return a, nil
		}
		a.sync(true)
		return a, a.fetchCmd(req)
	case isEnter(msg):
		if rec, ok := a.selected(); ok {
			a.mode = modeDetail
			a.detailID = rec.ID
		}
	case isKey(msg, "e"):
		if rec, ok := a.selected(); ok {
			return a.startEdit(rec.ID)
		}
	}
	return a, nil
}

func (a App) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		a.search.Blur()
		a.mode = modeList
		return a, nil
	case isEnter(msg):
		a.search.Blur()
		a.mode = modeList
		return a.requestScope(a.search.Value())
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	return a, cmd
}

func (a App) requestScope(key string) (tea.Model, tea.Cmd) {
	req, err := a.engine.RequestScope(key)
	if err != nil {
		a.err = err.Error()
		return a, nil
	}
	if req == nil {
		return a, nil
	}
	a.sync(true)
	return a, a.fetchCmd(*req)
}

func (a App) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		a.mode = modeList
	case isQuit(msg):
		return a, tea.Quit
	case isKey(msg, "?"):
		a.helpOpen = true
	case isKey(msg, "e"):
		return a.startEdit(a.detailID)
	}
	return a, nil
}

func (a App) startEdit(id string) (tea.Model, tea.Cmd) {
	if err := a.engine.BeginEdit(id); err != nil {
		a.err = err.Error()
		return a, nil
	}
	a.sync(false)
	rec, _ := a.record(id)
	a.form = newEditForm(rec, a.snap.Draft)
	a.detailID = id
	a.mode = modeEdit
	return a, nil
}

func (a App) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isKey(msg, "ctrl+c") {
		if a.dirty() {
			a.quitConfirm = true
			return a, nil
		}
		return a, tea.Quit
	}
	if isBack(msg) {
		a.engine.CancelEdit()
		a.sync(false)
		a.err = ""
		a.mode = modeDetail
		return a, nil
	}
	if a.snap.Saving {
		return a, nil
	}

	switch {
	case isSave(msg), isEnter(msg):
		req, err := a.engine.PrepareSave()
		if err != nil {
			a.err = err.Error()
			return a, nil
		}
		a.err = ""
		a.sync(false)
		return a, a.saveCmd(req)
	case isNextField(msg):
		a.form.next()
		return a, nil
	case isPrevField(msg):
		a.form.prev()
		return a, nil
	}

	value, changed, cmd := a.form.update(msg)
	if changed {
		if err := a.engine.UpdateField(a.form.focusedName(), value); err != nil {
			a.err = err.Error()
		}
		a.sync(false)
	}
	return a, cmd
}

// --- View ---

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	header := centerBlockUniform(a.renderHeader(), a.width)

	var content string
	switch {
	case a.quitConfirm:
		content = components.ConfirmDialog("Quit", "You have unsaved changes. Quit anyway?")
	case a.helpOpen:
		content = a.renderHelp()
	case a.mode == modeEdit:
		content = a.form.view(a.width, a.snap.Draft, a.snap.Saving)
	case a.mode == modeDetail:
		content = a.renderDetail()
	default:
		content = a.renderList()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if a.notice != "" {
		feedback = "\n\n" + centerBlockUniform(SuccessStyle.Render(a.notice), a.width)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s%s", banner, header, content, hints, feedback)
}

func (a App) renderHeader() string {
	scope := MutedStyle.Render("All employees")
	if a.snap.Scope != "" {
		scope = ScopeBadgeStyle.Render("ID " + components.SanitizeOneLine(a.snap.Scope))
	}
	count := components.InfoRow("Loaded", strconv.Itoa(len(a.snap.Records)))
	return scope + "  " + count
}

// emptyText is shown in place of the list when nothing is loaded.
func (a App) emptyText() string {
	scope := components.SanitizeOneLine(a.snap.Scope)
	if a.snap.Cursor.IsLoading {
		if scope != "" {
			return fmt.Sprintf("Searching for ID: %s...", scope)
		}
		return "Loading initial records..."
	}
	if scope != "" {
		return fmt.Sprintf("No record found with ID: %s", scope)
	}
	return "No records found."
}

func (a App) renderList() string {
	var sections []string
	if a.mode == modeSearch {
		sections = append(sections, components.InputDialog("Search by ID", a.search.View()))
	}

	if len(a.list.Items) == 0 {
		sections = append(sections, components.Box(MutedStyle.Render(a.emptyText()), a.width))
		return strings.Join(sections, "\n\n")
	}

	visible := a.list.Visible()
	rows := make([]string, len(visible))
	for i, item := range visible {
		if a.list.IsSelected(a.list.RelToAbs(i)) {
			rows[i] = SelectedStyle.Render("› " + item)
		} else {
			rows[i] = NormalStyle.Render("  " + item)
		}
	}

	cur := a.snap.Cursor
	switch {
	case cur.IsLoading:
		rows = append(rows, "", MutedStyle.Render("Loading more..."))
	case !cur.HasMore:
		rows = append(rows, "", MutedStyle.Render(endOfListText))
	}

	title := "Employees"
	if a.snap.Scope != "" {
		title = "Search results"
	}
	sections = append(sections, components.TitledBox(title, strings.Join(rows, "\n"), a.width))
	return strings.Join(sections, "\n\n")
}

func (a App) renderDetail() string {
	rec, ok := a.record(a.detailID)
	if !ok {
		return components.Box(MutedStyle.Render(fmt.Sprintf("No record found with ID: %s", a.detailID)), a.width)
	}
	title := components.SanitizeOneLine(rec.DisplayName())
	rows := detailRows(rec)
	for i := range rows {
		rows[i].Value = components.SanitizeOneLine(rows[i].Value)
	}
	return components.Table(title, rows, a.width)
}

func (a App) renderHelp() string {
	hints := a.helpHints()
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"), "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	return components.Indent(components.TitledBox("Help", strings.Join(lines, "\n"), a.width), 1)
}

func (a App) helpHints() []string {
	down, up := "↓", "↑"
	if a.vim {
		down, up = "↓/j", "↑/k"
	}
	return []string{
		components.Hint(up+" "+down, "Move"),
		components.Hint("enter", "Open"),
		components.Hint("e", "Edit"),
		components.Hint("/", "Search by ID"),
		components.Hint("c", "Clear search"),
		components.Hint("r", "Reload"),
		components.Hint("tab", "Next field"),
		components.Hint("ctrl+s", "Save"),
		components.Hint("esc", "Back"),
		components.Hint("q", "Quit"),
	}
}

func (a App) statusHints() []string {
	switch a.mode {
	case modeSearch:
		return []string{components.Hint("enter", "Search"), components.Hint("esc", "Cancel")}
	case modeDetail:
		return []string{components.Hint("e", "Edit"), components.Hint("esc", "Back"), components.Hint("q", "Quit")}
	case modeEdit:
		if a.snap.Saving {
			return []string{components.Hint("esc", "Cancel")}
		}
		return []string{
			components.Hint("tab", "Next field"),
			components.Hint("ctrl+s", "Save"),
			components.Hint("esc", "Cancel"),
		}
	}
	return []string{
		components.Hint("enter", "Open"),
		components.Hint("e", "Edit"),
		components.Hint("/", "Search"),
		components.Hint("?", "Help"),
		components.Hint("q", "Quit"),
	}
}

// centerBlockUniform pads every line of s by the same amount so the block is
// centered in width.
func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	prefix := strings.Repeat(" ", (width-maxWidth)/2)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
